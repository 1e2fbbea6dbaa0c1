// Package plotpage renders scenes as standalone interactive HTML pages.
package plotpage

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"
)

const styleTagLen = 8 // len("</style>")

// Style defines chart dimensions.
type Style struct {
	Width  string
	Height string
}

// DefaultStyle returns the default chart style.
func DefaultStyle() Style {
	return Style{
		Width:  "100%",
		Height: "640px",
	}
}

// Hint contains interpretive guidance for a chart section.
type Hint struct {
	Title string
	Items []string
}

// Section represents a chart section within a page.
type Section struct {
	Title    string
	Subtitle string
	Hint     Hint
	Chart    Renderable
}

// Page represents a complete visualization page.
type Page struct {
	Title           string
	Description     string
	ProjectName     string
	ProjectSubtitle string
	ShowThemeToggle bool
	Style           Style
	Theme           Theme
	Sections        []Section
}

// NewPage creates a new visualization page.
func NewPage(title, description string) *Page {
	return &Page{
		Title:           title,
		Description:     description,
		ProjectName:     "segviz",
		ProjectSubtitle: "Segment Tree",
		ShowThemeToggle: true,
		Style:           DefaultStyle(),
		Theme:           ThemeDark,
	}
}

// WithTheme sets the theme for the page.
func (p *Page) WithTheme(theme Theme) *Page {
	p.Theme = theme

	return p
}

// Add appends sections to the page.
func (p *Page) Add(sections ...Section) {
	p.Sections = append(p.Sections, sections...)
}

// Render writes the page as HTML.
func (p *Page) Render(w io.Writer) error {
	header, err := renderTemplate("header.html", headerData{
		ProjectName:     p.ProjectName,
		Subtitle:        p.ProjectSubtitle,
		Title:           p.Title,
		Description:     p.Description,
		ShowThemeToggle: p.ShowThemeToggle,
	})
	if err != nil {
		return fmt.Errorf("render header: %w", err)
	}

	var sectionsHTML bytes.Buffer

	for _, section := range p.Sections {
		sectionHTML, sectionErr := renderSection(section)
		if sectionErr != nil {
			return fmt.Errorf("render section: %w", sectionErr)
		}

		sectionsHTML.WriteString(string(sectionHTML))
	}

	scripts, err := renderTemplate("scripts.html", nil)
	if err != nil {
		return fmt.Errorf("render scripts: %w", err)
	}

	darkClass := ""
	if p.Theme == ThemeDark {
		darkClass = "dark"
	}

	html, err := renderTemplate("page.html", pageData{
		Title:     p.Title,
		DarkClass: darkClass,
		Theme:     GetThemeConfig(p.Theme),
		Header:    header,
		Content:   template.HTML(sectionsHTML.String()), //nolint:gosec // rendered sections.
		Scripts:   scripts,
	})
	if err != nil {
		return fmt.Errorf("render page: %w", err)
	}

	_, err = io.WriteString(w, string(html))
	if err != nil {
		return fmt.Errorf("writing page: %w", err)
	}

	return nil
}

func renderSection(section Section) (template.HTML, error) {
	chartHTML, err := renderChart(section.Chart)
	if err != nil {
		return "", err
	}

	var hint *hintData

	if len(section.Hint.Items) > 0 {
		hint = &hintData{Title: section.Hint.Title, Items: section.Hint.Items}
	}

	return renderTemplate("section.html", sectionData{
		Title:    section.Title,
		Subtitle: section.Subtitle,
		Chart:    template.HTML(chartHTML), //nolint:gosec // echarts output.
		Hint:     hint,
	})
}

// Renderable is the interface for chart components.
type Renderable interface {
	Render(w io.Writer) error
}

func renderChart(chart Renderable) (string, error) {
	if chart == nil {
		return "", nil
	}

	var buf bytes.Buffer

	err := chart.Render(&buf)
	if err != nil {
		return "", fmt.Errorf("rendering chart: %w", err)
	}

	return extractChartContent(buf.String()), nil
}

// extractChartContent strips the page shell go-echarts wraps around a chart,
// keeping the chart div and its script.
func extractChartContent(html string) string {
	trimmed := strings.TrimSpace(html)
	if !strings.HasPrefix(trimmed, "<!DOCTYPE") && !strings.HasPrefix(trimmed, "<html") {
		return html
	}

	start := strings.Index(html, `<div class="container">`)
	if start == -1 {
		return html
	}

	end := strings.Index(html, `</body>`)
	if end == -1 {
		return html
	}

	content := html[start:end]
	content = strings.ReplaceAll(content, `class="container"`, `class="echart-box"`)

	return removeStyleTags(content)
}

func removeStyleTags(content string) string {
	for {
		i := strings.Index(content, `<style>`)
		if i == -1 {
			break
		}

		j := strings.Index(content[i:], `</style>`)
		if j == -1 {
			break
		}

		content = content[:i] + content[i+j+styleTagLen:]
	}

	return content
}
