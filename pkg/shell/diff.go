package shell

import (
	"strconv"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/Sumatoshi-tech/segviz/pkg/render/terminal"
)

// formatArray renders values as "[1, 3, -2]".
func formatArray(values []int64) string {
	parts := make([]string, len(values))

	for i, v := range values {
		parts[i] = strconv.FormatInt(v, 10)
	}

	return "[" + strings.Join(parts, ", ") + "]"
}

// ArrayDiff renders the change from before to after as a word diff.
// Deleted text is shown as [-text-] and inserted text as {+text+}, colored
// when the config allows it. Equal arrays yield "".
func ArrayDiff(cfg terminal.Config, before, after []int64) string {
	oldText, newText := formatArray(before), formatArray(after)
	if oldText == newText {
		return ""
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(oldText, newText, false))

	var sb strings.Builder

	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			sb.WriteString(cfg.Colorize("[-"+d.Text+"-]", terminal.ColorRed))
		case diffmatchpatch.DiffInsert:
			sb.WriteString(cfg.Colorize("{+"+d.Text+"+}", terminal.ColorGreen))
		case diffmatchpatch.DiffEqual:
			sb.WriteString(d.Text)
		}
	}

	return sb.String()
}
