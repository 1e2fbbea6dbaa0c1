package terminal

import (
	"strings"
	"unicode/utf8"
)

// Box drawing characters.
const (
	BoxHorizontal       = "─"
	BoxHeavyHorizontal  = "━"
	BoxHeavyVertical    = "┃"
	BoxHeavyTopLeft     = "┏"
	BoxHeavyTopRight    = "┓"
	BoxHeavyBottomLeft  = "┗"
	BoxHeavyBottomRight = "┛"
)

// HeaderPadding is the space around header content.
const HeaderPadding = 1

// headerBorders counts the two vertical borders and the minimum gap.
const headerBorders = 4

// DrawSeparator draws a thin horizontal separator line.
func DrawSeparator(width int) string {
	if width <= 0 {
		return ""
	}

	return strings.Repeat(BoxHorizontal, width)
}

// DrawHeader draws a heavy-bordered section header.
//
//	┏━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━┓
//	┃ TITLE                     rightText ┃
//	┗━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━┛
func DrawHeader(title, rightText string, width int) string {
	titleLen := utf8.RuneCountInString(title)
	rightLen := utf8.RuneCountInString(rightText)

	width = max(width, titleLen+rightLen+headerBorders+HeaderPadding*2)
	innerWidth := width - 2

	contentWidth := innerWidth - HeaderPadding*2
	gap := max(contentWidth-titleLen-rightLen, 1)
	content := title + strings.Repeat(" ", gap) + rightText
	pad := strings.Repeat(" ", HeaderPadding)

	var sb strings.Builder

	sb.WriteString(BoxHeavyTopLeft + strings.Repeat(BoxHeavyHorizontal, innerWidth) + BoxHeavyTopRight + "\n")
	sb.WriteString(BoxHeavyVertical + pad + content + pad + BoxHeavyVertical + "\n")
	sb.WriteString(BoxHeavyBottomLeft + strings.Repeat(BoxHeavyHorizontal, innerWidth) + BoxHeavyBottomRight)

	return sb.String()
}
