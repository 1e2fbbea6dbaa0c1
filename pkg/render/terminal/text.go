package terminal

import "strings"

// Ellipsis is appended to truncated strings.
const Ellipsis = "..."

// EllipsisLen is the length of the ellipsis string.
const EllipsisLen = 3

// TruncateWithEllipsis truncates s to maxWidth, adding "..." if truncated.
func TruncateWithEllipsis(s string, maxWidth int) string {
	if len(s) <= maxWidth {
		return s
	}

	if maxWidth <= EllipsisLen {
		return strings.Repeat(".", maxWidth)
	}

	return s[:maxWidth-EllipsisLen] + Ellipsis
}
