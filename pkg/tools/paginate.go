package tools

import (
	"fmt"
	"strings"

	"github.com/tb0hdan/masscan-mcp/pkg/types"
)

// Paginate returns a window of output lines. A zero maxLines selects
// types.MaxDefaultLines; an offset past the end falls back to the first page.
func Paginate(output string, maxLines, offset int) string {
	if maxLines <= 0 {
		maxLines = types.MaxDefaultLines
	}

	lines := strings.Split(output, "\n")
	totalLines := len(lines)

	truncated := false
	if offset > 0 && offset < totalLines {
		end := totalLines
		if offset+maxLines < totalLines {
			end = offset + maxLines
			truncated = true
		}
		lines = lines[offset:end]
	} else {
		offset = 0
		if totalLines > maxLines {
			lines = lines[:maxLines]
			truncated = true
		}
	}

	resultText := ""
	if truncated || offset > 0 {
		resultText = fmt.Sprintf("[Showing lines %d-%d of %d lines. Use offset parameter to view more.]\n\n", offset+1, offset+len(lines), totalLines)
	}
	return resultText + strings.Join(lines, "\n")
}
