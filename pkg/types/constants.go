package types

const (
	// MaxDefaultLines is the page size used when a tool call does not set max_lines.
	MaxDefaultLines = 200
	// MaxAllowedLines caps max_lines.
	MaxAllowedLines = 100000
	// MaxExtraArgs caps the number of extra masscan arguments per call.
	MaxExtraArgs = 64
)
