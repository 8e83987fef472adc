package tools

import (
	"github.com/tb0hdan/masscan-mcp/pkg/masscan"
	"github.com/tb0hdan/masscan-mcp/pkg/server"
)

type Tool interface {
	Register(srv *server.Server) error
}

// ScanInput is implemented by tool inputs that describe a scan, so the
// execution log can record the target.
type ScanInput interface {
	ScanRequest() masscan.ScanRequest
}

// NewScanRequest copies tool input into an executor request.
func NewScanRequest(target, port string, args []string) masscan.ScanRequest {
	return masscan.ScanRequest{
		Target:    target,
		Port:      port,
		ExtraArgs: append([]string(nil), args...),
	}
}
