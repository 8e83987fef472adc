package masscan

import "strings"

// PermissionPhrases are matched case-insensitively against scanner output.
// Masscan's diagnostics are not a stable format, so this list may need
// revisiting per masscan version.
var PermissionPhrases = []string{
	"permission denied",
	"need to sudo",
	"operation not permitted",
}

// DetectPermissionFailure is a best-effort check for a raw socket permission
// failure in captured output. It only changes how a completed run is reported.
func DetectPermissionFailure(output string) bool {
	lower := strings.ToLower(output)
	for _, phrase := range PermissionPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
