//go:build !unix

package masscan

import "os/exec"

// Without process groups the default Cancel kills the direct child only.
func setProcessGroup(_ *exec.Cmd) {}
