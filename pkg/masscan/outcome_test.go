package masscan

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcomeKinds(t *testing.T) {
	cases := map[Kind]Outcome{
		KindSuccess:          Success{},
		KindNonZeroExit:      NonZeroExit{},
		KindTimedOut:         TimedOut{},
		KindBinaryNotFound:   BinaryNotFound{},
		KindPermissionDenied: PermissionDenied{Command: NewCommandLine("", ScanRequest{})},
		KindOtherFailure:     OtherFailure{},
	}
	for kind, outcome := range cases {
		assert.Equal(t, kind, outcome.Kind())
		assert.NotEmpty(t, outcome.Render())
	}
}

func TestRender_Success(t *testing.T) {
	text := Success{Output: "Discovered open port 80/tcp on 10.0.0.1\n"}.Render()

	assert.Contains(t, text, "Discovered open port 80/tcp on 10.0.0.1")
	assert.Contains(t, text, "Scan completed successfully.")
}

func TestRender_NonZeroExit(t *testing.T) {
	text := NonZeroExit{Code: 3, Output: "FAIL: bad range"}.Render()

	assert.Contains(t, text, "exited with code 3")
	assert.Contains(t, text, "FAIL: bad range")
}

func TestRender_TimedOut(t *testing.T) {
	assert.Contains(t, TimedOut{Limit: DefaultTimeout}.Render(), "timed out after 5 minutes")
	assert.Contains(t, TimedOut{Limit: time.Minute}.Render(), "timed out after 1 minute.")
	assert.Contains(t, TimedOut{Limit: 1500 * time.Millisecond}.Render(), "timed out after 1.5s")
}

func TestRender_BinaryNotFound(t *testing.T) {
	text := BinaryNotFound{Binary: "masscan"}.Render()

	assert.Contains(t, text, "masscan not found")
	assert.Contains(t, text, "brew install masscan")
	assert.Contains(t, text, "apt-get install masscan")

	assert.Contains(t, BinaryNotFound{}.Render(), "masscan not found")
}

func TestRender_OtherFailure(t *testing.T) {
	text := OtherFailure{Message: "fork/exec: resource temporarily unavailable"}.Render()

	assert.Contains(t, text, "Error running masscan")
	assert.Contains(t, text, "resource temporarily unavailable")
}

func TestRender_PermissionDenied(t *testing.T) {
	cmd := NewCommandLine("masscan", ScanRequest{Target: "10.0.0.1", Port: "80", ExtraArgs: []string{"--max-rate", "100"}})
	text := PermissionDenied{Command: cmd, Output: "FAIL: permission denied"}.Render()

	assert.Contains(t, text, "masscan -p80 10.0.0.1 --max-rate 100")
	assert.Contains(t, text, "sudo masscan -p80 10.0.0.1 --max-rate 100")
	assert.Contains(t, text, "docker run --rm --cap-add=NET_RAW masscan/masscan -p80 10.0.0.1 --max-rate 100")
	assert.NotContains(t, text, "FAIL: permission denied")
}

func TestClassify(t *testing.T) {
	limit := 2 * time.Second

	tests := []struct {
		name   string
		result RunResult
		want   Outcome
	}{
		{
			name:   "timeout wins",
			result: RunResult{Stdout: "partial", Err: fmt.Errorf("masscan interrupted: %w", context.DeadlineExceeded)},
			want:   TimedOut{Limit: limit},
		},
		{
			name:   "binary not found",
			result: RunResult{Err: &NotFoundError{Binary: "masscan", Err: exec.ErrNotFound}},
			want:   BinaryNotFound{Binary: "masscan"},
		},
		{
			name:   "success concatenates stdout then stderr",
			result: RunResult{Stdout: "out\n", Stderr: "err\n"},
			want:   Success{Output: "out\nerr\n"},
		},
		{
			name:   "non-zero exit",
			result: RunResult{Stdout: "out", Stderr: "boom", ExitCode: 1},
			want:   NonZeroExit{Code: 1, Output: "outboom"},
		},
		{
			name:   "other failure",
			result: RunResult{Err: errors.New("pipe broke")},
			want:   OtherFailure{Message: "pipe broke"},
		},
		{
			name:   "cancelled is not a timeout",
			result: RunResult{Err: fmt.Errorf("masscan interrupted: %w", context.Canceled)},
			want:   OtherFailure{Message: "masscan interrupted: context canceled"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Classify(tt.result, limit))
		})
	}
}

func TestNotFoundError(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &NotFoundError{Binary: "masscan", Err: exec.ErrNotFound})

	assert.ErrorIs(t, err, ErrBinaryNotFound)
	assert.ErrorIs(t, err, exec.ErrNotFound)
	assert.Contains(t, err.Error(), "masscan not found")
}

func TestRunResultOutput_InvalidUTF8(t *testing.T) {
	out := RunResult{Stdout: "ok\xff"}.Output()

	assert.Equal(t, "ok�", out)
}
