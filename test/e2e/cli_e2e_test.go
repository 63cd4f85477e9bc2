package e2e

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// TestCLI_E2E builds the fibseq binary and checks its output and exit codes.
func TestCLI_E2E(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}

	tmpDir := t.TempDir()
	binName := "fibseq"
	if runtime.GOOS == "windows" {
		binName = "fibseq.exe"
	}
	binPath := filepath.Join(tmpDir, binName)

	// go test runs in the package directory; build from the module root.
	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/fibseq")
	cmd.Dir = "../.."
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("Failed to build fibseq: %v", err)
	}

	tests := []struct {
		name     string
		args     []string
		wantOut  string // substring match (case-insensitive)
		wantCode int
	}{
		{
			name:     "Basic Range",
			args:     []string{"-term-delay", "0", "-q", "0-7"},
			wantOut:  "0 1 1 2 3 5 8 13",
			wantCode: 0,
		},
		{
			name:     "Start And End Flags",
			args:     []string{"-term-delay", "0", "-start", "10", "-end", "12"},
			wantOut:  "55, 89, 144",
			wantCode: 0,
		},
		{
			name:     "Help",
			args:     []string{"-help"},
			wantOut:  "usage",
			wantCode: 0,
		},
		{
			name:     "Overflow Skipped",
			args:     []string{"-term-delay", "0", "92-96"},
			wantOut:  "skipped (overflow): 94, 95, 96",
			wantCode: 0,
		},
		{
			name:     "Partial On Timeout",
			args:     []string{"-term-delay", "20ms", "-timeout", "100ms", "0-90"},
			wantOut:  "partial result",
			wantCode: 2,
		},
		{
			name:     "Invalid Range",
			args:     []string{"-start", "9", "-end", "3"},
			wantOut:  "invalid request",
			wantCode: 4,
		},
		{
			name:     "Unknown Algorithm",
			args:     []string{"-algo", "nope"},
			wantOut:  "unknown algorithm",
			wantCode: 4,
		},
		{
			name:     "Batch JSON",
			args:     []string{"-term-delay", "0", "-json", "0-2", "3-4"},
			wantOut:  `"startIndex": 3`,
			wantCode: 0,
		},
		{
			name:     "Version Flag",
			args:     []string{"--version"},
			wantOut:  "fibseq",
			wantCode: 0,
		},
		{
			name:     "Completion",
			args:     []string{"-completion", "zsh"},
			wantOut:  "#compdef fibseq",
			wantCode: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(binPath, tt.args...)
			cmd.Env = append(os.Environ(), "NO_COLOR=1")
			output, err := cmd.CombinedOutput()
			outStr := string(output)

			code := 0
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				code = exitErr.ExitCode()
			} else if err != nil {
				t.Fatalf("Command failed to run: %v", err)
			}
			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d\nOutput: %s", code, tt.wantCode, outStr)
			}

			if tt.wantOut != "" && !strings.Contains(strings.ToLower(outStr), strings.ToLower(tt.wantOut)) {
				t.Errorf("Output missing expected string.\nExpected: %q\nGot:\n%s", tt.wantOut, outStr)
			}
		})
	}
}
