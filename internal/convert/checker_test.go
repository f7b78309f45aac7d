package convert

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for conversion checking:
// - The analyzer argv is a fixed direct argv, never a shell string
// - Absolute and workspace-escaping candidate paths are rejected
// - A missing binary yields an unavailable checker, not an error
// - The disabled checker reports unavailable and refuses checks
// - Analyzer JSON verdicts parse into Info; garbage is an error
// - The mock records calls and honors per-path verdicts and errors

func TestBuildCheckArgs(t *testing.T) {
	t.Parallel()

	args, err := buildCheckArgs("src/payment.rs", "billing")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"check-conversion",
		"--file", "src/payment.rs",
		"--module", "billing",
		"--json",
	}, args)
}

func TestBuildCheckArgs_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		candidatePath string
		moduleName    string
	}{
		{"empty path", "", "billing"},
		{"empty module", "src/payment.rs", ""},
		{"absolute path", "/etc/passwd", "billing"},
		{"windows absolute", "\\windows\\system32", "billing"},
		{"parent escape", "../outside.rs", "billing"},
		{"nested escape", "src/../../outside.rs", "billing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := buildCheckArgs(tt.candidatePath, tt.moduleName)
			assert.Error(t, err)
		})
	}
}

func TestBuildCheckArgs_CleanedRelativePathAllowed(t *testing.T) {
	t.Parallel()

	// Cleans to src/payment.rs, still inside the workspace.
	_, err := buildCheckArgs("src/models/../payment.rs", "billing")
	assert.NoError(t, err)
}

func TestNewBinaryChecker_MissingBinary(t *testing.T) {
	t.Parallel()

	checker := NewBinaryChecker("definitely-not-a-real-binary-name", time.Second)
	assert.False(t, checker.Available())

	_, err := checker.Check(context.Background(), t.TempDir(), "src/payment.rs", "billing")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestDisabledChecker(t *testing.T) {
	t.Parallel()

	checker := Disabled()
	assert.False(t, checker.Available())

	_, err := checker.Check(context.Background(), t.TempDir(), "src/payment.rs", "billing")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestParseCheckOutput(t *testing.T) {
	t.Parallel()

	info, err := parseCheckOutput([]byte(`{"needs_conversion": true}`))
	require.NoError(t, err)
	assert.True(t, info.NeedsConversion)

	info, err = parseCheckOutput([]byte(`{"needs_conversion": false}`))
	require.NoError(t, err)
	assert.False(t, info.NeedsConversion)

	_, err = parseCheckOutput([]byte("not json at all"))
	assert.Error(t, err)
}

func TestMockChecker(t *testing.T) {
	t.Parallel()

	m := NewMockChecker()
	m.Verdicts["src/payment.rs"] = Info{NeedsConversion: true}
	m.Errs["src/broken.rs"] = errors.New("scripted failure")

	info, err := m.Check(context.Background(), "/ws", "src/payment.rs", "billing")
	require.NoError(t, err)
	assert.True(t, info.NeedsConversion)

	info, err = m.Check(context.Background(), "/ws", "src/other.rs", "billing")
	require.NoError(t, err)
	assert.False(t, info.NeedsConversion, "unknown paths fall back to the zero Default")

	_, err = m.Check(context.Background(), "/ws", "src/broken.rs", "billing")
	require.Error(t, err)

	assert.Equal(t, []string{"src/payment.rs", "src/other.rs", "src/broken.rs"}, m.Calls())
}
