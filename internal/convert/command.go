package convert

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// buildCheckArgs constructs the analyzer argv for one conversion check.
// candidatePath must be workspace-relative; escaping the workspace is
// rejected here so no hostile path ever reaches the analyzer.
func buildCheckArgs(candidatePath, moduleName string) ([]string, error) {
	if candidatePath == "" {
		return nil, errors.New("candidate path is required")
	}
	if moduleName == "" {
		return nil, errors.New("module name is required")
	}

	if err := validateCandidatePath(candidatePath); err != nil {
		return nil, err
	}

	return []string{
		"check-conversion",
		"--file", candidatePath,
		"--module", moduleName,
		"--json",
	}, nil
}

// validateCandidatePath rejects absolute paths and any path that escapes the
// workspace after cleaning.
func validateCandidatePath(p string) error {
	if strings.HasPrefix(p, "/") || strings.HasPrefix(p, "\\") {
		return fmt.Errorf("candidate path must be workspace-relative: %s", p)
	}

	clean := path.Clean(strings.ReplaceAll(p, "\\", "/"))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("candidate path escapes workspace: %s", p)
	}
	return nil
}
