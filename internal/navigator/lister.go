package navigator

import (
	"os"
	"path/filepath"
)

// osLister lists directories on disk, rooted at an absolute workspace
// directory. It reports regular files and directories only; the navigator
// applies its own exclusion rules on top.
type osLister struct {
	root string
}

// NewOSLister returns a Lister backed by the local filesystem.
// workspaceRoot must be an absolute directory path.
func NewOSLister(workspaceRoot string) Lister {
	return &osLister{root: workspaceRoot}
}

func (l *osLister) ListChildren(path string) ([]Child, error) {
	dir := filepath.Join(l.root, filepath.FromSlash(Normalize(path)))

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	children := make([]Child, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() && !entry.Type().IsRegular() {
			continue
		}
		children = append(children, Child{
			Name:  entry.Name(),
			IsDir: entry.IsDir(),
		})
	}
	return children, nil
}
