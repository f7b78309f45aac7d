package navigator

import "fmt"

// EntryKind classifies a directory listing entry.
type EntryKind string

const (
	// KindDirectory is an ordinary directory the user can descend into or
	// select as the target.
	KindDirectory EntryKind = "directory"

	// KindModuleFile is a single-file module that the native analyzer says
	// must be converted to a folder module before a submodule can be added.
	KindModuleFile EntryKind = "module-file"

	// KindSuggestion is a convention directory that does not exist yet.
	KindSuggestion EntryKind = "suggestion"
)

// DirectoryEntry is one selectable or navigable entry in a listing.
// Path is always normalized, workspace-relative, forward-slash form.
type DirectoryEntry struct {
	Name       string    `json:"name"`
	Kind       EntryKind `json:"kind"`
	Path       string    `json:"path"`
	Annotation string    `json:"annotation,omitempty"`
}

// Listing is the result of listing one directory for target selection.
// Directories are sorted with locale-aware ordering; module files and
// suggestions keep their source order.
type Listing struct {
	Path        string           `json:"path"`
	Directories []DirectoryEntry `json:"directories"`
	ModuleFiles []DirectoryEntry `json:"module_files"`
	Suggestions []DirectoryEntry `json:"suggestions"`
	Breadcrumb  []string         `json:"breadcrumb"`
	ParentPath  string           `json:"parent_path"`

	// Notice carries a user-facing explanation when a listing was recovered
	// from a read failure. Empty on the happy path.
	Notice string `json:"notice,omitempty"`
}

// Child is one entry reported by the host's file-listing primitive.
type Child struct {
	Name  string
	IsDir bool
}

// Lister is the file-listing primitive supplied by the host environment.
// Paths are normalized workspace-relative strings ("" is the workspace root).
type Lister interface {
	ListChildren(path string) ([]Child, error)
}

// DirectoryUnreadableError reports a directory that exists but could not be
// read. The navigator never treats a missing directory as this error.
type DirectoryUnreadableError struct {
	Path string
	Err  error
}

func (e *DirectoryUnreadableError) Error() string {
	return fmt.Sprintf("directory %q unreadable: %v", e.Path, e.Err)
}

func (e *DirectoryUnreadableError) Unwrap() error {
	return e.Err
}
