package navigator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/gobwas/glob"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/RustyRoad/rusty-refactor-sub001/internal/convert"
)

// Conventions is the fixed RustyRoad directory layout, in display order.
// The navigator only ever uses these as suggestions and annotations; they
// never filter real entries.
var Conventions = []string{
	"controllers",
	"models",
	"views",
	"services",
	"middleware",
	"helpers",
	"lib",
	"utils",
	"config",
	"routes",
	"handlers",
	"repositories",
	"domain",
}

// Structural exclusions. These are properties of the target ecosystem, not
// configuration: cargo's build output and the JS dependency cache.
const (
	buildOutputDir     = "target"
	dependencyCacheDir = "node_modules"
)

// reservedModuleFiles are the aggregator filenames that can never be
// converted into folder modules.
var reservedModuleFiles = map[string]bool{
	"main.rs": true,
	"lib.rs":  true,
	"mod.rs":  true,
}

// Options configures a Navigator.
type Options struct {
	// WorkspaceRoot is the absolute project directory, passed through to the
	// conversion checker as its working directory.
	WorkspaceRoot string

	// SourceRoot is the designated source root folks navigate under ("src").
	SourceRoot string

	// ModuleExtension is the module file extension without dot ("rs").
	ModuleExtension string

	// ConventionMode enables convention annotations and suggestions.
	ConventionMode bool

	// IgnorePatterns are extra glob patterns excluded from listings, layered
	// on top of the fixed structural exclusions.
	IgnorePatterns []string
}

// Navigator walks a workspace subtree and classifies entries for target
// selection. It is stateless; all navigation state lives in the session.
type Navigator struct {
	lister   Lister
	checker  convert.Checker
	opts     Options
	ignore   []glob.Glob
	collator *collate.Collator
}

// New creates a Navigator. The checker may be a disabled implementation;
// candidate-file scanning is skipped entirely when the capability is absent.
func New(lister Lister, checker convert.Checker, opts Options) (*Navigator, error) {
	if lister == nil {
		return nil, errors.New("lister is required")
	}
	if checker == nil {
		checker = convert.Disabled()
	}
	if opts.SourceRoot == "" {
		opts.SourceRoot = "src"
	}
	if opts.ModuleExtension == "" {
		opts.ModuleExtension = "rs"
	}
	opts.SourceRoot = Normalize(opts.SourceRoot)

	ignore := make([]glob.Glob, 0, len(opts.IgnorePatterns))
	for _, pattern := range opts.IgnorePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		ignore = append(ignore, g)
	}

	return &Navigator{
		lister:   lister,
		checker:  checker,
		opts:     opts,
		ignore:   ignore,
		collator: collate.New(language.Und, collate.IgnoreCase),
	}, nil
}

// SourceRoot returns the normalized designated source root.
func (n *Navigator) SourceRoot() string {
	return n.opts.SourceRoot
}

// ModuleExtension returns the module file extension without dot.
func (n *Navigator) ModuleExtension() string {
	return n.opts.ModuleExtension
}

// ListDirectory lists currentPath for target selection. moduleName is the
// module being extracted; it is only used to phrase conversion notes and to
// give the native analyzer its insertion context.
//
// A directory that does not exist yields an empty listing (plus suggestions
// where applicable), not an error. Any other read fault is reported as a
// DirectoryUnreadableError.
func (n *Navigator) ListDirectory(ctx context.Context, currentPath, moduleName string) (*Listing, error) {
	current := Normalize(currentPath)

	listing := &Listing{
		Path:        current,
		Directories: []DirectoryEntry{},
		ModuleFiles: []DirectoryEntry{},
		Suggestions: []DirectoryEntry{},
		Breadcrumb:  Breadcrumb(current),
		ParentPath:  n.parentOf(current),
	}

	children, err := n.lister.ListChildren(current)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			n.addSuggestions(listing, 0)
			return listing, nil
		}
		return nil, &DirectoryUnreadableError{Path: current, Err: err}
	}

	visible := 0
	var candidates []string
	for _, child := range children {
		if n.excluded(current, child.Name) {
			continue
		}
		visible++

		if child.IsDir {
			entry := DirectoryEntry{
				Name: child.Name,
				Kind: KindDirectory,
				Path: Join(current, child.Name),
			}
			if n.opts.ConventionMode && isConvention(child.Name) {
				entry.Annotation = "convention"
			}
			listing.Directories = append(listing.Directories, entry)
			continue
		}

		if n.isModuleCandidate(child.Name) {
			candidates = append(candidates, child.Name)
		}
	}

	sort.SliceStable(listing.Directories, func(i, j int) bool {
		return n.collator.CompareString(listing.Directories[i].Name, listing.Directories[j].Name) < 0
	})

	// No native analyzer means no candidate-file scan at all; directories
	// are still listed normally.
	if n.checker.Available() && len(candidates) > 0 {
		listing.ModuleFiles = n.checkCandidates(ctx, current, moduleName, candidates)
	}

	n.addSuggestions(listing, visible)
	return listing, nil
}

// checkCandidates consults the conversion checker for every candidate file
// in one listing. Checks for different files run concurrently; all of them
// complete (or fail) before the listing is emitted. A failed check drops
// only that file.
func (n *Navigator) checkCandidates(ctx context.Context, current, moduleName string, candidates []string) []DirectoryEntry {
	results := make([]*DirectoryEntry, len(candidates))

	var wg sync.WaitGroup
	for i, name := range candidates {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()

			candidatePath := Join(current, name)
			info, err := n.checker.Check(ctx, n.opts.WorkspaceRoot, candidatePath, moduleName)
			if err != nil {
				log.Printf("[navigator] conversion check failed for %s: %v", candidatePath, err)
				return
			}
			if !info.NeedsConversion {
				return
			}

			stem := strings.TrimSuffix(name, "."+n.opts.ModuleExtension)
			results[i] = &DirectoryEntry{
				Name: name,
				Kind: KindModuleFile,
				Path: candidatePath,
				Annotation: fmt.Sprintf("converts %s to %s/mod.%s before %q can be added",
					name, stem, n.opts.ModuleExtension, moduleName),
			}
		}(i, name)
	}
	wg.Wait()

	// Preserve source order.
	entries := make([]DirectoryEntry, 0, len(candidates))
	for _, entry := range results {
		if entry != nil {
			entries = append(entries, *entry)
		}
	}
	return entries
}

// addSuggestions appends convention suggestions when convention mode is on,
// the current path is the source root, and nothing visible exists there yet.
// Suggestions never appear once real structure exists.
func (n *Navigator) addSuggestions(listing *Listing, visible int) {
	if !n.opts.ConventionMode || visible > 0 || listing.Path != n.opts.SourceRoot {
		return
	}

	for _, name := range Conventions {
		listing.Suggestions = append(listing.Suggestions, DirectoryEntry{
			Name:       name,
			Kind:       KindSuggestion,
			Path:       Join(listing.Path, name),
			Annotation: "convention",
		})
	}
}

// parentOf ascends one segment, clamped at the source root: ascending from
// the source root (or above it) yields the workspace root "".
func (n *Navigator) parentOf(current string) string {
	if current == n.opts.SourceRoot || current == "" {
		return ""
	}
	return Parent(current)
}

func (n *Navigator) excluded(current, name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	if name == buildOutputDir || name == dependencyCacheDir {
		return true
	}

	rel := Join(current, name)
	for _, g := range n.ignore {
		if g.Match(rel) || g.Match(name) {
			return true
		}
	}
	return false
}

func (n *Navigator) isModuleCandidate(name string) bool {
	if reservedModuleFiles[name] {
		return false
	}
	return strings.HasSuffix(name, "."+n.opts.ModuleExtension)
}

func isConvention(name string) bool {
	for _, c := range Conventions {
		if name == c {
			return true
		}
	}
	return false
}
