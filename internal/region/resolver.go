package region

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/RustyRoad/rusty-refactor-sub001/internal/symbols"
)

// Method records how an extraction range was resolved. It is surfaced all
// the way to the confirmation report so a user can tell whether extraction
// matched the intended code.
type Method string

const (
	// MethodSymbol means the range came from the symbol index.
	MethodSymbol Method = "symbol"

	// MethodLineRange means symbol resolution did not apply and the explicit
	// line range was used instead.
	MethodLineRange Method = "line-range"
)

// ErrRegionNotFound means neither a matching declaration nor a usable line
// range was available. It is fatal to the single extraction attempt and must
// never be silently replaced with an empty or wrong range.
var ErrRegionNotFound = errors.New("no matching declaration and no usable line range")

// Request describes one extraction attempt. At least one of FunctionName or
// the (StartLine, EndLine) pair must be present; lines are 1-indexed and a
// zero value means unset.
type Request struct {
	SourceFilePath string `json:"source_file_path"`
	ModuleName     string `json:"module_name"`
	SelectedText   string `json:"selected_text,omitempty"`
	StartLine      int    `json:"start_line,omitempty"`
	EndLine        int    `json:"end_line,omitempty"`
	FunctionName   string `json:"function_name,omitempty"`
}

// Validate enforces the request invariants.
func (r Request) Validate() error {
	if r.FunctionName == "" && !r.hasLineRange() {
		return errors.New("request needs a function name or a line range")
	}
	if r.StartLine != 0 && r.EndLine != 0 && r.StartLine > r.EndLine {
		return fmt.Errorf("start line %d is after end line %d", r.StartLine, r.EndLine)
	}
	return nil
}

func (r Request) hasLineRange() bool {
	return r.StartLine >= 1 && r.EndLine >= r.StartLine
}

// Region is the authoritative extraction range. Immutable once returned.
type Region struct {
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
	Text      string `json:"text"`
	Method    Method `json:"method"`
}

// Resolver turns a request into one authoritative extraction range,
// preferring symbol-based resolution and falling back to line numbers.
// Symbol-first resolution is the reliability core of the whole feature:
// line numbers go stale after prior extractions, symbol names do not.
type Resolver struct {
	index *symbols.Index
}

// NewResolver creates a Resolver over the given symbol index.
func NewResolver(index *symbols.Index) *Resolver {
	return &Resolver{index: index}
}

// Resolve resolves the extraction range against the given source text.
//
//  1. A present function name is looked up in the symbol index. One match
//     wins outright; multiple matches tie-break to the one nearest the
//     request's start line hint, else the first in source order.
//  2. Otherwise an explicit line range is clamped to the document and used.
//  3. Otherwise the attempt fails with ErrRegionNotFound.
func (r *Resolver) Resolve(source []byte, req Request) (Region, error) {
	if err := req.Validate(); err != nil {
		return Region{}, fmt.Errorf("invalid extraction request: %w", err)
	}

	if req.FunctionName != "" {
		if matches := r.index.FindDeclaration(source, req.FunctionName); len(matches) > 0 {
			m := nearestMatch(matches, req.StartLine)
			return Region{
				StartLine: m.StartLine,
				EndLine:   m.EndLine,
				Text:      string(source[m.StartOffset:m.EndOffset]),
				Method:    MethodSymbol,
			}, nil
		}
	}

	if req.hasLineRange() {
		if region, ok := lineRangeRegion(source, req.StartLine, req.EndLine); ok {
			return region, nil
		}
	}

	return Region{}, fmt.Errorf("resolve %q in %s: %w", req.FunctionName, req.SourceFilePath, ErrRegionNotFound)
}

// ResolveFile reads the request's source file and resolves against it.
func (r *Resolver) ResolveFile(req Request) (Region, error) {
	source, err := os.ReadFile(req.SourceFilePath)
	if err != nil {
		return Region{}, fmt.Errorf("read source file: %w", err)
	}
	return r.Resolve(source, req)
}

// nearestMatch applies the multi-match tie-break: the match nearest the
// caller's approximate line hint by absolute distance, else the first one.
func nearestMatch(matches []symbols.Match, hintLine int) symbols.Match {
	if hintLine < 1 || len(matches) == 1 {
		return matches[0]
	}

	best := matches[0]
	bestDist := absInt(best.StartLine - hintLine)
	for _, m := range matches[1:] {
		if d := absInt(m.StartLine - hintLine); d < bestDist {
			best = m
			bestDist = d
		}
	}
	return best
}

// lineRangeRegion builds a region from a 1-indexed inclusive line range,
// clamping the end to the document. A start past end-of-file is unusable.
func lineRangeRegion(source []byte, startLine, endLine int) (Region, bool) {
	lines := strings.Split(string(source), "\n")
	if startLine > len(lines) {
		return Region{}, false
	}
	if endLine > len(lines) {
		endLine = len(lines)
	}

	return Region{
		StartLine: startLine,
		EndLine:   endLine,
		Text:      strings.Join(lines[startLine-1:endLine], "\n"),
		Method:    MethodLineRange,
	}, true
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
