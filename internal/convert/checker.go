package convert

import "context"

// Info is the analyzer's verdict for one candidate module file. It is never
// cached across navigations; the underlying file may change between them.
type Info struct {
	NeedsConversion bool `json:"needs_conversion"`
}

// Checker is the native analysis capability behind conversion decisions:
// given a module name and a candidate single-file module, it reports whether
// the file must become a folder module before the new submodule can be
// placed inside it.
//
// The capability is optional. Hosts without the native analyzer use a
// disabled checker; Available reports whether Check can succeed at all, so
// callers probe once instead of wrapping every call in error recovery.
type Checker interface {
	Available() bool
	Check(ctx context.Context, workspaceRoot, candidatePath, moduleName string) (Info, error)
}

// disabledChecker is the supported "no native analyzer" configuration.
type disabledChecker struct{}

// Disabled returns a Checker whose capability is permanently absent.
func Disabled() Checker {
	return disabledChecker{}
}

func (disabledChecker) Available() bool {
	return false
}

func (disabledChecker) Check(context.Context, string, string, string) (Info, error) {
	return Info{}, ErrUnavailable
}
