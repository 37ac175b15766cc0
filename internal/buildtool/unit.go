package buildtool

import (
	"context"
	"fmt"
)

// Kind names a build-tool variant.
type Kind string

const (
	KindPipeline  Kind = "pipeline"
	KindContainer Kind = "container"
)

// BuildConfig locates a build root. Dependencies is reserved and never
// populated by resolution.
type BuildConfig struct {
	Directory    string
	Dependencies []BuildConfig
}

// Identity distinguishes units for deduplication: two units are the same build
// when they share kind and directory.
type Identity struct {
	Kind      Kind
	Directory string
}

func (i Identity) String() string {
	return fmt.Sprintf("%s:%s", i.Kind, i.Directory)
}

// Compare orders identities by directory, then kind.
func (i Identity) Compare(other Identity) int {
	switch {
	case i.Directory < other.Directory:
		return -1
	case i.Directory > other.Directory:
		return 1
	case i.Kind < other.Kind:
		return -1
	case i.Kind > other.Kind:
		return 1
	default:
		return 0
	}
}

// Result describes a finished build.
type Result struct {
	// Note is a human readable remark, empty for ordinary builds.
	Note string
}

// Unit is a discovered build.
type Unit interface {
	Kind() Kind
	Identity() Identity
	Directory() string
	Build(ctx context.Context) (Result, error)

	sealed()
}
