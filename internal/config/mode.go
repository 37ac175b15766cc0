package config

import (
	"git.home.luguber.info/inful/weave/internal/foundation/normalization"
)

// Mode selects how changed directories are observed.
type Mode string

const (
	// ModeCI observes directories changed by the commit at HEAD.
	ModeCI Mode = "ci"
	// ModeAll observes every directory under the root.
	ModeAll Mode = "all"
)

var modeNormalizer = normalization.NewNormalizer(map[string]Mode{
	"ci":  ModeCI,
	"all": ModeAll,
}, ModeCI)

// ParseMode normalizes raw into a Mode. Empty input yields ModeCI.
func ParseMode(raw string) (Mode, error) {
	return modeNormalizer.NormalizeWithError(raw)
}

// ValidModes lists the accepted mode names.
func ValidModes() []string {
	return modeNormalizer.ValidKeys()
}
