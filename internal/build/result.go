package build

import (
	stderrors "errors"
	"time"

	"git.home.luguber.info/inful/weave/internal/buildtool"
	"git.home.luguber.info/inful/weave/internal/foundation/errors"
)

// BuildStatus represents the outcome of a unit or of a whole dispatch.
type BuildStatus string

const (
	// BuildStatusSuccess indicates the build completed successfully.
	BuildStatusSuccess BuildStatus = "success"

	// BuildStatusFailed indicates at least one build encountered an error.
	BuildStatusFailed BuildStatus = "failed"

	// BuildStatusSkipped indicates nothing was built (no units, or a dry run).
	BuildStatusSkipped BuildStatus = "skipped"

	// BuildStatusCancelled indicates the context ended before the build ran.
	BuildStatusCancelled BuildStatus = "cancelled"
)

// IsSuccess returns true if the status does not represent a failure.
func (s BuildStatus) IsSuccess() bool {
	return s == BuildStatusSuccess || s == BuildStatusSkipped
}

// UnitOutcome records what happened to one unit.
type UnitOutcome struct {
	Unit     buildtool.Unit
	Status   BuildStatus
	Duration time.Duration
	// Note carries the unit's remark, e.g. for placeholder builds.
	Note string
	Err  error
}

// DispatchResult contains the outcome of a dispatch.
type DispatchResult struct {
	Status    BuildStatus
	Outcomes  []UnitOutcome
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
	DryRun    bool
}

// Count returns the number of outcomes with status s.
func (r *DispatchResult) Count(s BuildStatus) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}

// Err summarizes failed and cancelled units as a single build error, or nil
// when every unit succeeded.
func (r *DispatchResult) Err() error {
	var causes []error
	var failed []string
	for _, o := range r.Outcomes {
		if o.Status != BuildStatusFailed && o.Status != BuildStatusCancelled {
			continue
		}
		failed = append(failed, o.Unit.Identity().String())
		if o.Err != nil {
			causes = append(causes, o.Err)
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return errors.BuildError("one or more builds failed").
		WithCause(stderrors.Join(causes...)).
		WithContext("units", failed).
		WithContext("failed", len(failed)).
		Build()
}
