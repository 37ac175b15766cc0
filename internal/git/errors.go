package git

import (
	stderrors "errors"

	"git.home.luguber.info/inful/weave/internal/foundation/errors"
)

var (
	// ErrBareRepository is the cause reported for repositories without a working tree.
	ErrBareRepository = stderrors.New("cannot build a bare repository")
	// ErrEmptyRepository is the cause reported for repositories without commits.
	ErrEmptyRepository = stderrors.New("cannot build an empty repository")
	// ErrNoParent is the cause reported when the resolved commit has no parent to diff against.
	ErrNoParent = stderrors.New("commit has no parent")
	// ErrNoCommit is the cause reported when the log walk yields no resolvable commit.
	ErrNoCommit = stderrors.New("no resolvable commit reachable from HEAD")
)

// invalidRepository classifies a target that is not a usable working tree.
func invalidRepository(path, message string, cause error) error {
	return errors.RepositoryError(message).
		WithCause(cause).
		WithContext("path", path).
		Build()
}

// detectionFailure classifies a revision walk or tree diff failure.
func detectionFailure(path, op string, cause error) error {
	return errors.DetectionError("change detection failed").
		WithCause(cause).
		WithContext("path", path).
		WithContext("op", op).
		Build()
}

// IsInvalidRepository reports whether err marks an unusable repository.
func IsInvalidRepository(err error) bool {
	return errors.HasCategory(err, errors.CategoryRepository)
}

// IsDetectionError reports whether err marks a failed revision walk or diff.
func IsDetectionError(err error) bool {
	return errors.HasCategory(err, errors.CategoryDetection)
}
