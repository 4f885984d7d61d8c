package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedVersion is returned when a version is not MAJOR.MINOR.PATCH.
	ErrMalformedVersion = errors.New("malformed connector version")

	// ErrInUseNotPersisted is returned when an in-use repository has no persisted definition.
	ErrInUseNotPersisted = errors.New("in-use connector is not persisted")

	// ErrDuplicateRepository is returned when the latest catalog names a repository twice.
	ErrDuplicateRepository = errors.New("duplicate connector repository")

	// ErrKeyMismatch is returned when a definition is filed under the wrong key or kind.
	ErrKeyMismatch = errors.New("connector definition key mismatch")

	// ErrDefinitionNotFound is returned when an update matched no persisted row.
	ErrDefinitionNotFound = errors.New("connector definition not found")
)

// VersionError describes a version string that failed to parse.
type VersionError struct {
	Repository string
	Version    string
	Reason     string
}

func (e *VersionError) Error() string {
	if e.Repository == "" {
		return fmt.Sprintf("%s %q: %s", ErrMalformedVersion, e.Version, e.Reason)
	}
	return fmt.Sprintf("%s %q for %s: %s", ErrMalformedVersion, e.Version, e.Repository, e.Reason)
}

// Is lets errors.Is match ErrMalformedVersion.
func (e *VersionError) Is(target error) bool {
	return target == ErrMalformedVersion
}
