package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a parsed MAJOR.MINOR.PATCH connector version.
type Version struct {
	Major uint64
	Minor uint64
	Patch uint64
}

// ParseVersion parses a strict three component version. A leading "v" is accepted.
// Pre-release and build suffixes are rejected.
func ParseVersion(raw string) (Version, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "v")
	if s == "" {
		return Version{}, &VersionError{Version: raw, Reason: "empty version"}
	}

	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return Version{}, &VersionError{Version: raw, Reason: fmt.Sprintf("want 3 components, got %d", len(parts))}
	}

	var nums [3]uint64
	for i, p := range parts {
		if p == "" {
			return Version{}, &VersionError{Version: raw, Reason: "empty component"}
		}
		if len(p) > 1 && p[0] == '0' {
			return Version{}, &VersionError{Version: raw, Reason: fmt.Sprintf("leading zero in %q", p)}
		}
		for _, r := range p {
			if r < '0' || r > '9' {
				return Version{}, &VersionError{Version: raw, Reason: fmt.Sprintf("non-numeric component %q", p)}
			}
		}
		n, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return Version{}, &VersionError{Version: raw, Reason: err.Error()}
		}
		nums[i] = n
	}

	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// Compare returns -1, 0 or 1 as v is less than, equal to or greater than other.
func (v Version) Compare(other Version) int {
	switch {
	case v.Major != other.Major:
		return cmpUint(v.Major, other.Major)
	case v.Minor != other.Minor:
		return cmpUint(v.Minor, other.Minor)
	default:
		return cmpUint(v.Patch, other.Patch)
	}
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// CompareVersions parses and compares two version strings.
func CompareVersions(a, b string) (int, error) {
	va, err := ParseVersion(a)
	if err != nil {
		return 0, err
	}
	vb, err := ParseVersion(b)
	if err != nil {
		return 0, err
	}
	return va.Compare(vb), nil
}

func cmpUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
