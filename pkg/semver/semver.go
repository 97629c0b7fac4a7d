package semver

import (
	"fmt"
	"regexp"
	"strconv"
)

// Version represents a semantic version. The Electrum-style handshake
// advertises two-component protocol versions ("1.4"), so the patch
// component is optional when parsing.
type Version struct {
	Major int
	Minor int
	Patch int
}

var semverRegex = regexp.MustCompile(`^v?(\d+)\.(\d+)(?:\.(\d+))?$`)

// NewVersion builds a Version from its components.
func NewVersion(major, minor, patch int) Version {
	return Version{Major: major, Minor: minor, Patch: patch}
}

// Parse parses a version string with two or three components.
func Parse(version string) (Version, error) {
	matches := semverRegex.FindStringSubmatch(version)
	if matches == nil {
		return Version{}, fmt.Errorf("invalid version: %s", version)
	}

	major, _ := strconv.Atoi(matches[1])
	minor, _ := strconv.Atoi(matches[2])
	patch := 0
	if matches[3] != "" {
		patch, _ = strconv.Atoi(matches[3])
	}

	return Version{Major: major, Minor: minor, Patch: patch}, nil
}

// String returns the string representation of the version.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare compares two versions.
// Returns -1 if v < other, 0 if v == other, 1 if v > other.
func (v Version) Compare(other Version) int {
	if v.Major != other.Major {
		if v.Major < other.Major {
			return -1
		}
		return 1
	}
	if v.Minor != other.Minor {
		if v.Minor < other.Minor {
			return -1
		}
		return 1
	}
	if v.Patch != other.Patch {
		if v.Patch < other.Patch {
			return -1
		}
		return 1
	}
	return 0
}

// Compatible reports whether actual satisfies required under the usual
// semver rule: same major version and not older than required.
func Compatible(required, actual Version) bool {
	return required.Major == actual.Major && actual.Compare(required) >= 0
}

// AnyCompatible reports whether actual is compatible with any of the
// given required versions.
func AnyCompatible(required []Version, actual Version) bool {
	for _, r := range required {
		if Compatible(r, actual) {
			return true
		}
	}
	return false
}
