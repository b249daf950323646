// Package omp implements the versioned directive sub-language embedded in
// source comments: parallel-pragma clauses parsed from `#$ omp` lines into a
// typed clause tree, validated against the AST node they annotate, and
// re-emitted as original-equivalent surface syntax per target.
package omp

import "golang.org/x/mod/semver"

// Version is a revision of the directive standard.  The active version is
// fixed once per compilation unit and determines which constructs and clauses
// are legal.
type Version string

// Enumeration of the supported directive standard revisions.
const (
	V45 Version = "4.5"
	V50 Version = "5.0"
	V51 Version = "5.1"
)

// SupportedVersions lists the supported revisions in ascending order.
var SupportedVersions = []Version{V45, V50, V51}

// ParseVersion returns the version named by s, if supported.
func ParseVersion(s string) (Version, bool) {
	for _, v := range SupportedVersions {
		if string(v) == s {
			return v, true
		}
	}

	return "", false
}

// AtLeast returns whether v is the same revision as other or a later one.
func (v Version) AtLeast(other Version) bool {
	return semver.Compare(v.canon(), other.canon()) >= 0
}

// canon converts the revision to canonical semver form for comparison.
func (v Version) canon() string {
	return "v" + string(v)
}
