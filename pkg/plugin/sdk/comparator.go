package sdk

import (
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/glide-cli/plugo/pkg/registry"
)

// VersionComparator orders two version strings for a single resource name.
// It returns a negative number if a < b, zero if equal, positive if a > b,
// following the usual three-way comparator convention.
type VersionComparator func(a, b string) int

// comparators is the process-wide, write-once-per-resource registry behind
// the module's version comparison. Each resource name may register at most
// one comparator; resources that never register one fall back to
// defaultVersionComparator.
var comparators = registry.New[VersionComparator]()

// RegisterComparator installs cmp as the comparator used for every version
// comparison against resource. Returns an error if resource already has a
// comparator — registration is write-once, matching this value's
// process-wide singleton contract.
func RegisterComparator(resource string, cmp VersionComparator) error {
	return comparators.Register(resource, cmp)
}

// RegisterSemverComparator opts resource into Masterminds/semver
// comparison instead of the dot-separated-numeric default. Choose this for
// resources whose version strings are genuine semantic versions; the
// default comparator treats "4.7" and "4.7.0" as distinct (the latter
// greater), which semver's zero-padding normalization would not.
func RegisterSemverComparator(resource string) error {
	return RegisterComparator(resource, semverComparator)
}

// CompareVersions compares a and b as versions of resource, using
// resource's registered comparator if one exists, otherwise the default
// dot-separated-numeric comparator.
func CompareVersions(resource, a, b string) int {
	if cmp, ok := comparators.Get(resource); ok {
		return cmp(a, b)
	}
	return defaultVersionComparator(a, b)
}

// defaultVersionComparator compares dot-separated numeric segments
// left to right. Unlike semver normalization, a shorter segment list is
// strictly less than a longer one that shares its prefix: "4.7" < "4.7.0".
func defaultVersionComparator(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")

	n := len(as)
	if len(bs) < n {
		n = len(bs)
	}

	for i := 0; i < n; i++ {
		if c := compareSegment(as[i], bs[i]); c != 0 {
			return c
		}
	}

	switch {
	case len(as) < len(bs):
		return -1
	case len(as) > len(bs):
		return 1
	default:
		return 0
	}
}

func compareSegment(a, b string) int {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	if aerr == nil && berr == nil {
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a, b)
}

// semverComparator compares using Masterminds/semver. Versions that fail
// to parse fall back to the default comparator so a malformed version
// string never panics a comparison.
func semverComparator(a, b string) int {
	va, aerr := semver.NewVersion(a)
	vb, berr := semver.NewVersion(b)
	if aerr != nil || berr != nil {
		return defaultVersionComparator(a, b)
	}
	return va.Compare(vb)
}
