// Package version parses and orders release tags shaped like v<major>.<minor>[.<patch>].
//
// Ordering is numeric on each component: v2.0 > v1.10 > v1.2.
package version

import (
	"regexp"
	"sort"
	"strconv"

	"github.com/blang/semver"
)

var tagRex = regexp.MustCompile(`^v([0-9]+)\.([0-9]+)(?:\.([0-9]+))?$`)

// Parse a tag into its ordered triple. The boolean is false for strings which are not release tags.
func Parse(tag string) (semver.Version, bool) {
	m := tagRex.FindStringSubmatch(tag)
	if m == nil {
		return semver.Version{}, false
	}
	var parts [3]uint64
	for i, p := range m[1:] {
		if p == "" {
			continue
		}
		n, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			// out of range
			return semver.Version{}, false
		}
		parts[i] = n
	}
	return semver.Version{Major: parts[0], Minor: parts[1], Patch: parts[2]}, true
}

// IsTag tells if a string is a release tag
func IsTag(tag string) bool {
	_, ok := Parse(tag)
	return ok
}

// Compare two tags. It returns -1, 0 or 1.
//
// Strings which are not release tags sort below all release tags.
func Compare(a, b string) int {
	va, oka := Parse(a)
	vb, okb := Parse(b)
	switch {
	case oka && okb:
		return va.Compare(vb)
	case oka:
		return 1
	case okb:
		return -1
	default:
		return 0
	}
}

// FilterAndSort drops all strings which are not release tags and sorts the others, most recent first.
//
// Tags with the same triple (e.g. v1.0 and v1.0.0) are ordered by descending string,
// so the result does not depend on the order of the input.
func FilterAndSort(tags []string) []string {
	type parsed struct {
		tag string
		v   semver.Version
	}
	kept := make([]parsed, 0, len(tags))
	for _, tag := range tags {
		if v, ok := Parse(tag); ok {
			kept = append(kept, parsed{tag: tag, v: v})
		}
	}
	sort.Slice(kept, func(i, j int) bool {
		if c := kept[i].v.Compare(kept[j].v); c != 0 {
			return c > 0
		}
		return kept[i].tag > kept[j].tag
	})

	res := make([]string, len(kept))
	for i, p := range kept {
		res[i] = p.tag
	}
	return res
}

// Latest release tag among tags
func Latest(tags []string) (string, bool) {
	sorted := FilterAndSort(tags)
	if len(sorted) == 0 {
		return "", false
	}
	return sorted[0], true
}
