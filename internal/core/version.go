package core

import (
	"strconv"
	"strings"
	"sync"

	"github.com/haseebmalik18/switchr/internal/types"
)

// Version comparison policy, kept deliberately stable because it
// drives update warnings:
//
//   - versions are dotted components with an optional pre-release
//     suffix after the first '-' and an ignored build suffix after '+'
//   - components compare numerically; when either side is
//     non-numeric the pair compares lexicographically
//   - malformed input never fails; an unparseable or missing
//     component ranks lowest
//   - a release outranks the same version with a pre-release tag;
//     two pre-release tags compare lexicographically
//
// A delta is breaking when the leading (major) numeric component
// differs, or when exactly one side carries a pre-release tag.

type versionComponent struct {
	num     int64
	raw     string
	numeric bool
}

type parsedVersion struct {
	components []versionComponent
	prerelease string
}

// Comparator memoizes parsed versions so batch update checks do not
// re-parse the same strings per candidate.
type Comparator struct {
	mu    sync.Mutex
	cache map[string]parsedVersion
}

func NewComparator() *Comparator {
	return &Comparator{cache: map[string]parsedVersion{}}
}

func (c *Comparator) parse(value string) parsedVersion {
	c.mu.Lock()
	defer c.mu.Unlock()
	if parsed, ok := c.cache[value]; ok {
		return parsed
	}
	parsed := parseVersion(value)
	c.cache[value] = parsed
	return parsed
}

// Compare orders two version strings under the documented policy.
func (c *Comparator) Compare(a string, b string) types.Ordering {
	return compareParsed(c.parse(a), c.parse(b))
}

// IsBreaking classifies the delta from current to next as breaking.
func (c *Comparator) IsBreaking(current string, next string) bool {
	return breakingParsed(c.parse(current), c.parse(next))
}

// Compare is the allocation-light one-shot form of Comparator.Compare.
func Compare(a string, b string) types.Ordering {
	return compareParsed(parseVersion(a), parseVersion(b))
}

// IsBreaking is the one-shot form of Comparator.IsBreaking.
func IsBreaking(current string, next string) bool {
	return breakingParsed(parseVersion(current), parseVersion(next))
}

func parseVersion(value string) parsedVersion {
	trimmed := strings.TrimSpace(value)
	trimmed = strings.TrimPrefix(trimmed, "v")
	trimmed = strings.TrimPrefix(trimmed, "V")
	if idx := strings.IndexByte(trimmed, '+'); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	prerelease := ""
	if idx := strings.IndexByte(trimmed, '-'); idx >= 0 {
		prerelease = trimmed[idx+1:]
		trimmed = trimmed[:idx]
	}
	var components []versionComponent
	if trimmed != "" {
		for _, part := range strings.Split(trimmed, ".") {
			num, err := strconv.ParseInt(part, 10, 64)
			components = append(components, versionComponent{
				num:     num,
				raw:     part,
				numeric: err == nil,
			})
		}
	}
	return parsedVersion{components: components, prerelease: prerelease}
}

func compareParsed(a parsedVersion, b parsedVersion) types.Ordering {
	length := len(a.components)
	if len(b.components) > length {
		length = len(b.components)
	}
	for i := 0; i < length; i++ {
		left := componentAt(a, i)
		right := componentAt(b, i)
		if ordering := compareComponent(left, right); ordering != types.OrderingEqual {
			return ordering
		}
	}
	// Same numeric components: a release outranks a pre-release.
	switch {
	case a.prerelease == b.prerelease:
		return types.OrderingEqual
	case a.prerelease == "":
		return types.OrderingGreater
	case b.prerelease == "":
		return types.OrderingLess
	case a.prerelease < b.prerelease:
		return types.OrderingLess
	default:
		return types.OrderingGreater
	}
}

func componentAt(v parsedVersion, idx int) versionComponent {
	if idx < len(v.components) {
		return v.components[idx]
	}
	return versionComponent{num: 0, raw: "", numeric: true}
}

func compareComponent(a versionComponent, b versionComponent) types.Ordering {
	if a.numeric && b.numeric {
		switch {
		case a.num < b.num:
			return types.OrderingLess
		case a.num > b.num:
			return types.OrderingGreater
		default:
			return types.OrderingEqual
		}
	}
	// Lexicographic fallback; a numeric component outranks a
	// non-numeric one so "1.x" sorts below "1.0".
	if a.numeric != b.numeric {
		if a.numeric {
			return types.OrderingGreater
		}
		return types.OrderingLess
	}
	switch {
	case a.raw < b.raw:
		return types.OrderingLess
	case a.raw > b.raw:
		return types.OrderingGreater
	default:
		return types.OrderingEqual
	}
}

func breakingParsed(current parsedVersion, next parsedVersion) bool {
	if componentAt(current, 0).num != componentAt(next, 0).num {
		return true
	}
	return (current.prerelease == "") != (next.prerelease == "")
}
