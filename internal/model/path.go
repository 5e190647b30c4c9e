package model

import "strings"

// PathSeparator separates segments of tree paths.
const PathSeparator = "/"

// ParentPath drops the last segment of p. A path without separator is returned unchanged,
// so callers walking towards the root stop once the result no longer changes.
func ParentPath(p string) string {
	idx := strings.LastIndex(p, PathSeparator)
	if idx < 0 {
		return p
	}

	return p[:idx]
}

// IsWithin reports whether p equals root or lies below it. A trailing separator of root is
// ignored, so "/" contains every absolute path.
func IsWithin(p, root string) bool {
	return p == root || strings.HasPrefix(p, strings.TrimSuffix(root, PathSeparator)+PathSeparator)
}

// RelativePath returns the part of p below root, keeping its leading separator.
// p equal to root yields "". Callers check IsWithin first.
func RelativePath(p, root string) string {
	if p == root {
		return ""
	}

	return strings.TrimPrefix(p, strings.TrimSuffix(root, PathSeparator))
}

// IsExcluded reports whether syncPath, or any ancestor obtained by dropping trailing
// segments, is a member of exclusions. A single leading separator is ignored.
func IsExcluded(syncPath string, exclusions map[string]struct{}) bool {
	current := strings.TrimPrefix(syncPath, PathSeparator)

	for {
		if _, ok := exclusions[current]; ok {
			return true
		}

		parent := ParentPath(current)
		if parent == current {
			return false
		}

		current = parent
	}
}
