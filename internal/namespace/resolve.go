// Package namespace maintains the client's mirror of the remote
// filesystem: canonical path resolution, a lazily populated metadata
// cache, and shell-glob expansion over it.
package namespace

import "strings"

// Resolve canonicalizes a possibly-relative input path against pwd.
// The result is absolute, slash-normalized, and free of "." and ".."
// segments; ".." at the root is a no-op. Pure string transformation,
// idempotent, never touches the cache or the network.
func Resolve(input, pwd string) string {
	if !strings.HasPrefix(input, "/") {
		input = pwd + "/" + input
	}

	var parts []string
	for _, seg := range strings.Split(input, "/") {
		switch seg {
		case "", ".":
		case "..":
			if len(parts) > 0 {
				parts = parts[:len(parts)-1]
			}
		default:
			parts = append(parts, seg)
		}
	}

	if len(parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(parts, "/")
}

// childPath constructs a child path from parent + name.
func childPath(parent, name string) string {
	if parent == "/" {
		return "/" + name
	}
	return parent + "/" + name
}

// parentPath returns the canonical parent of a canonical path.
func parentPath(p string) string {
	i := strings.LastIndex(p, "/")
	if i <= 0 {
		return "/"
	}
	return p[:i]
}
