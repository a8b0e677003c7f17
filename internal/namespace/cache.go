package namespace

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jangler/rubox/internal/logging"
	"github.com/jangler/rubox/pkg/client"
	"github.com/jangler/rubox/pkg/models"
	"go.uber.org/zap"
)

// ErrNothingToForget reports a ForgetChildren call on a path with no
// loaded listing.
var ErrNothingToForget = errors.New("no cached listing to forget")

// Fetcher answers single-path metadata queries against the remote
// service. A missing path must yield an error satisfying
// client.IsNotFound; directory records must carry their full immediate
// children listing.
type Fetcher interface {
	Metadata(ctx context.Context, path string) (*models.FileNode, error)
}

// Cache is a flattened mirror of remote metadata: one map from
// canonical absolute path to record, holding top-level and nested
// entries at the same level. Presence of a path does not imply its
// listing is loaded; that is tracked by the record's Children field.
//
// The cache is single-owner and not safe for concurrent use; the shell
// runs one command at a time.
type Cache struct {
	fetcher Fetcher
	entries map[string]*models.FileNode
}

// NewCache creates an empty cache over a fetcher. The root is seeded
// as a known directory so presence-only queries never trigger a remote
// fetch for "/".
func NewCache(f Fetcher) *Cache {
	c := &Cache{
		fetcher: f,
		entries: make(map[string]*models.FileNode),
	}
	c.entries["/"] = &models.FileNode{Path: "/", Name: "/", IsDir: true}
	return c
}

// sufficient reports whether an entry satisfies a query. Without
// requireChildren mere presence is enough; with it, a directory also
// needs a loaded listing (files never have one to load).
func sufficient(e *models.FileNode, requireChildren bool) bool {
	if e == nil {
		return false
	}
	if !requireChildren {
		return true
	}
	return !e.IsDir || e.Children != nil
}

// ancestors returns the chain of canonical paths from the root to p,
// inclusive.
func ancestors(p string) []string {
	if p == "/" {
		return []string{"/"}
	}
	segs := strings.Split(strings.TrimPrefix(p, "/"), "/")
	chain := make([]string, 0, len(segs)+1)
	chain = append(chain, "/")
	cur := ""
	for _, s := range segs {
		cur += "/" + s
		chain = append(chain, cur)
	}
	return chain
}

// Get returns the metadata record for a canonical path, fetching any
// insufficiently cached ancestor from the remote service in
// root-to-leaf order. Listing a directory populates all its immediate
// children in the same round trip, so sibling lookups that follow are
// free. A missing or deleted path yields an error satisfying
// client.IsNotFound; other remote errors propagate unmodified, leaving
// already-fetched ancestors cached.
func (c *Cache) Get(ctx context.Context, path string, requireChildren bool) (*models.FileNode, error) {
	for _, p := range ancestors(path) {
		if sufficient(c.entries[p], requireChildren) {
			continue
		}

		logging.Debug("cache miss", zap.String("path", p), zap.Bool("children", requireChildren))
		meta, err := c.fetcher.Metadata(ctx, p)
		if err != nil {
			return nil, err
		}
		if meta.IsDeleted {
			return nil, fmt.Errorf("%s: %w", p, client.ErrNotFound)
		}
		if meta.IsDir && meta.Children == nil {
			// The fetcher returns complete listings, so no children
			// means an empty directory, not an unloaded one.
			meta.Children = []*models.FileNode{}
		}
		c.Add(meta)
	}

	e := c.entries[path]
	if e == nil {
		return nil, fmt.Errorf("%s: %w", path, client.ErrNotFound)
	}
	return e, nil
}

// IsDir reports whether a canonical path is a directory, populating
// the path and its ancestors as needed. A missing path is false, not
// an error; remote failures other than not-found propagate.
func (c *Cache) IsDir(ctx context.Context, path string) (bool, error) {
	e, err := c.Get(ctx, path, false)
	if err != nil {
		if client.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return e.IsDir, nil
}

// List returns the sorted absolute paths of a directory's immediate
// children, forcing the listing to load. A missing path produces an
// empty result.
func (c *Cache) List(ctx context.Context, path string) ([]string, error) {
	if _, err := c.Get(ctx, path, true); err != nil {
		if client.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	prefix := path + "/"
	if path == "/" {
		prefix = "/"
	}

	var children []string
	for p := range c.entries {
		if p == path || !strings.HasPrefix(p, prefix) {
			continue
		}
		if strings.Contains(p[len(prefix):], "/") {
			continue
		}
		children = append(children, p)
	}
	sort.Strings(children)
	return children, nil
}

// Add inserts or refreshes a record. A record carrying a children
// listing also inserts each child as its own top-level entry, keeping
// the map flat for O(1) lookup by path.
func (c *Cache) Add(meta *models.FileNode) {
	if meta == nil || meta.Path == "" {
		return
	}
	if !meta.IsDir {
		meta.Children = nil
	}
	c.entries[meta.Path] = meta
	for _, child := range meta.Children {
		if child.Path == "" {
			child.Path = childPath(meta.Path, child.Name)
		}
		c.Add(child)
	}
}

// Remove deletes a path, all cached descendants, and the entry in the
// parent's listing if that listing is loaded. Removing the root keeps
// the root record and only forgets everything under it.
func (c *Cache) Remove(path string) {
	prefix := path + "/"
	if path == "/" {
		prefix = "/"
	}
	for p := range c.entries {
		if p != path && strings.HasPrefix(p, prefix) {
			delete(c.entries, p)
		}
	}

	if path == "/" {
		c.entries["/"].Children = nil
		return
	}
	delete(c.entries, path)

	if pe := c.entries[parentPath(path)]; pe != nil && pe.Children != nil {
		for i, ch := range pe.Children {
			if ch.Path == path {
				pe.Children = append(pe.Children[:i], pe.Children[i+1:]...)
				break
			}
		}
	}
}

// ForgetChildren drops a directory's loaded listing and all cached
// descendants without removing the directory entry itself, forcing a
// refresh on next access. Returns ErrNothingToForget if the path has
// no loaded listing.
func (c *Cache) ForgetChildren(path string) error {
	e := c.entries[path]
	if e == nil || e.Children == nil {
		return fmt.Errorf("%s: %w", path, ErrNothingToForget)
	}

	prefix := path + "/"
	if path == "/" {
		prefix = "/"
	}
	for p := range c.entries {
		if p != path && strings.HasPrefix(p, prefix) {
			delete(c.entries, p)
		}
	}
	e.Children = nil
	return nil
}
