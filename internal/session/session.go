// Package session owns the per-session state of the shell: the
// metadata cache, working-directory bookkeeping, and the exit flag.
package session

import (
	"context"

	"github.com/jangler/rubox/internal/logging"
	"github.com/jangler/rubox/internal/namespace"
	"github.com/jangler/rubox/internal/settings"
	"github.com/jangler/rubox/pkg/client"
	"github.com/jangler/rubox/pkg/models"
	"go.uber.org/zap"
)

// Session is the composition root threaded through every command: one
// cache, one client, the current and previous working directories, and
// a latched exit flag. Created once at startup, single-owner, not
// safe for concurrent use.
type Session struct {
	client *client.Client
	cache  *namespace.Cache
	store  *settings.Store

	pwd           string
	oldPwd        string
	localOldPwd   string
	exitRequested bool
}

// New creates a session rooted at "/" with an empty cache. The
// previous working directory is restored from the settings store if
// one is present.
func New(cl *client.Client, store *settings.Store) *Session {
	s := &Session{
		client: cl,
		cache:  namespace.NewCache(cl),
		store:  store,
		pwd:    "/",
	}
	if store != nil {
		if st, err := store.Load(); err == nil {
			s.oldPwd = st.OldPwd
		} else {
			logging.Warn("load settings", zap.Error(err))
		}
	}
	return s
}

// Client returns the remote API client.
func (s *Session) Client() *client.Client {
	return s.client
}

// Pwd returns the current remote working directory.
func (s *Session) Pwd() string {
	return s.pwd
}

// OldPwd returns the previous remote working directory.
func (s *Session) OldPwd() string {
	return s.oldPwd
}

// SetPwd changes the working directory, pushing the old value into
// OldPwd and persisting the change for the next session.
func (s *Session) SetPwd(path string) {
	s.oldPwd = s.pwd
	s.pwd = path
	if s.store != nil {
		if err := s.store.Save(&settings.Settings{OldPwd: s.oldPwd}); err != nil {
			logging.Warn("persist working directory", zap.Error(err))
		}
	}
}

// LocalOldPwd returns the previous local working directory.
func (s *Session) LocalOldPwd() string {
	return s.localOldPwd
}

// SetLocalOldPwd records the previous local working directory.
func (s *Session) SetLocalOldPwd(path string) {
	s.localOldPwd = path
}

// ExitRequested reports whether the exit flag has been latched.
func (s *Session) ExitRequested() bool {
	return s.exitRequested
}

// RequestExit latches the exit flag. There is no reset.
func (s *Session) RequestExit() {
	s.exitRequested = true
}

// Resolve canonicalizes an input path against the current directory.
func (s *Session) Resolve(input string) string {
	return namespace.Resolve(input, s.pwd)
}

// IsDir reports whether a canonical path is a remote directory.
func (s *Session) IsDir(ctx context.Context, path string) (bool, error) {
	return s.cache.IsDir(ctx, path)
}

// List returns the sorted child paths of a remote directory.
func (s *Session) List(ctx context.Context, path string) ([]string, error) {
	return s.cache.List(ctx, path)
}

// Get returns the metadata record for a canonical path.
func (s *Session) Get(ctx context.Context, path string, requireChildren bool) (*models.FileNode, error) {
	return s.cache.Get(ctx, path, requireChildren)
}

// Add reflects a successful remote write in the cache. Collaborators
// call it with the record returned by mkdir/put so no re-fetch is
// needed.
func (s *Session) Add(meta *models.FileNode) {
	s.cache.Add(meta)
}

// Remove reflects a successful remote delete in the cache.
func (s *Session) Remove(path string) {
	s.cache.Remove(path)
}

// ForgetChildren drops a directory's cached listing to force a
// refresh on next access.
func (s *Session) ForgetChildren(path string) error {
	return s.cache.ForgetChildren(path)
}

// Expand expands glob patterns against the current directory.
func (s *Session) Expand(ctx context.Context, patterns []string, preserveRoot bool) []namespace.Expansion {
	return s.cache.Expand(ctx, patterns, s.pwd, preserveRoot)
}
