// Package models contains the shared data types of the storage API.
package models

import "time"

// FileNode represents a file or directory in the remote filesystem.
// Children is only populated once a directory listing has been fetched;
// a nil Children on a directory means "listing not loaded", not "empty".
type FileNode struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Path      string      `json:"path"`
	Size      int64       `json:"size"`
	ModTime   time.Time   `json:"mtime"`
	IsDir     bool        `json:"is_dir"`
	Hash      string      `json:"hash,omitempty"`
	IsDeleted bool        `json:"is_deleted,omitempty"`
	Children  []*FileNode `json:"children,omitempty"`
}
