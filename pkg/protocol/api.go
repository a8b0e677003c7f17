// Package protocol defines the API request/response types.
package protocol

import (
	"time"

	"github.com/jangler/rubox/pkg/models"
)

// EntryResponse is returned by GET /api/v1/meta/{path} and by the write
// endpoints (PUT /api/v1/tree/{path}, POST /api/v1/content/{path}).
// For directories the entry carries its full immediate children listing.
type EntryResponse struct {
	Entry *models.FileNode `json:"entry"`
}

// ErrorResponse is returned on API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Details string `json:"details,omitempty"`
}

// ShareLinkRequest is the body for POST /api/v1/share/{path}.
type ShareLinkRequest struct {
	Password     string `json:"password,omitempty"`
	ExpiresInSec int64  `json:"expires_in_sec,omitempty"` // 0 = no expiry
	MaxDownloads int    `json:"max_downloads,omitempty"`  // 0 = unlimited
}

// ShareLinkResponse is returned when creating a share link.
type ShareLinkResponse struct {
	ID        string     `json:"id"`
	Path      string     `json:"path"`
	URL       string     `json:"url"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
