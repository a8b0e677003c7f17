// Package format renders listings and sizes for shell output.
package format

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/jangler/rubox/pkg/models"
)

// Size renders a byte count in human-readable units.
func Size(bytes int64) string {
	const (
		KB = 1024
		MB = 1024 * KB
		GB = 1024 * MB
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// Time renders a modification time, or "-" when unknown.
func Time(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}

// displayName is the node's name with a trailing slash for directories.
func displayName(n *models.FileNode) string {
	if n.IsDir {
		return n.Name + "/"
	}
	return n.Name
}

// Listing writes one line per node. The long form is a table with
// size and modification time.
func Listing(w io.Writer, nodes []*models.FileNode, long bool) {
	if !long {
		for _, n := range nodes {
			fmt.Fprintln(w, displayName(n))
		}
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, n := range nodes {
		size := "-"
		if !n.IsDir {
			size = Size(n.Size)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", displayName(n), size, Time(n.ModTime))
	}
	tw.Flush()
}
