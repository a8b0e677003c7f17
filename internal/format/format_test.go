package format

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/jangler/rubox/pkg/models"
)

func TestSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{5 << 20, "5.00 MB"},
		{3 << 30, "3.00 GB"},
	}
	for _, tt := range tests {
		if got := Size(tt.bytes); got != tt.want {
			t.Errorf("Size(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}

func TestTime(t *testing.T) {
	if got := Time(time.Time{}); got != "-" {
		t.Errorf("Time(zero) = %q, want -", got)
	}
	ts := time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)
	if got := Time(ts); got != "2024-03-15 09:30:00" {
		t.Errorf("Time = %q", got)
	}
}

func TestListingShort(t *testing.T) {
	var buf bytes.Buffer
	Listing(&buf, []*models.FileNode{
		{Name: "docs", IsDir: true},
		{Name: "notes.txt"},
	}, false)

	want := "docs/\nnotes.txt\n"
	if buf.String() != want {
		t.Errorf("Listing = %q, want %q", buf.String(), want)
	}
}

func TestListingLong(t *testing.T) {
	var buf bytes.Buffer
	Listing(&buf, []*models.FileNode{
		{Name: "docs", IsDir: true},
		{Name: "notes.txt", Size: 2048, ModTime: time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)},
	}, true)

	out := buf.String()
	if !strings.Contains(out, "docs/") {
		t.Errorf("missing directory row: %q", out)
	}
	if !strings.Contains(out, "2.00 KB") || !strings.Contains(out, "2024-03-15 09:30:00") {
		t.Errorf("missing file columns: %q", out)
	}
	if !strings.Contains(out, "-") {
		t.Errorf("directory size should render as -: %q", out)
	}
}
