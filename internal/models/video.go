package models

import (
	"fmt"
	"strings"

	"github.com/desertthunder/tagsync/internal/shared"
)

// VideoReference identifies a single video on the platform.
type VideoReference struct {
	VideoID string
}

// ResolveVideoURL extracts the platform video id from a published video URL.
//
// Recognized forms: the standard watch URL (youtube.com/watch?v=ID, trailing
// query parameters stripped), the short link (youtu.be/ID), and the embed
// path (youtube.com/embed/ID). Anything else fails with ErrUnresolvableURL.
// Pure string work, no network.
func ResolveVideoURL(rawURL string) (VideoReference, error) {
	url := strings.TrimSpace(rawURL)

	var id string
	switch {
	case strings.Contains(url, "v="):
		_, rest, _ := strings.Cut(url, "v=")
		id, _, _ = strings.Cut(rest, "&")
	case strings.Contains(url, "youtu.be/"):
		_, rest, _ := strings.Cut(url, "youtu.be/")
		id, _, _ = strings.Cut(rest, "?")
	case strings.Contains(url, "/embed/"):
		_, rest, _ := strings.Cut(url, "/embed/")
		id, _, _ = strings.Cut(rest, "?")
	}

	if id == "" {
		return VideoReference{}, fmt.Errorf("%w: %q", shared.ErrUnresolvableURL, rawURL)
	}

	return VideoReference{VideoID: id}, nil
}

// WatchURL returns the canonical watch page for the referenced video.
func (v VideoReference) WatchURL() string {
	return "https://www.youtube.com/watch?v=" + v.VideoID
}
