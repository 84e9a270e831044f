// Package locator finds streaming links in chat text.
//
// Most chat messages carry no link, so a miss is reported with ok == false rather than an error.
package locator

import (
	"regexp"
	"strings"

	"github.com/desertthunder/classificone/internal/models"
)

// linkPattern matches an open.spotify.com link with or without a scheme, up to the next whitespace.
var linkPattern = regexp.MustCompile(`(?:https?://)?open\.spotify\.com/\S+`)

// Locate returns the first recognizable entity link in text and the text with that link removed.
//
// The entity type is the second-to-last path segment and the ID the last one, query string stripped.
// Links to other resource kinds (playlists, artists) are skipped.
func Locate(text string) (ref models.EntityReference, residual string, ok bool) {
	for _, loc := range linkPattern.FindAllStringIndex(text, -1) {
		ref, ok = parseLink(text[loc[0]:loc[1]])
		if !ok {
			continue
		}
		residual = strings.TrimSpace(text[:loc[0]] + text[loc[1]:])
		return ref, residual, true
	}
	return models.EntityReference{}, "", false
}

// parseLink splits a matched link into its last two path segments.
func parseLink(link string) (models.EntityReference, bool) {
	link, _, _ = strings.Cut(link, "?")
	link, _, _ = strings.Cut(link, "#")

	_, path, _ := strings.Cut(link, "open.spotify.com/")
	segments := strings.Split(strings.TrimSuffix(path, "/"), "/")
	if len(segments) < 2 {
		return models.EntityReference{}, false
	}

	t, ok := models.ParseEntityType(segments[len(segments)-2])
	if !ok {
		return models.EntityReference{}, false
	}

	ref := models.EntityReference{Type: t, ID: segments[len(segments)-1]}
	if ref.Validate() != nil {
		return models.EntityReference{}, false
	}
	return ref, true
}
