package models

import (
	"fmt"
	"strings"
)

// URIScheme is the scheme of canonical entity URIs.
const URIScheme = "spotify"

// EntityType is the kind of catalog object a link points at.
type EntityType string

const (
	EntityAlbum  EntityType = "album"
	EntityTrack  EntityType = "track"
	EntitySingle EntityType = "single"
)

// ParseEntityType returns the [EntityType] named by s, or false for anything unrecognized.
func ParseEntityType(s string) (EntityType, bool) {
	switch t := EntityType(s); t {
	case EntityAlbum, EntityTrack, EntitySingle:
		return t, true
	}
	return "", false
}

// EntityReference identifies a catalog entity by type and opaque ID.
type EntityReference struct {
	Type EntityType
	ID   string
}

// URI returns the canonical "spotify:{type}:{id}" form.
func (r EntityReference) URI() string {
	return fmt.Sprintf("%s:%s:%s", URIScheme, r.Type, r.ID)
}

// Validate reports whether r has a recognized type and a non-empty ID.
func (r EntityReference) Validate() error {
	if _, ok := ParseEntityType(string(r.Type)); !ok {
		return fmt.Errorf("unrecognized entity type %q", r.Type)
	}
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("entity id is empty")
	}
	return nil
}

// ParseURI parses a canonical "spotify:{type}:{id}" string.
func ParseURI(uri string) (EntityReference, error) {
	parts := strings.Split(uri, ":")
	if len(parts) != 3 || parts[0] != URIScheme {
		return EntityReference{}, fmt.Errorf("malformed uri %q", uri)
	}

	t, ok := ParseEntityType(parts[1])
	if !ok {
		return EntityReference{}, fmt.Errorf("unrecognized entity type %q", parts[1])
	}

	ref := EntityReference{Type: t, ID: parts[2]}
	return ref, ref.Validate()
}

// TrackCandidate is one track considered by the selector.
type TrackCandidate struct {
	Name       string
	Popularity int
	URI        string
	ID         string
}

// AlbumMetadata is the catalog view used to build a ledger row.
type AlbumMetadata struct {
	Artist string
	Title  string
	Type   string
	Year   string
}

// ReleaseYear returns the 4-digit year prefix of a release date ("2025-03-14", "2025-03" or "2025").
func ReleaseYear(releaseDate string) string {
	year, _, _ := strings.Cut(strings.TrimSpace(releaseDate), "-")
	if len(year) > 4 {
		year = year[:4]
	}
	return year
}
