package tasks

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/classificone/internal/models"
	tu "github.com/desertthunder/classificone/internal/testing"
)

const albumID = "5r2lUKLgKTNqbsloCwB9X5"

var albumRef = models.EntityReference{Type: models.EntityAlbum, ID: albumID}

func testLogger() *log.Logger { return log.New(io.Discard) }

// newCatalog serves one 2025 album whose most popular track is t2.
func newCatalog() *tu.FakeCatalog {
	return &tu.FakeCatalog{Albums: map[string]tu.Album{
		albumRef.URI(): {
			Tracks: []models.TrackCandidate{
				{Name: "Intro", Popularity: 20, URI: "spotify:track:t1", ID: "t1"},
				{Name: "Hit", Popularity: 75, URI: "spotify:track:t2", ID: "t2"},
				{Name: "Outro", Popularity: 75, URI: "spotify:track:t3", ID: "t3"},
			},
			Metadata: models.AlbumMetadata{Artist: "Band", Title: "Record", Type: "album", Year: "2025"},
		},
	}}
}
