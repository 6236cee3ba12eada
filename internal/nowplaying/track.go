package nowplaying

import (
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Track is the metadata shown and reported for a playing file.
type Track struct {
	Path   string
	Artist string
	Title  string
	Album  string
}

// String renders "Artist - Title", or just the title when the artist is unknown.
func (t Track) String() string {
	switch {
	case t.Artist != "" && t.Title != "":
		return t.Artist + " - " + t.Title
	case t.Title != "":
		return t.Title
	default:
		return filepath.Base(t.Path)
	}
}

// Complete reports whether both artist and title are known.
func (t Track) Complete() bool {
	return t.Artist != "" && t.Title != ""
}

var titleCaser = cases.Title(language.Und, cases.NoLower)

// Lookup reads tag metadata for path, falling back to the file name for any
// field the tag leaves empty. It never fails; unreadable files yield
// name-derived metadata.
func Lookup(path string) Track {
	track := Track{Path: path}
	if tag, err := id3v2.Open(path, id3v2.Options{Parse: true}); err == nil {
		track.Artist = strings.TrimSpace(tag.Artist())
		track.Title = strings.TrimSpace(tag.Title())
		track.Album = strings.TrimSpace(tag.Album())
		_ = tag.Close()
	}
	if track.Complete() {
		return track
	}

	artist, title := fromFilename(path)
	if track.Title == "" {
		track.Title = title
	}
	if track.Artist == "" {
		track.Artist = artist
	}
	return track
}

func fromFilename(path string) (artist, title string) {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	stem = strings.Join(strings.Fields(strings.ReplaceAll(stem, "_", " ")), " ")
	if left, right, ok := strings.Cut(stem, " - "); ok {
		artist = strings.TrimSpace(left)
		title = strings.TrimSpace(right)
	} else {
		title = stem
	}
	return titleCaser.String(artist), titleCaser.String(title)
}
