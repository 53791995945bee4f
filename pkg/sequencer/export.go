package sequencer

import (
	"fmt"
	"regexp"
	"strings"
)

var unsafeFilename = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// safeFilename lowercases a track name and strips anything that does
// not belong in a filename
func safeFilename(name string) string {
	s := unsafeFilename.ReplaceAllString(strings.ToLower(name), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		s = "track"
	}
	return s
}

// hasEvents reports whether any bar of the pattern holds tokens
func hasEvents(pattern string) bool {
	for _, bar := range ParsePattern(pattern) {
		if len(bar) > 0 {
			return true
		}
	}
	return false
}

// ExportSong renders a song into stand-alone Standard MIDI Files: one
// for the chord progression and one per layer. Layers whose pattern
// holds no tokens are skipped, producing no file.
func ExportSong(song Song) ([]RenderedFile, error) {
	if song.Tempo <= 0 {
		return nil, fmt.Errorf("exporting song: %w", ErrInvalidTempo)
	}

	var files []RenderedFile

	if song.Progression != nil && song.Progression.BarCount() > 0 {
		track := ChordTrack(*song.Progression)
		data, err := Encode(track.Name, track.Events, song.Tempo)
		if err != nil {
			return nil, err
		}
		files = append(files, RenderedFile{Filename: "chords.mid", Data: data})
	}

	for _, layer := range song.Layers {
		if !hasEvents(layer.Pattern) {
			continue
		}
		track := LayerTrack(layer)
		data, err := Encode(track.Name, track.Events, song.Tempo)
		if err != nil {
			return nil, err
		}
		files = append(files, RenderedFile{
			Filename: safeFilename(layer.Name) + ".mid",
			Data:     data,
		})
	}

	return files, nil
}
