package sequencer

import "sort"

// Chord voicings keyed by symbol. Note names carry octaves so they
// feed straight into NoteToPitch. The historical "Bb" spellings in
// the seventh and minor voicings are stored pre-expanded as "A#",
// since the pitch resolver only parses sharp-or-natural names.
var chordTable = map[string][]string{
	"C":    {"C4", "E4", "G4"},
	"C7":   {"C4", "E4", "G4", "A#4"},
	"Cm":   {"C4", "D#4", "G4"},
	"D":    {"D4", "F#4", "A4"},
	"Dm":   {"D4", "F4", "A4"},
	"Dm7":  {"D4", "F4", "A4", "C5"},
	"E":    {"E4", "G#4", "B4"},
	"Em":   {"E4", "G4", "B4"},
	"Em7":  {"E4", "G4", "B4", "D5"},
	"F":    {"F4", "A4", "C5"},
	"F7":   {"F4", "A4", "C5", "D#5"},
	"G":    {"G4", "B4", "D5"},
	"G7":   {"G4", "B4", "D5", "F5"},
	"Gm":   {"G3", "A#3", "D4"},
	"A":    {"A3", "C#4", "E4"},
	"Am":   {"A3", "C4", "E4"},
	"Am7":  {"A3", "C4", "E4", "G4"},
	"Bdim": {"B3", "D4", "F4"},
	"Bm":   {"B3", "D4", "F#4"},
}

// defaultChord is the fallback voicing for unknown symbols
var defaultChord = []string{"C4", "E4", "G4"}

// LookupChord resolves a chord symbol to its voicing. Unknown symbols
// fall back to a C-major triad rather than failing.
func LookupChord(symbol string) Chord {
	notes, ok := chordTable[symbol]
	if !ok {
		notes = defaultChord
	}
	return Chord{Symbol: symbol, Notes: notes}
}

// Genre catalog: one canonical progression per genre, one bar per
// chord
var genreProgressions = map[string]Progression{
	"pop": {
		Name:   "Four Chords",
		Genre:  "pop",
		Chords: []string{"C", "G", "Am", "F"},
	},
	"rock": {
		Name:   "Classic Rock",
		Genre:  "rock",
		Chords: []string{"A", "D", "E", "D"},
	},
	"blues": {
		Name:   "Quick Twelve",
		Genre:  "blues",
		Chords: []string{"C7", "F7", "C7", "C7", "F7", "F7", "C7", "C7", "G7", "F7", "C7", "G7"},
	},
	"jazz": {
		Name:   "Minor Two-Five",
		Genre:  "jazz",
		Chords: []string{"Dm7", "G7", "C", "Am7"},
	},
	"lofi": {
		Name:   "Mellow Loop",
		Genre:  "lofi",
		Chords: []string{"Am7", "Dm7", "Em7", "Am7"},
	},
}

// ProgressionForGenre returns the catalog progression for a genre
func ProgressionForGenre(genre string) (Progression, bool) {
	p, ok := genreProgressions[genre]
	return p, ok
}

// GenreNames lists the catalog genres in sorted order
func GenreNames() []string {
	names := make([]string, 0, len(genreProgressions))
	for name := range genreProgressions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
