package sequencer

import "testing"

func TestNoteToPitch(t *testing.T) {
	tests := []struct {
		token    string
		expected uint8
	}{
		{"C4", 60},
		{"A4", 69},
		{"A#4", 70},
		{"C0", 12},
		{"B4", 71},
		{"G#3", 56},
		{"C10", 127}, // 132 clamped into MIDI range
		{"Z9", 60},   // unknown letter falls back to middle C
		{"", 60},
		{"-", 60},
		{"Cb4", 60}, // flats are not parsed
		{"C", 60},   // missing octave
		{"c4", 60},  // lowercase is not a note name
		{"C#", 60},
		{"C#12", 127},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			if got := NoteToPitch(tt.token); got != tt.expected {
				t.Errorf("NoteToPitch(%q) = %d, want %d", tt.token, got, tt.expected)
			}
		})
	}
}

func TestLookupChord(t *testing.T) {
	c := LookupChord("C")
	if len(c.Notes) != 3 {
		t.Fatalf("C voicing has %d notes, want 3", len(c.Notes))
	}
	if p := NoteToPitch(c.Notes[0]); p != 60 {
		t.Errorf("C root pitch = %d, want 60", p)
	}

	// Unknown symbols degrade to a C-major triad instead of failing
	fallback := LookupChord("Q#5sus99")
	if fallback.Symbol != "Q#5sus99" {
		t.Errorf("fallback keeps the requested symbol, got %q", fallback.Symbol)
	}
	for i, note := range fallback.Notes {
		if note != defaultChord[i] {
			t.Errorf("fallback note %d = %q, want %q", i, note, defaultChord[i])
		}
	}
}

func TestChordTableHasNoFlats(t *testing.T) {
	// The single historical flat voicing ships pre-expanded, so every
	// note in the table must resolve without hitting the fallback shape
	for symbol, notes := range chordTable {
		for _, note := range notes {
			if !noteShape.MatchString(note) {
				t.Errorf("chord %s note %q does not match the resolver shape", symbol, note)
			}
		}
	}
}
