package sequencer

import (
	"bytes"
	"errors"
	"testing"
)

func TestExportSong(t *testing.T) {
	prog := Progression{Name: "test", Chords: []string{"C", "G", "Am", "F"}}
	song := Song{
		Progression: &prog,
		Tempo:       110,
		Layers: []Layer{
			{Name: "Lead Synth", Kind: KindMelody, Pattern: "C4 E4 G4 E4"},
			{Name: "beat", Kind: KindDrums, Pattern: "k h s h"},
			{Name: "silent", Kind: KindBass, Pattern: "  |  "}, // no tokens, no file
		},
	}

	files, err := ExportSong(song)
	if err != nil {
		t.Fatal(err)
	}

	expected := []string{"chords.mid", "lead-synth.mid", "beat.mid"}
	if len(files) != len(expected) {
		t.Fatalf("file count = %d, want %d", len(files), len(expected))
	}
	for i, name := range expected {
		if files[i].Filename != name {
			t.Errorf("file %d = %q, want %q", i, files[i].Filename, name)
		}
		if !bytes.HasPrefix(files[i].Data, []byte("MThd")) {
			t.Errorf("file %q does not start with an SMF header", files[i].Filename)
		}
	}
}

func TestExportSongInvalidTempo(t *testing.T) {
	_, err := ExportSong(Song{Tempo: 0})
	if !errors.Is(err, ErrInvalidTempo) {
		t.Errorf("err = %v, want ErrInvalidTempo", err)
	}
}

func TestExportSongNoProgression(t *testing.T) {
	song := Song{
		Tempo:  120,
		Layers: []Layer{{Name: "beat", Kind: KindDrums, Pattern: "k s"}},
	}
	files, err := ExportSong(song)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || files[0].Filename != "beat.mid" {
		t.Fatalf("files = %v, want only beat.mid", files)
	}
}

func TestSafeFilename(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"Lead Synth", "lead-synth"},
		{"beat", "beat"},
		{"///", "track"},
		{"A/B\\C", "a-b-c"},
	}
	for _, tt := range tests {
		if got := safeFilename(tt.in); got != tt.expected {
			t.Errorf("safeFilename(%q) = %q, want %q", tt.in, got, tt.expected)
		}
	}
}
