package sequencer

import (
	"regexp"
	"strconv"
)

// FallbackPitch is middle C, used when a note token cannot be parsed
const FallbackPitch = 60

var noteShape = regexp.MustCompile(`^([A-G])(#?)([0-9]+)$`)

// Semitone offsets within an octave, C = 0 through B = 11
var semitones = map[string]uint8{
	"C": 0, "C#": 1,
	"D": 2, "D#": 3,
	"E": 4,
	"F": 5, "F#": 6,
	"G": 7, "G#": 8,
	"A": 9, "A#": 10,
	"B": 11,
}

// NoteToPitch converts a note name like "C4" or "A#3" to a MIDI pitch.
// Malformed tokens resolve to middle C rather than failing; callers
// rely on this to keep bad user input non-fatal. Flat spellings are
// not handled here — the chord library ships its one flat voicing
// pre-expanded to the sharp equivalent.
func NoteToPitch(token string) uint8 {
	m := noteShape.FindStringSubmatch(token)
	if m == nil {
		return FallbackPitch
	}
	offset := semitones[m[1]+m[2]]
	octave, err := strconv.Atoi(m[3])
	if err != nil {
		return FallbackPitch
	}
	pitch := (octave+1)*12 + int(offset)
	if pitch < 0 {
		pitch = 0
	}
	if pitch > 127 {
		pitch = 127
	}
	return uint8(pitch)
}
