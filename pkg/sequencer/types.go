// Package sequencer turns pattern strings and chord progressions into
// timed note events and Standard MIDI Files
package sequencer

import "errors"

// Timing constants shared by the tick and seconds domains
const (
	TicksPerQuarter = 480
	BeatsPerBar     = 4
	TicksPerBar     = TicksPerQuarter * BeatsPerBar // 1920
)

// DefaultVelocity is used for chord and layer notes unless a layer
// overrides it
const DefaultVelocity = 80

// ErrInvalidTempo is returned when a schedule or encode is requested
// with a non-positive BPM
var ErrInvalidTempo = errors.New("tempo must be a positive BPM value")

// InstrumentKind selects how a layer's pattern tokens are interpreted
type InstrumentKind int

const (
	KindMelody InstrumentKind = iota
	KindBass
	KindDrums
)

// String returns the lowercase name of the kind
func (k InstrumentKind) String() string {
	switch k {
	case KindMelody:
		return "melody"
	case KindBass:
		return "bass"
	case KindDrums:
		return "drums"
	}
	return "unknown"
}

// ParseKind converts a kind name to an InstrumentKind
func ParseKind(s string) (InstrumentKind, bool) {
	switch s {
	case "melody":
		return KindMelody, true
	case "bass":
		return KindBass, true
	case "drums":
		return KindDrums, true
	}
	return KindMelody, false
}

// Bar is the ordered token content of one measure. A nil or empty Bar
// produces no events
type Bar []string

// Chord is a symbol plus its voicing as note names
type Chord struct {
	Symbol string
	Notes  []string
}

// Progression is an ordered chord sequence, one bar per chord
type Progression struct {
	Name   string
	Genre  string
	Chords []string
}

// BarCount returns the number of bars the progression spans
func (p Progression) BarCount() int {
	return len(p.Chords)
}

// Layer is one independent pattern track of a single instrument kind
type Layer struct {
	Name     string
	Kind     InstrumentKind
	Pattern  string
	Velocity uint8 // 0 means DefaultVelocity
}

// velocity resolves the layer's effective note velocity
func (l Layer) velocity() uint8 {
	if l.Velocity == 0 {
		return DefaultVelocity
	}
	return l.Velocity
}

// Song is the immutable configuration snapshot supplied by the caller:
// a progression, any number of layers and a tempo
type Song struct {
	Progression *Progression
	Layers      []Layer
	Tempo       int // BPM
}

// EventKind discriminates note events
type EventKind int

const (
	NoteOn EventKind = iota
	NoteOff
)

// Event is one tick-stamped note event
type Event struct {
	Tick     uint32
	Kind     EventKind
	Pitch    uint8
	Velocity uint8
}

// Track is a named event sequence ordered by tick with stable ties
type Track struct {
	Name   string
	Events []Event
}

// RenderedFile is one exported Standard MIDI File
type RenderedFile struct {
	Filename string
	Data     []byte
}
