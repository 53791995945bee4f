package sequencer

import (
	"fmt"
	"sort"
)

// General MIDI drum pitches for the drum token alphabet
const (
	PitchKick  = 36
	PitchSnare = 38
	PitchHihat = 42
)

// gateNum/gateDen express the 80% gate: notes sound for 80% of their
// slot so adjacent hits do not run together
const (
	gateNum = 8
	gateDen = 10
)

// drumPitch maps a drum token to its pitch. The second return is
// false for rests and unknown tokens.
func drumPitch(token string) (uint8, bool) {
	switch token {
	case "k":
		return PitchKick, true
	case "s":
		return PitchSnare, true
	case "h":
		return PitchHihat, true
	}
	return 0, false
}

// noteDuration is 80% of the item width, floored at one tick so very
// fine subdivisions never produce zero-length notes
func noteDuration(itemWidth uint32) uint32 {
	d := itemWidth * gateNum / gateDen
	if d < 1 {
		d = 1
	}
	return d
}

// sortByTick orders events ascending by tick, preserving generation
// order among equal ticks
func sortByTick(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Tick < events[j].Tick
	})
}

// ChordTrack renders a progression into a tick-domain track: each
// chord fills exactly one bar, all voicing pitches on at the bar
// start and off at the bar end.
func ChordTrack(prog Progression) Track {
	var events []Event
	for i, symbol := range prog.Chords {
		chord := LookupChord(symbol)
		start := uint32(i) * TicksPerBar
		for _, note := range chord.Notes {
			pitch := NoteToPitch(note)
			events = append(events, Event{Tick: start, Kind: NoteOn, Pitch: pitch, Velocity: DefaultVelocity})
		}
		for _, note := range chord.Notes {
			pitch := NoteToPitch(note)
			events = append(events, Event{Tick: start + TicksPerBar, Kind: NoteOff, Pitch: pitch, Velocity: DefaultVelocity})
		}
	}
	sortByTick(events)
	name := prog.Name
	if name == "" {
		name = "chords"
	}
	return Track{Name: name, Events: events}
}

// LayerTrack renders one layer's pattern into a tick-domain track. A
// bar with n tokens divides into n equal slots of floor(1920/n)
// ticks; rests and empty bars produce no events.
func LayerTrack(layer Layer) Track {
	var events []Event
	velocity := layer.velocity()
	for b, bar := range ParsePattern(layer.Pattern) {
		n := len(bar)
		if n == 0 {
			continue
		}
		itemWidth := uint32(TicksPerBar / n)
		for j, token := range bar {
			pitch, hit := resolveToken(layer.Kind, token)
			if !hit {
				continue
			}
			onset := uint32(b)*TicksPerBar + uint32(j)*itemWidth
			dur := noteDuration(itemWidth)
			events = append(events,
				Event{Tick: onset, Kind: NoteOn, Pitch: pitch, Velocity: velocity},
				Event{Tick: onset + dur, Kind: NoteOff, Pitch: pitch, Velocity: velocity})
		}
	}
	sortByTick(events)
	return Track{Name: layer.Name, Events: events}
}

// resolveToken interprets one pattern token under an instrument kind.
// hit is false for rests.
func resolveToken(kind InstrumentKind, token string) (pitch uint8, hit bool) {
	switch kind {
	case KindDrums:
		return drumPitch(token)
	case KindMelody, KindBass:
		if token == "-" {
			return 0, false
		}
		return NoteToPitch(token), true
	}
	return 0, false
}

// Route is the per-instrument-kind key the live player uses to direct
// events; the player owns what each route sounds like
type Route int

const (
	RouteChords Route = iota
	RouteMelody
	RouteBass
	RouteDrums
)

// routeFor maps a layer kind to its playback route
func routeFor(kind InstrumentKind) Route {
	switch kind {
	case KindBass:
		return RouteBass
	case KindDrums:
		return RouteDrums
	}
	return RouteMelody
}

// TimedEvent is one seconds-domain note event, scheduled relative to
// the transport start
type TimedEvent struct {
	At       float64 // seconds from transport start
	Kind     EventKind
	Pitch    uint8
	Velocity uint8
	Route    Route
}

// PlaybackPlan is a full pass of the song in the seconds domain plus
// the transport loop length
type PlaybackPlan struct {
	Events      []TimedEvent
	LoopSeconds float64
}

// defaultLoopBars applies when a song has no progression
const defaultLoopBars = 4

// BuildPlan derives the seconds-domain schedule for a song. The loop
// length covers the progression's bar count, or four bars when no
// progression is set.
func BuildPlan(song Song) (*PlaybackPlan, error) {
	if song.Tempo <= 0 {
		return nil, fmt.Errorf("building playback plan: %w", ErrInvalidTempo)
	}
	barSeconds := 60.0 / float64(song.Tempo) * BeatsPerBar

	var events []TimedEvent
	loopBars := defaultLoopBars
	if song.Progression != nil {
		loopBars = song.Progression.BarCount()
		for i, symbol := range song.Progression.Chords {
			chord := LookupChord(symbol)
			start := float64(i) * barSeconds
			for _, note := range chord.Notes {
				pitch := NoteToPitch(note)
				events = append(events,
					TimedEvent{At: start, Kind: NoteOn, Pitch: pitch, Velocity: DefaultVelocity, Route: RouteChords},
					TimedEvent{At: start + barSeconds, Kind: NoteOff, Pitch: pitch, Velocity: DefaultVelocity, Route: RouteChords})
			}
		}
	}

	for _, layer := range song.Layers {
		route := routeFor(layer.Kind)
		velocity := layer.velocity()
		for b, bar := range ParsePattern(layer.Pattern) {
			n := len(bar)
			if n == 0 {
				continue
			}
			itemWidth := barSeconds / float64(n)
			for j, token := range bar {
				pitch, hit := resolveToken(layer.Kind, token)
				if !hit {
					continue
				}
				onset := float64(b)*barSeconds + float64(j)*itemWidth
				events = append(events,
					TimedEvent{At: onset, Kind: NoteOn, Pitch: pitch, Velocity: velocity, Route: route},
					TimedEvent{At: onset + itemWidth*0.8, Kind: NoteOff, Pitch: pitch, Velocity: velocity, Route: route})
			}
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].At < events[j].At
	})

	return &PlaybackPlan{
		Events:      events,
		LoopSeconds: float64(loopBars) * barSeconds,
	}, nil
}
