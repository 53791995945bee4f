package sequencer

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestChordTrackTwoBars(t *testing.T) {
	track := ChordTrack(Progression{Name: "test", Chords: []string{"C", "G"}})

	cTriad := []uint8{60, 64, 67}
	gTriad := []uint8{67, 71, 74}

	if len(track.Events) != 12 {
		t.Fatalf("event count = %d, want 12", len(track.Events))
	}

	// C triad on at tick 0
	for i, pitch := range cTriad {
		ev := track.Events[i]
		if ev.Tick != 0 || ev.Kind != NoteOn || ev.Pitch != pitch || ev.Velocity != 80 {
			t.Errorf("event %d = %+v, want on %d at 0 vel 80", i, ev, pitch)
		}
	}
	// C triad off at 1920, before the G triad on at the same tick
	for i, pitch := range cTriad {
		ev := track.Events[3+i]
		if ev.Tick != 1920 || ev.Kind != NoteOff || ev.Pitch != pitch {
			t.Errorf("event %d = %+v, want off %d at 1920", 3+i, ev, pitch)
		}
	}
	for i, pitch := range gTriad {
		ev := track.Events[6+i]
		if ev.Tick != 1920 || ev.Kind != NoteOn || ev.Pitch != pitch {
			t.Errorf("event %d = %+v, want on %d at 1920", 6+i, ev, pitch)
		}
	}
	for i, pitch := range gTriad {
		ev := track.Events[9+i]
		if ev.Tick != 3840 || ev.Kind != NoteOff || ev.Pitch != pitch {
			t.Errorf("event %d = %+v, want off %d at 3840", 9+i, ev, pitch)
		}
	}
}

func TestLayerTrackDrums(t *testing.T) {
	track := LayerTrack(Layer{Name: "beat", Kind: KindDrums, Pattern: "k s"})

	expected := []Event{
		{Tick: 0, Kind: NoteOn, Pitch: PitchKick, Velocity: 80},
		{Tick: 768, Kind: NoteOff, Pitch: PitchKick, Velocity: 80},
		{Tick: 960, Kind: NoteOn, Pitch: PitchSnare, Velocity: 80},
		{Tick: 1728, Kind: NoteOff, Pitch: PitchSnare, Velocity: 80},
	}
	if len(track.Events) != len(expected) {
		t.Fatalf("event count = %d, want %d", len(track.Events), len(expected))
	}
	for i, want := range expected {
		if track.Events[i] != want {
			t.Errorf("event %d = %+v, want %+v", i, track.Events[i], want)
		}
	}
}

func TestLayerTrackTokenInterpretation(t *testing.T) {
	tests := []struct {
		name    string
		layer   Layer
		pitches []uint8
	}{
		{
			name:    "drum rests and unknown tokens are silent",
			layer:   Layer{Kind: KindDrums, Pattern: "k - x h"},
			pitches: []uint8{PitchKick, PitchHihat},
		},
		{
			name:    "melody resolves note names",
			layer:   Layer{Kind: KindMelody, Pattern: "C4 - E4"},
			pitches: []uint8{60, 64},
		},
		{
			name:    "malformed melody tokens fall back to middle C",
			layer:   Layer{Kind: KindBass, Pattern: "Q9"},
			pitches: []uint8{60},
		},
		{
			name:    "empty bars between separators produce nothing",
			layer:   Layer{Kind: KindDrums, Pattern: "|"},
			pitches: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			track := LayerTrack(tt.layer)
			var got []uint8
			for _, ev := range track.Events {
				if ev.Kind == NoteOn {
					got = append(got, ev.Pitch)
				}
			}
			if len(got) != len(tt.pitches) {
				t.Fatalf("note-ons = %v, want %v", got, tt.pitches)
			}
			for i := range got {
				if got[i] != tt.pitches[i] {
					t.Errorf("note-on %d pitch = %d, want %d", i, got[i], tt.pitches[i])
				}
			}
		})
	}
}

func TestLayerTrackSecondBarOffset(t *testing.T) {
	track := LayerTrack(Layer{Kind: KindDrums, Pattern: "k | s"})
	if track.Events[2].Tick != 1920 {
		t.Errorf("second-bar onset = %d, want 1920", track.Events[2].Tick)
	}
}

func TestLayerTrackDurationFloor(t *testing.T) {
	// 1000 tokens in one bar gives a 1-tick slot; the 80% gate would
	// truncate to zero without the floor
	pattern := strings.TrimSpace(strings.Repeat("h ", 1000))
	track := LayerTrack(Layer{Kind: KindDrums, Pattern: pattern})

	if len(track.Events) != 2000 {
		t.Fatalf("event count = %d, want 2000", len(track.Events))
	}
	on, off := track.Events[0], track.Events[1]
	if off.Tick <= on.Tick {
		t.Errorf("note-off tick %d must be after note-on tick %d", off.Tick, on.Tick)
	}
	if off.Tick-on.Tick != 1 {
		t.Errorf("floored duration = %d, want 1", off.Tick-on.Tick)
	}
}

func TestBuildPlanInvalidTempo(t *testing.T) {
	for _, tempo := range []int{0, -30} {
		_, err := BuildPlan(Song{Tempo: tempo})
		if !errors.Is(err, ErrInvalidTempo) {
			t.Errorf("BuildPlan(tempo=%d) err = %v, want ErrInvalidTempo", tempo, err)
		}
	}
}

func TestBuildPlanLoopLength(t *testing.T) {
	prog := Progression{Chords: []string{"C", "G"}}

	plan, err := BuildPlan(Song{Progression: &prog, Tempo: 120})
	if err != nil {
		t.Fatal(err)
	}
	// 120 BPM: one bar is 2s, two bars loop
	if math.Abs(plan.LoopSeconds-4.0) > 1e-9 {
		t.Errorf("loop = %v, want 4s", plan.LoopSeconds)
	}

	// No progression: the loop defaults to four bars
	plan, err = BuildPlan(Song{Tempo: 120, Layers: []Layer{{Kind: KindDrums, Pattern: "k"}}})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(plan.LoopSeconds-8.0) > 1e-9 {
		t.Errorf("default loop = %v, want 8s", plan.LoopSeconds)
	}
}

func TestBuildPlanMirrorsTickArithmetic(t *testing.T) {
	song := Song{
		Tempo:  120, // bar = 2s
		Layers: []Layer{{Name: "beat", Kind: KindDrums, Pattern: "k s"}},
	}
	plan, err := BuildPlan(song)
	if err != nil {
		t.Fatal(err)
	}

	if len(plan.Events) != 4 {
		t.Fatalf("event count = %d, want 4", len(plan.Events))
	}
	// kick at 0s, snare at 1s, offs at 80% of the 1s slot
	checks := []struct {
		at    float64
		kind  EventKind
		pitch uint8
		route Route
	}{
		{0.0, NoteOn, PitchKick, RouteDrums},
		{0.8, NoteOff, PitchKick, RouteDrums},
		{1.0, NoteOn, PitchSnare, RouteDrums},
		{1.8, NoteOff, PitchSnare, RouteDrums},
	}
	for i, want := range checks {
		ev := plan.Events[i]
		if math.Abs(ev.At-want.at) > 1e-9 || ev.Kind != want.kind || ev.Pitch != want.pitch || ev.Route != want.route {
			t.Errorf("event %d = %+v, want %+v", i, ev, want)
		}
	}
}

func TestBuildPlanRouting(t *testing.T) {
	prog := Progression{Chords: []string{"C"}}
	song := Song{
		Progression: &prog,
		Tempo:       60,
		Layers: []Layer{
			{Name: "lead", Kind: KindMelody, Pattern: "C5"},
			{Name: "low", Kind: KindBass, Pattern: "C2"},
			{Name: "beat", Kind: KindDrums, Pattern: "k"},
		},
	}
	plan, err := BuildPlan(song)
	if err != nil {
		t.Fatal(err)
	}

	seen := make(map[Route]bool)
	for _, ev := range plan.Events {
		seen[ev.Route] = true
	}
	for _, route := range []Route{RouteChords, RouteMelody, RouteBass, RouteDrums} {
		if !seen[route] {
			t.Errorf("route %v missing from plan", route)
		}
	}
}
