// Package player drives live playback of a song's seconds-domain
// schedule, sending MIDI messages to a pluggable sink
package player

import (
	"sync"
	"time"

	"gitlab.com/gomidi/midi/v2"

	"github.com/james-see/jam2midi/pkg/sequencer"
)

// Sink receives live MIDI messages. It mirrors gomidi's Sender so a
// real output port satisfies it directly; the audio side of playback
// lives entirely behind this boundary.
type Sink interface {
	Send(msg midi.Message) error
}

// State is the transport state. There is no paused state: playback is
// either running or fully torn down.
type State int

const (
	Stopped State = iota
	Playing
)

// boundaryEpsilon absorbs float drift between an event onset computed
// as i*barSeconds+barSeconds and the loop length computed as
// barCount*barSeconds
const boundaryEpsilon = 1e-9

// voiceRack maps playback routes to MIDI channels. A rack is created
// wholesale on Play and disposed wholesale on Stop so no stale
// routing survives a configuration change.
type voiceRack struct {
	channels map[sequencer.Route]uint8
}

func newVoiceRack() *voiceRack {
	return &voiceRack{channels: map[sequencer.Route]uint8{
		sequencer.RouteChords: 0,
		sequencer.RouteMelody: 1,
		sequencer.RouteBass:   2,
		sequencer.RouteDrums:  9, // GM percussion channel
	}}
}

func (r *voiceRack) channel(route sequencer.Route) uint8 {
	return r.channels[route]
}

func (r *voiceRack) dispose() {
	r.channels = nil
}

// Player is the transport. All scheduling state is guarded by one
// mutex; timer callbacks re-check the generation counter under that
// mutex, so a Stop that bumps the generation revokes every pending
// callback atomically with the transport halt.
type Player struct {
	mu     sync.Mutex
	sink   Sink
	state  State
	gen    uint64
	timers []*time.Timer
	plan   *sequencer.PlaybackPlan
	fired  []bool // one flag per plan event, reset each pass
	rack   *voiceRack
}

// New creates a stopped player sending to sink
func New(sink Sink) *Player {
	return &Player{sink: sink}
}

// State returns the current transport state
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Play builds the song's playback plan and starts the transport. If
// the player is already playing, the pending schedule is cleared
// first so no stale or duplicate events fire.
func (p *Player) Play(song sequencer.Song) error {
	plan, err := sequencer.BuildPlan(song)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.clearLocked()
	p.rack = newVoiceRack()
	p.state = Playing
	p.gen++
	p.scheduleLocked(plan)
	return nil
}

// Stop halts the transport. After Stop returns, no scheduled callback
// fires — including callbacks that were already due but had not yet
// run.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == Stopped {
		return
	}
	p.clearLocked()
	if p.rack != nil {
		p.rack.dispose()
		p.rack = nil
	}
	p.state = Stopped
}

// clearLocked revokes all pending callbacks. Bumping the generation
// makes any timer that already fired but has not yet taken the mutex
// a no-op.
func (p *Player) clearLocked() {
	p.gen++
	for _, t := range p.timers {
		t.Stop()
	}
	p.timers = nil
	p.plan = nil
	p.fired = nil
}

// scheduleLocked arms one timer per event for the current generation
// plus a loop timer that restarts the whole schedule from zero
func (p *Player) scheduleLocked(plan *sequencer.PlaybackPlan) {
	gen := p.gen
	p.plan = plan
	p.fired = make([]bool, len(plan.Events))
	for i := range plan.Events {
		i := i
		t := time.AfterFunc(secondsToDuration(plan.Events[i].At), func() {
			p.fire(gen, i)
		})
		p.timers = append(p.timers, t)
	}
	loop := time.AfterFunc(secondsToDuration(plan.LoopSeconds), func() {
		p.restart(gen, plan)
	})
	p.timers = append(p.timers, loop)
}

// fire sends one event if its generation is still live and it has not
// already been delivered by the loop-boundary flush
func (p *Player) fire(gen uint64, i int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.gen != gen || p.state != Playing || p.fired[i] {
		return
	}
	p.fired[i] = true
	p.sendLocked(p.plan.Events[i])
}

// restart re-arms the full schedule at the loop boundary. Note-offs
// due at the loop instant race the loop timer, so any still pending
// are delivered here before their timers are revoked — otherwise each
// pass would leave its final bar's voices stuck on.
func (p *Player) restart(gen uint64, plan *sequencer.PlaybackPlan) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.gen != gen || p.state != Playing {
		return
	}
	p.flushBoundaryOffsLocked()
	// new generation: anything left over from the previous pass is stale
	p.clearLocked()
	p.scheduleLocked(plan)
}

// flushBoundaryOffsLocked delivers undelivered note-offs that fall on
// or after the loop boundary. Only offs are flushed: onsets past the
// loop belong to layers longer than the progression and are cut by
// the restart rather than fired early.
func (p *Player) flushBoundaryOffsLocked() {
	for i, ev := range p.plan.Events {
		if p.fired[i] || ev.Kind != sequencer.NoteOff {
			continue
		}
		if ev.At >= p.plan.LoopSeconds-boundaryEpsilon {
			p.fired[i] = true
			p.sendLocked(ev)
		}
	}
}

// sendLocked translates one event through the voice rack to the sink
func (p *Player) sendLocked(ev sequencer.TimedEvent) {
	ch := p.rack.channel(ev.Route)
	var msg midi.Message
	if ev.Kind == sequencer.NoteOn {
		msg = midi.NoteOn(ch, ev.Pitch, ev.Velocity)
	} else {
		msg = midi.NoteOff(ch, ev.Pitch)
	}
	// a sink failure must not tear down the transport mid-bar
	_ = p.sink.Send(msg)
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
