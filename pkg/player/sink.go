package player

import (
	"fmt"
	"io"
	"sync"
	"time"

	"gitlab.com/gomidi/midi/v2"
)

// LogSink prints each message with a timestamp relative to its
// creation. It lets the play command run without a MIDI output port.
type LogSink struct {
	mu    sync.Mutex
	w     io.Writer
	start time.Time
}

// NewLogSink creates a sink writing to w
func NewLogSink(w io.Writer) *LogSink {
	return &LogSink{w: w, start: time.Now()}
}

// Send implements Sink
func (s *LogSink) Send(msg midi.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	elapsed := time.Since(s.start).Seconds()

	var ch, key, vel uint8
	switch {
	case msg.GetNoteOn(&ch, &key, &vel):
		_, err := fmt.Fprintf(s.w, "%8.3fs  note-on  ch=%-2d pitch=%-3d vel=%d\n", elapsed, ch, key, vel)
		return err
	case msg.GetNoteOff(&ch, &key, &vel):
		_, err := fmt.Fprintf(s.w, "%8.3fs  note-off ch=%-2d pitch=%d\n", elapsed, ch, key)
		return err
	}
	_, err := fmt.Fprintf(s.w, "%8.3fs  %s\n", elapsed, msg)
	return err
}
