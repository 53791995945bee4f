package sequencer

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// Standard MIDI File status and meta bytes used by the encoder
const (
	statusNoteOn  = 0x90 // channel 0
	statusNoteOff = 0x80 // channel 0

	metaPrefix     = 0xFF
	metaTrackName  = 0x03
	metaTempo      = 0x51
	metaEndOfTrack = 0x2F
)

// appendVarLen appends the MIDI variable-length encoding of v: 7-bit
// groups, most significant first, high bit set on every byte but the
// last. Zero encodes as a single 0x00 byte.
func appendVarLen(buf []byte, v uint32) []byte {
	groups := []byte{byte(v & 0x7F)}
	v >>= 7
	for v > 0 {
		groups = append(groups, byte(v&0x7F)|0x80)
		v >>= 7
	}
	for i := len(groups) - 1; i >= 0; i-- {
		buf = append(buf, groups[i])
	}
	return buf
}

// writeChunk writes a 4-byte ASCII tag, the big-endian payload
// length, then the payload
func writeChunk(w *bytes.Buffer, tag string, payload []byte) {
	w.WriteString(tag)
	binary.Write(w, binary.BigEndian, uint32(len(payload)))
	w.Write(payload)
}

// tempoTrack builds the MTrk payload holding only the tempo meta
// event: microseconds per quarter note as a 3-byte big-endian value.
func tempoTrack(bpm int) []byte {
	usPerQuarter := uint32(math.Round(60000000.0 / float64(bpm)))
	payload := []byte{
		0x00, metaPrefix, metaTempo, 0x03,
		byte(usPerQuarter >> 16),
		byte(usPerQuarter >> 8),
		byte(usPerQuarter),
		0x00, metaPrefix, metaEndOfTrack, 0x00,
	}
	return payload
}

// noteTrack builds the MTrk payload for a named note track: track
// name meta, then each event as a delta time from its predecessor
// plus a channel-0 note message. Events must be in tick order with
// stable ties; Encode establishes that before calling.
func noteTrack(name string, events []Event) []byte {
	var payload []byte
	payload = append(payload, 0x00, metaPrefix, metaTrackName)
	// meta lengths are variable-length quantities, not single bytes
	payload = appendVarLen(payload, uint32(len(name)))
	payload = append(payload, name...)

	var prev uint32
	for _, ev := range events {
		payload = appendVarLen(payload, ev.Tick-prev)
		prev = ev.Tick
		status := byte(statusNoteOn)
		if ev.Kind == NoteOff {
			status = statusNoteOff
		}
		payload = append(payload, status, ev.Pitch&0x7F, ev.Velocity&0x7F)
	}

	payload = append(payload, 0x00, metaPrefix, metaEndOfTrack, 0x00)
	return payload
}

// Encode serializes one complete format-1 Standard MIDI File at
// division 480: a file header, a tempo track and a single note track.
// Events are ordered by tick (stable among equal ticks) before
// writing, so out-of-order input cannot underflow a delta time.
// Encoding the same inputs always yields identical bytes.
func Encode(trackName string, events []Event, bpm int) ([]byte, error) {
	if bpm <= 0 {
		return nil, fmt.Errorf("encoding %q: %w", trackName, ErrInvalidTempo)
	}

	ordered := make([]Event, len(events))
	copy(ordered, events)
	sortByTick(ordered)

	var buf bytes.Buffer

	var header bytes.Buffer
	binary.Write(&header, binary.BigEndian, uint16(1))               // format
	binary.Write(&header, binary.BigEndian, uint16(2))               // track count
	binary.Write(&header, binary.BigEndian, uint16(TicksPerQuarter)) // division
	writeChunk(&buf, "MThd", header.Bytes())

	writeChunk(&buf, "MTrk", tempoTrack(bpm))
	writeChunk(&buf, "MTrk", noteTrack(trackName, ordered))

	return buf.Bytes(), nil
}
