package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zstd"
)

// exportLine is one JSON line of an exported session. The first line carries
// the session, every following line one event.
type exportLine struct {
	Session *exportSession `json:"session,omitempty"`
	Event   *exportEvent   `json:"event,omitempty"`
}

type exportSession struct {
	ID        int64     `json:"id"`
	Variant   string    `json:"variant"`
	User      string    `json:"user,omitempty"`
	BoardSize int       `json:"board_size"`
	Colors    int       `json:"colors"`
	Seed      int64     `json:"seed"`
	StartedAt time.Time `json:"started_at"`
}

type exportEvent struct {
	Kind      string    `json:"kind"`
	State     string    `json:"state"`
	Pass      int       `json:"pass"`
	Count     int       `json:"count"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Export writes a session and its events to w as zstd-compressed JSON lines.
// Returns the number of events written.
func (j *Journal) Export(w io.Writer, sessionID int64) (int, error) {
	s, err := j.Session(sessionID)
	if err != nil {
		return 0, err
	}
	if s == nil {
		return 0, fmt.Errorf("storage: session %d not found", sessionID)
	}
	events, err := j.Events(sessionID)
	if err != nil {
		return 0, err
	}

	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return 0, fmt.Errorf("storage: cannot create zstd writer: %w", err)
	}

	enc := json.NewEncoder(zw)
	head := exportLine{Session: &exportSession{
		ID:        s.ID,
		Variant:   s.Variant,
		User:      s.User,
		BoardSize: s.BoardSize,
		Colors:    s.Colors,
		Seed:      s.Seed,
		StartedAt: s.StartedAt,
	}}
	if err := enc.Encode(head); err != nil {
		zw.Close()
		return 0, fmt.Errorf("storage: cannot write session: %w", err)
	}
	for i, e := range events {
		line := exportLine{Event: &exportEvent{
			Kind:      e.Kind,
			State:     e.State,
			Pass:      e.Pass,
			Count:     e.Count,
			Detail:    e.Detail,
			CreatedAt: e.CreatedAt,
		}}
		if err := enc.Encode(line); err != nil {
			zw.Close()
			return i, fmt.Errorf("storage: cannot write event: %w", err)
		}
	}

	if err := zw.Close(); err != nil {
		return len(events), fmt.Errorf("storage: cannot finish export: %w", err)
	}
	return len(events), nil
}
