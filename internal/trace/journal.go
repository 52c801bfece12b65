package trace

// EventRecorder persists events for a journal session.
// storage.Journal satisfies it.
type EventRecorder interface {
	RecordEvent(sessionID int64, e Event) error
}

// JournalSink appends events to a recorded session. Write failures never
// reach the engine; the first one is kept for the caller to inspect.
type JournalSink struct {
	rec       EventRecorder
	sessionID int64
	err       error
	dropped   int
}

// NewJournalSink creates a sink recording into the given session.
func NewJournalSink(rec EventRecorder, sessionID int64) *JournalSink {
	return &JournalSink{rec: rec, sessionID: sessionID}
}

// Emit implements Sink.
func (s *JournalSink) Emit(e Event) {
	if err := s.rec.RecordEvent(s.sessionID, e); err != nil {
		s.dropped++
		if s.err == nil {
			s.err = err
		}
	}
}

// SessionID returns the journal session events are recorded into.
func (s *JournalSink) SessionID() int64 {
	return s.sessionID
}

// Err returns the first write error, if any.
func (s *JournalSink) Err() error {
	return s.err
}

// Dropped returns how many events failed to record.
func (s *JournalSink) Dropped() int {
	return s.dropped
}
