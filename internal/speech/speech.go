// Package speech provides the default speech capability: utterances are
// logged rather than synthesized, with cancel semantics preserved so the
// navigation announcer behaves identically with or without a real TTS
// backend attached.
package speech

import (
	"sync"

	"go.uber.org/zap"
)

// LogSpeaker logs every utterance and remembers the current one so Cancel
// has something to act on.
type LogSpeaker struct {
	mu      sync.Mutex
	current string
	logger  *zap.Logger
}

// NewLogSpeaker creates a LogSpeaker.
func NewLogSpeaker(logger *zap.Logger) *LogSpeaker {
	return &LogSpeaker{logger: logger}
}

// Speak records text as the current utterance and logs it.
func (s *LogSpeaker) Speak(text string) {
	s.mu.Lock()
	s.current = text
	s.mu.Unlock()

	s.logger.Info("speaking", zap.String("text", text))
}

// Cancel drops the current utterance.
func (s *LogSpeaker) Cancel() {
	s.mu.Lock()
	cancelled := s.current
	s.current = ""
	s.mu.Unlock()

	if cancelled != "" {
		s.logger.Debug("speech cancelled", zap.String("text", cancelled))
	}
}

// Current returns the utterance in flight, if any.
func (s *LogSpeaker) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}
