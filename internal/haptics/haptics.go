// Package haptics provides feedback.Sink implementations for hosts without
// a real haptic device.
package haptics

import (
	"github.com/ingyamilmolinar/trimline/core/feedback"
	game_log "github.com/ingyamilmolinar/trimline/internal/log"
)

// LogSink logs each pulse at debug level. The desktop demo uses it in place
// of a vibration motor.
type LogSink struct {
	logger *game_log.Logger
}

func NewLogSink(logger *game_log.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Pulse(k feedback.Kind) {
	s.logger.Debugf("[HAPTIC] %s pulse", k)
}

// CountingSink records pulses per kind. Test helper.
type CountingSink struct {
	Counts map[feedback.Kind]int
}

func NewCountingSink() *CountingSink {
	return &CountingSink{Counts: map[feedback.Kind]int{}}
}

func (s *CountingSink) Pulse(k feedback.Kind) { s.Counts[k]++ }
