package simulation

import "time"

// Logger is the logging surface the state machine writes to
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger discards everything
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any) {}
func (NopLogger) Infof(string, ...any)  {}
func (NopLogger) Warnf(string, ...any)  {}
func (NopLogger) Errorf(string, ...any) {}

// Observer receives counters about transitions and determinations.
// *metrics.Metrics satisfies it.
type Observer interface {
	IncrementTransition(kind string)
	IncrementResult(eligible bool, reason string)
	IncrementRecovery(kind string)
	ObserveEvaluateLatency(d time.Duration)
}

type nopObserver struct{}

func (nopObserver) IncrementTransition(string)           {}
func (nopObserver) IncrementResult(bool, string)         {}
func (nopObserver) IncrementRecovery(string)             {}
func (nopObserver) ObserveEvaluateLatency(time.Duration) {}
