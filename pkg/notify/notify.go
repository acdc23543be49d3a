// Package notify is the fire-and-forget notification side channel. Dispatch
// never blocks a core transition and its failure never fails one.
package notify

import (
	"time"

	"github.com/rs/zerolog"
)

type Kind string

const (
	KindOrderPlaced    Kind = "order_placed"
	KindOrderConfirmed Kind = "order_confirmed"
	KindOrderDelivered Kind = "order_delivered"
	KindOrderCancelled Kind = "order_cancelled"
	KindPayment        Kind = "payment"
)

type Dispatcher interface {
	Notify(userID uint, title, message string, kind Kind, metadata map[string]string)
}

// Sink delivers one notification attempt; at-least-once, best-effort.
type Sink interface {
	Send(userID uint, title, message string, kind Kind, metadata map[string]string) error
}

// AsyncDispatcher retries a bounded number of times with backoff, off the
// caller's goroutine.
type AsyncDispatcher struct {
	sink     Sink
	log      zerolog.Logger
	attempts int
	backoff  time.Duration
}

func NewAsyncDispatcher(sink Sink, log zerolog.Logger) *AsyncDispatcher {
	return &AsyncDispatcher{sink: sink, log: log, attempts: 3, backoff: 500 * time.Millisecond}
}

func (d *AsyncDispatcher) Notify(userID uint, title, message string, kind Kind, metadata map[string]string) {
	go func() {
		delay := d.backoff
		for i := 1; i <= d.attempts; i++ {
			err := d.sink.Send(userID, title, message, kind, metadata)
			if err == nil {
				return
			}
			d.log.Warn().Err(err).
				Uint("user_id", userID).
				Str("kind", string(kind)).
				Int("attempt", i).
				Msg("notification delivery failed")
			if i < d.attempts {
				time.Sleep(delay)
				delay *= 2
			}
		}
	}()
}

// LogSink is the default sink: it records the notification and succeeds.
// Real transports (push, SMS) plug in behind Sink.
type LogSink struct {
	Log zerolog.Logger
}

func (s LogSink) Send(userID uint, title, message string, kind Kind, metadata map[string]string) error {
	ev := s.Log.Info().Uint("user_id", userID).Str("kind", string(kind)).Str("title", title)
	for k, v := range metadata {
		ev = ev.Str(k, v)
	}
	ev.Msg(message)
	return nil
}

// Noop drops everything; used in tests.
type Noop struct{}

func (Noop) Notify(uint, string, string, Kind, map[string]string) {}
