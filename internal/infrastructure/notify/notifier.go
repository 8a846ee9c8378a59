// Package notify implements the side-channel notification stub: on each
// created record two human-facing notifications are described, one to the
// team channel, one to the initiator. No real delivery happens; a structured
// log line per notification is the contract.
package notify

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/workflowlive/request-tracker/internal/api/metrics"
	"github.com/workflowlive/request-tracker/internal/core/domain"
)

const channelBuffer = 64

// Notifier drains created records off the submission hot path through a
// buffered channel and a single worker goroutine.
type Notifier struct {
	ch  chan *domain.Record
	log zerolog.Logger
}

func NewNotifier(log zerolog.Logger) *Notifier {
	return &Notifier{
		ch:  make(chan *domain.Record, channelBuffer),
		log: log,
	}
}

// Start launches the worker goroutine. The worker stops when ctx is cancelled.
func (n *Notifier) Start(ctx context.Context) {
	go n.run(ctx)
}

// RecordCreated enqueues the notification stubs for a created record. The
// call never blocks: when the buffer is full the notifications are dropped
// with a warning, since they carry no durability guarantee.
func (n *Notifier) RecordCreated(rec *domain.Record) {
	select {
	case n.ch <- rec:
	default:
		n.log.Warn().Str("record_id", rec.ID).Msg("notification buffer full, dropping")
	}
}

func (n *Notifier) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case rec, ok := <-n.ch:
			if !ok {
				return
			}
			n.emit(rec)
		}
	}
}

func (n *Notifier) emit(rec *domain.Record) {
	metrics.NotificationsQueuedTotal.WithLabelValues("team").Inc()
	n.log.Info().
		Str("channel", "team").
		Str("record_id", rec.ID).
		Msgf("notification: new record %q submitted by %s", rec.Name, rec.InitiatorName)

	metrics.NotificationsQueuedTotal.WithLabelValues("initiator").Inc()
	n.log.Info().
		Str("channel", "initiator").
		Str("record_id", rec.ID).
		Msgf("notification: thanks %s, your request for %q was received, tracking id %s", rec.InitiatorName, rec.Product, rec.ID)
}
