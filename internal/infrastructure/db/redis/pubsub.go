package redis

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/workflowlive/request-tracker/internal/core/domain"
	"github.com/workflowlive/request-tracker/internal/ws"
)

// fanoutChannel carries one message per successfully persisted record.
const fanoutChannel = "records:fanout"

// Relay bridges the fan-out channel across instances: Publish pushes the
// record through Redis pub/sub, and each instance's Run loop forwards
// received records to its local session hub. With a single instance the
// observable behavior is identical to an in-process broadcast.
type Relay struct {
	rdb *redis.Client
	hub *ws.Hub
	log zerolog.Logger
}

func NewRelay(rdb *redis.Client, hub *ws.Hub, log zerolog.Logger) *Relay {
	return &Relay{rdb: rdb, hub: hub, log: log}
}

// Publish sends the record to every instance's hub via Redis. Delivery stays
// best-effort: if Redis is unreachable the record is still broadcast to the
// local sessions and the failure is only logged.
func (r *Relay) Publish(ctx context.Context, rec *domain.Record) {
	payload, err := json.Marshal(rec)
	if err != nil {
		r.log.Error().Err(err).Str("record_id", rec.ID).Msg("failed to encode fan-out message")
		return
	}

	if err := r.rdb.Publish(ctx, fanoutChannel, payload).Err(); err != nil {
		r.log.Warn().Err(err).Str("record_id", rec.ID).Msg("redis publish failed, broadcasting locally")
		r.hub.Publish(ctx, rec)
	}
}

// Run subscribes to the fan-out channel and forwards each record to the
// local hub until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) {
	sub := r.rdb.Subscribe(ctx, fanoutChannel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var rec domain.Record
			if err := json.Unmarshal([]byte(msg.Payload), &rec); err != nil {
				r.log.Warn().Err(err).Msg("discarding malformed fan-out message")
				continue
			}
			r.hub.Publish(ctx, &rec)
		}
	}
}
