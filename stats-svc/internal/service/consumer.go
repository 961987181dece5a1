package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"campus-canteen/logging"
	"campus-canteen/stats-svc/internal/domain"
	"campus-canteen/stats-svc/internal/metrics"
)

const fetchRetryDelay = time.Second

// Consumer folds the order-events stream into daily statistics. Offsets are
// committed only after the store has the event, so a crash replays it and the
// store's dedupe absorbs the repeat.
type Consumer struct {
	reader MessageReader
	store  StoreInterface
	loc    *time.Location
}

func NewConsumer(reader MessageReader, store StoreInterface, loc *time.Location) *Consumer {
	if loc == nil {
		loc = time.UTC
	}
	return &Consumer{reader: reader, store: store, loc: loc}
}

// Serve runs until ctx is cancelled. A store failure is returned so the
// supervisor restarts the loop from the last committed offset.
func (c *Consumer) Serve(ctx context.Context) error {
	logging.Info().Msg("stats consumer started")
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logging.Warn().Err(err).Msg("failed to fetch order event")
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(fetchRetryDelay):
			}
			continue
		}

		var evt domain.OrderEvent
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			metrics.EventsConsumed.WithLabelValues("malformed").Inc()
			logging.Warn().Err(err).Int64("offset", msg.Offset).Msg("skipping malformed order event")
		} else if err := c.Process(ctx, evt); err != nil {
			return err
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("commit offset %d: %w", msg.Offset, err)
		}
	}
}

// Process records a single event. Events that do not affect the counters are
// ignored.
func (c *Consumer) Process(ctx context.Context, evt domain.OrderEvent) error {
	if evt.OrderID == "" || evt.VendorID == "" || !domain.Counted(evt.Status) {
		metrics.EventsConsumed.WithLabelValues("ignored").Inc()
		logging.Debug().Str("order_id", evt.OrderID).Str("status", evt.Status).Msg("ignoring order event")
		return nil
	}
	ts := evt.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	day := ts.In(c.loc).Format(time.DateOnly)

	applied, err := c.store.Record(ctx, day, evt)
	if err != nil {
		metrics.EventsConsumed.WithLabelValues("error").Inc()
		return err
	}
	if !applied {
		metrics.EventsConsumed.WithLabelValues("duplicate").Inc()
		logging.Debug().Str("order_id", evt.OrderID).Str("status", evt.Status).Msg("duplicate order event")
		return nil
	}
	metrics.EventsConsumed.WithLabelValues("applied").Inc()
	return nil
}

func (c *Consumer) String() string { return "stats-consumer" }
