package forecast

import (
	"context"

	"github.com/rs/zerolog"
)

// Stage identifies a point in the recommendation pipeline.
type Stage string

const (
	StageFetched  Stage = "fetched"
	StageFiltered Stage = "filtered"
	StageMerged   Stage = "merged"
)

// StageEvent carries the row counts observed at a stage.
type StageEvent struct {
	Stage           Stage
	StoreID         string
	Inventory       int
	Forecasts       int
	Matched         int
	Products        int
	Candidates      int
	Recommendations int
}

// Tracer receives pipeline stage events.
type Tracer interface {
	Trace(ctx context.Context, ev StageEvent)
}

// NopTracer discards every event.
type NopTracer struct{}

func (NopTracer) Trace(context.Context, StageEvent) {}

// LogTracer writes stage events to a zerolog logger at debug level.
type LogTracer struct {
	log zerolog.Logger
}

func NewLogTracer(l zerolog.Logger) *LogTracer {
	return &LogTracer{log: l.With().Str("component", "recommendation").Logger()}
}

func (t *LogTracer) Trace(_ context.Context, ev StageEvent) {
	e := t.log.Debug().Str("stage", string(ev.Stage)).Str("store_id", ev.StoreID)
	switch ev.Stage {
	case StageFetched:
		e = e.Int("inventory", ev.Inventory).Int("forecasts", ev.Forecasts)
	case StageFiltered:
		e = e.Int("forecasts", ev.Forecasts).Int("matched", ev.Matched)
	case StageMerged:
		e = e.Int("products", ev.Products).
			Int("candidates", ev.Candidates).
			Int("recommendations", ev.Recommendations)
	}
	e.Msg("recommendation stage complete")
}
