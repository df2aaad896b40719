package stats

import (
	"context"

	"github.com/verte-zerg/gazegrid/internal/model"
	"github.com/verte-zerg/gazegrid/internal/store"
)

// History contains precomputed data for stats rendering.
type History struct {
	Sessions []model.SessionAggregate
	// Rows and Cols are the layout of the most recent session. Segment
	// aggregates only cover sessions recorded with that layout.
	Rows     int
	Cols     int
	Segments []model.SegmentAggregate
	// Skipped counts sessions left out of Segments for a different layout.
	Skipped int
}

// BuildHistory loads and prepares data for stats rendering.
func BuildHistory(ctx context.Context, st *store.Store, cfg model.StatsConfig) (History, error) {
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return History{}, err
	}
	history := History{Sessions: sessions}
	if len(sessions) == 0 {
		return history, nil
	}
	latest := sessions[len(sessions)-1]
	history.Rows, history.Cols = latest.Rows, latest.Cols

	ids := make([]int64, 0, len(sessions))
	for _, s := range sessions {
		if s.Rows != latest.Rows || s.Cols != latest.Cols {
			history.Skipped++
			continue
		}
		ids = append(ids, s.SessionID)
	}
	history.Segments, err = st.ListSegmentAggregatesForSessions(ctx, ids)
	if err != nil {
		return History{}, err
	}
	return history, nil
}
