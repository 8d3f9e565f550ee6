package stats

import (
	"context"

	"github.com/verte-zerg/keytrace/internal/model"
	"github.com/verte-zerg/keytrace/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Sessions    []model.SessionAggregate
	MissedWords []model.WordCount
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}

	missed, err := st.ListMissedWords(ctx, sessionIDs(sessions))
	if err != nil {
		return Report{}, err
	}
	SortWordCounts(missed)
	if cfg.TopWords > 0 && len(missed) > cfg.TopWords {
		missed = missed[:cfg.TopWords]
	}

	return Report{
		Sessions:    sessions,
		MissedWords: missed,
	}, nil
}

func sessionIDs(sessions []model.SessionAggregate) []string {
	ids := make([]string, len(sessions))
	for i, s := range sessions {
		ids[i] = s.SessionID
	}
	return ids
}
