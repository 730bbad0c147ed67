package store

import (
	"context"
	"encoding/json"
	"sync"

	xerrors "fittech-client/internal/pkg/errors"
	"fittech-client/internal/storage"

	"go.uber.org/zap"
)

// Generator hands out strictly increasing integer ids per named counter.
// All counters live in one blob under KeyCounters and every Next call is a
// read-modify-write of that blob. The mutex covers callers within this
// process only; two independent processes sharing the same storage can still
// mint the same id. That race is inherited from the system this store is
// compatible with and is deliberately left in place.
type Generator struct {
	mu      sync.Mutex
	st      storage.Storage
	key     string
	logger  *zap.Logger
}

func NewGenerator(st storage.Storage, logger *zap.Logger) *Generator {
	return &Generator{st: st, key: KeyCounters, logger: logger}
}

// Next increments the named counter and returns its new value. Unseen
// counters start at zero, so the first id of any entity type is 1.
func (g *Generator) Next(ctx context.Context, name string) (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	counters := g.load(ctx)
	counters[name]++
	next := counters[name]

	data, err := json.Marshal(counters)
	if err != nil {
		return 0, xerrors.Wrap(err, "failed to encode counters")
	}
	if err := g.st.Set(ctx, g.key, data); err != nil {
		return 0, xerrors.Wrap(xerrors.ErrStorage, err.Error())
	}
	return next, nil
}

func (g *Generator) load(ctx context.Context) map[string]int64 {
	counters := make(map[string]int64)
	data, err := g.st.Get(ctx, g.key)
	if err != nil {
		return counters
	}
	if err := json.Unmarshal(data, &counters); err != nil {
		g.logger.Warn("counters blob corrupt, resetting", zap.Error(err))
		return make(map[string]int64)
	}
	return counters
}
