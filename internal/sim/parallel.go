package sim

import (
	"context"
	"sync"

	"github.com/san-kum/boxsim/internal/world"
)

// Ensemble runs independent worlds concurrently, one goroutine each. Worlds
// share nothing, so no locking is needed.
type Ensemble struct {
	worlds  []*world.World
	metrics func() []Metric
}

// NewEnsemble takes a metrics factory because metrics are stateful and must
// not be shared between goroutines.
func NewEnsemble(worlds []*world.World, metrics func() []Metric) *Ensemble {
	return &Ensemble{worlds: worlds, metrics: metrics}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, len(e.worlds))
	errs := make([]error, len(e.worlds))

	var wg sync.WaitGroup
	for i, w := range e.worlds {
		wg.Add(1)
		go func(idx int, w *world.World) {
			defer wg.Done()

			s := New(w)
			if e.metrics != nil {
				for _, m := range e.metrics() {
					s.AddMetric(m)
				}
			}

			results[idx], errs[idx] = s.Run(ctx, cfg)
		}(i, w)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
