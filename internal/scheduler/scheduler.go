// Package scheduler drives the one wall-clock transition: expiring active
// guarantees whose lease term has elapsed. The sweep goes through the
// transition engine like every other caller; it holds no special write path.
package scheduler

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"garantia-backend/internal/domain/guarantee"
	"garantia-backend/internal/usecase/transition"
)

const sweepBatchSize = 200

// Engine is the slice of the transition usecase the sweep needs.
type Engine interface {
	MarkExpired(ctx context.Context, guaranteeID string, actor guarantee.Actor) (*transition.Result, error)
}

type Scheduler struct {
	cron   *cron.Cron
	repo   guarantee.Repository
	engine Engine
	spec   string
}

func New(repo guarantee.Repository, engine Engine, spec string) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		repo:   repo,
		engine: engine,
		spec:   spec,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.SweepExpired); err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("scheduler: expiry sweep registered (%s)", s.spec)
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// SweepExpired expires every active guarantee past its expiry. The engine's
// MarkExpired is idempotent, so a sweep racing a previous one (or a human
// cancellation) is harmless: already-terminal guarantees no-op, and a version
// race just means someone else already moved the aggregate.
func (s *Scheduler) SweepExpired() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	candidates, err := s.repo.ListExpirable(ctx, time.Now().UTC(), sweepBatchSize)
	if err != nil {
		log.Printf("scheduler: listing expirable guarantees: %v", err)
		return
	}

	expired := 0
	for _, g := range candidates {
		_, err := s.engine.MarkExpired(ctx, g.GuaranteeID, guarantee.SystemActor)
		switch {
		case err == nil:
			expired++
		case errors.Is(err, guarantee.ErrConcurrentModification),
			errors.Is(err, guarantee.ErrInvalidTransition):
			// lost a race with a human actor; next sweep will re-check
		default:
			log.Printf("scheduler: expiring guarantee %s: %v", g.GuaranteeID, err)
		}
	}
	if len(candidates) > 0 {
		log.Printf("scheduler: expiry sweep done, expired %d of %d", expired, len(candidates))
	}
}
