package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"garantia-backend/internal/domain/guarantee"
	"garantia-backend/internal/testutil/guaranteemock"
	"garantia-backend/internal/usecase/transition"
)

type engineMock struct {
	MarkExpiredFn func(ctx context.Context, guaranteeID string, actor guarantee.Actor) (*transition.Result, error)
}

func (m *engineMock) MarkExpired(ctx context.Context, guaranteeID string, actor guarantee.Actor) (*transition.Result, error) {
	return m.MarkExpiredFn(ctx, guaranteeID, actor)
}

func TestSweepExpired(t *testing.T) {
	repo := &guaranteemock.Repo{
		ListExpirableFn: func(ctx context.Context, asOf time.Time, limit int) ([]guarantee.Guarantee, error) {
			return []guarantee.Guarantee{
				{GuaranteeID: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", State: guarantee.StateActive},
				{GuaranteeID: "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", State: guarantee.StateActive},
			}, nil
		},
	}

	var expired []string
	eng := &engineMock{
		MarkExpiredFn: func(ctx context.Context, id string, actor guarantee.Actor) (*transition.Result, error) {
			if actor != guarantee.SystemActor {
				t.Fatalf("sweep must act as the system actor, got %+v", actor)
			}
			expired = append(expired, id)
			return &transition.Result{GuaranteeID: id, State: guarantee.StateExpired}, nil
		},
	}

	New(repo, eng, "@hourly").SweepExpired()

	if len(expired) != 2 {
		t.Fatalf("expired %d guarantees, want 2", len(expired))
	}
}

func TestSweepExpired_ToleratesRaces(t *testing.T) {
	repo := &guaranteemock.Repo{
		ListExpirableFn: func(ctx context.Context, asOf time.Time, limit int) ([]guarantee.Guarantee, error) {
			return []guarantee.Guarantee{
				{GuaranteeID: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"},
				{GuaranteeID: "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"},
				{GuaranteeID: "cccccccccccccccccccccccccccccccc"},
			}, nil
		},
	}

	calls := 0
	eng := &engineMock{
		MarkExpiredFn: func(ctx context.Context, id string, actor guarantee.Actor) (*transition.Result, error) {
			calls++
			switch calls {
			case 1:
				return nil, guarantee.ErrConcurrentModification
			case 2:
				return nil, &guarantee.InvalidTransitionError{From: guarantee.StateCancelled, Transition: guarantee.TransitionMarkExpired}
			default:
				return &transition.Result{GuaranteeID: id, State: guarantee.StateExpired}, nil
			}
		},
	}

	// Races with human actors are benign; the sweep must keep going.
	New(repo, eng, "@hourly").SweepExpired()

	if calls != 3 {
		t.Errorf("sweep stopped early: %d of 3 candidates attempted", calls)
	}
}

func TestSweepExpired_ListFailure(t *testing.T) {
	repo := &guaranteemock.Repo{
		ListExpirableFn: func(ctx context.Context, asOf time.Time, limit int) ([]guarantee.Guarantee, error) {
			return nil, errors.New("db gone")
		},
	}
	eng := &engineMock{
		MarkExpiredFn: func(ctx context.Context, id string, actor guarantee.Actor) (*transition.Result, error) {
			t.Fatal("no expiry attempted when listing fails")
			return nil, nil
		},
	}
	New(repo, eng, "@hourly").SweepExpired()
}

func TestScheduler_StartRejectsBadSpec(t *testing.T) {
	s := New(&guaranteemock.Repo{}, &engineMock{}, "not a cron spec")
	if err := s.Start(); err == nil {
		t.Fatal("expected an error for an invalid cron spec")
	}
}

func TestScheduler_StartStop(t *testing.T) {
	s := New(&guaranteemock.Repo{
		ListExpirableFn: func(ctx context.Context, asOf time.Time, limit int) ([]guarantee.Guarantee, error) {
			return nil, nil
		},
	}, &engineMock{}, "@hourly")
	if err := s.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Stop()
}
