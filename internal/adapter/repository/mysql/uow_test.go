package mysql

import (
	"context"
	"errors"
	"testing"

	auditDomain "garantia-backend/internal/domain/audit"
	domain "garantia-backend/internal/domain/guarantee"
	"garantia-backend/internal/domain/uow"
	"garantia-backend/pkg/id"
)

func TestGormUoW_WithinTx_Commit(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	repo := NewGuaranteeRepository(db)
	audits := NewAuditRepository(db)

	gid := id.NewID32()
	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		g := makeGuarantee(gid, id.NewID32())
		if err := r.Guarantees.Create(ctx, g); err != nil {
			return err
		}
		if g.ID == 0 {
			t.Fatalf("guarantee auto ID not set")
		}
		return r.Audits.Append(ctx, &auditDomain.Entry{
			GuaranteeID: g.ID, Action: "submit", ActorID: "a", ActorRole: "agency", ToState: "submitted",
		})
	})
	if err != nil {
		t.Fatalf("WithinTx commit err: %v", err)
	}

	got, err := repo.GetByGuaranteeID(ctx, gid)
	if err != nil {
		t.Fatalf("guarantee not visible after commit: %v", err)
	}
	entries, err := audits.ListByGuaranteeID(ctx, got.ID)
	if err != nil || len(entries) != 1 {
		t.Fatalf("audit entry not visible after commit: %v (%d entries)", err, len(entries))
	}
}

func TestGormUoW_WithinTx_Rollback(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	repo := NewGuaranteeRepository(db)

	sentinel := errors.New("boom")
	gid := id.NewID32()

	_ = guow.WithinTx(ctx, func(r uow.Repos) error {
		g := makeGuarantee(gid, id.NewID32())
		if err := r.Guarantees.Create(ctx, g); err != nil {
			return err
		}
		if err := r.Audits.Append(ctx, &auditDomain.Entry{
			GuaranteeID: g.ID, Action: "submit", ActorID: "a", ActorRole: "agency", ToState: "submitted",
		}); err != nil {
			return err
		}
		return sentinel // force rollback
	})

	// Neither the aggregate nor its audit entry may exist after rollback.
	if _, err := repo.GetByGuaranteeID(ctx, gid); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found after rollback, got %v", err)
	}
	var count int64
	if err := db.Model(&auditEntrySQLite{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("audit entries survived rollback: %d", count)
	}
}

// A failed version check inside the transaction must leave no audit entry
// behind: the state write and the log write commit or roll back together.
func TestGormUoW_VersionConflictRollsBackAudit(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	repo := NewGuaranteeRepository(db)
	audits := NewAuditRepository(db)

	gid := id.NewID32()
	g := makeGuarantee(gid, id.NewID32())
	if err := repo.Create(ctx, g); err != nil {
		t.Fatalf("Create: %v", err)
	}

	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		loaded, err := r.Guarantees.GetByGuaranteeID(ctx, gid)
		if err != nil {
			return err
		}
		if err := r.Audits.Append(ctx, &auditDomain.Entry{
			GuaranteeID: loaded.ID, Action: "start_review", ActorID: "b", ActorRole: "analyst",
			FromState: "submitted", ToState: "under_review",
		}); err != nil {
			return err
		}
		loaded.State = domain.StateUnderReview
		loaded.Version = 2
		return r.Guarantees.SaveWithVersion(ctx, loaded, 99) // wrong expectation
	})
	if !errors.Is(err, domain.ErrConcurrentModification) {
		t.Fatalf("expected ErrConcurrentModification, got %v", err)
	}

	entries, err := audits.ListByGuaranteeID(ctx, g.ID)
	if err != nil {
		t.Fatalf("ListByGuaranteeID: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("audit entry survived a failed version check: %+v", entries)
	}
}
