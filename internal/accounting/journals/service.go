package journals

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fmc-saas/fleet/internal/accounting/shared"
	internalShared "github.com/fmc-saas/fleet/internal/shared"
)

type AuditPort interface {
	Record(ctx context.Context, log internalShared.AuditLog) error
}

type Service struct {
	repo  Repository
	audit AuditPort
	now   func() time.Time
}

func NewService(repo Repository, audit AuditPort) *Service {
	return &Service{repo: repo, audit: audit, now: time.Now}
}

func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

func (s *Service) List(ctx context.Context) ([]JournalEntry, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, entryID int64) (JournalEntry, error) {
	var entry JournalEntry
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		found, lines, err := tx.GetJournalWithLines(ctx, entryID)
		if err != nil {
			return err
		}
		found.Lines = lines
		entry = found
		return nil
	})
	if err != nil {
		return JournalEntry{}, err
	}
	return entry, nil
}

// PostWithin executes the posting rule inside a caller-owned transaction.
// The domain record insert, the journal entry, its lines, the source link
// and any denormalized updates all commit or roll back together; a failure
// at any step leaves no rows behind.
func (s *Service) PostWithin(ctx context.Context, tx TxRepository, input PostingInput) (JournalEntry, error) {
	if err := input.Validate(); err != nil {
		return JournalEntry{}, err
	}
	inserted, err := tx.InsertJournalEntry(ctx, input)
	if err != nil {
		return JournalEntry{}, err
	}
	if err := tx.InsertJournalLines(ctx, inserted.ID, input.Lines); err != nil {
		return JournalEntry{}, err
	}
	if err := tx.LinkSource(ctx, input.SourceModule, input.SourceID, inserted.ID); err != nil {
		if errors.Is(err, shared.ErrSourceConflict) {
			return JournalEntry{}, shared.ErrSourceAlreadyLinked
		}
		return JournalEntry{}, err
	}
	inserted.Lines = toJournalLines(inserted.ID, input.Lines, s.now())
	return inserted, nil
}

// PostJournal posts a standalone journal entry in its own transaction.
func (s *Service) PostJournal(ctx context.Context, input PostingInput) (JournalEntry, error) {
	if err := input.Validate(); err != nil {
		return JournalEntry{}, err
	}
	var entry JournalEntry
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		inserted, err := s.PostWithin(ctx, tx, input)
		if err != nil {
			return err
		}
		entry = inserted
		return nil
	})
	if err != nil {
		return JournalEntry{}, err
	}
	s.recordAudit(ctx, input.PostedBy, internalShared.ActionJournalPost, entry.ID, map[string]any{
		"number":        entry.Number,
		"source_module": input.SourceModule,
		"source_id":     input.SourceID.String(),
	})
	return entry, nil
}

func (s *Service) VoidJournal(ctx context.Context, input VoidInput) (JournalEntry, error) {
	if input.EntryID == 0 {
		return JournalEntry{}, errors.New("accounting: entry id required")
	}
	var entry JournalEntry
	var lines []JournalLine
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, currLines, err := tx.GetJournalWithLines(ctx, input.EntryID)
		if err != nil {
			return err
		}
		if current.Status != JournalStatusPosted {
			return shared.ErrInvalidStatus
		}
		if err := tx.UpdateJournalStatus(ctx, current.ID, JournalStatusVoid); err != nil {
			return err
		}
		entry = current
		entry.Status = JournalStatusVoid
		lines = currLines
		return nil
	})
	if err != nil {
		return JournalEntry{}, err
	}
	entry.Lines = lines
	s.recordAudit(ctx, input.ActorID, internalShared.ActionJournalVoid, entry.ID, map[string]any{
		"reason": input.Reason,
	})
	return entry, nil
}

// RecordPostAudit writes the posting audit trail; intended for callers of
// PostWithin once their transaction has committed.
func (s *Service) RecordPostAudit(ctx context.Context, actorID int64, entry JournalEntry) {
	s.recordAudit(ctx, actorID, internalShared.ActionJournalPost, entry.ID, map[string]any{
		"number":        entry.Number,
		"source_module": entry.SourceModule,
		"source_id":     entry.SourceID.String(),
	})
}

func (s *Service) recordAudit(ctx context.Context, actorID int64, action string, entryID int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, internalShared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   internalShared.EntityJournalEntry,
		EntityID: fmt.Sprintf("%d", entryID),
		Meta:     meta,
		At:       s.now(),
	})
}

func toJournalLines(entryID int64, lines []PostingLineInput, ts time.Time) []JournalLine {
	out := make([]JournalLine, 0, len(lines))
	for _, line := range lines {
		out = append(out, JournalLine{
			JournalID: entryID,
			AccountID: line.AccountID,
			Side:      line.Side,
			Amount:    line.Amount,
			Memo:      line.Memo,
			CreatedAt: ts,
		})
	}
	return out
}
