package journals

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/fmc-saas/fleet/internal/accounting/shared"
	internalShared "github.com/fmc-saas/fleet/internal/shared"
)

type memoryJournalRepo struct {
	entries    map[int64]JournalEntry
	lines      map[int64][]JournalLine
	links      map[string]int64
	nextID     int64
	nextNumber int64

	failLines bool
	failLink  bool
}

func newMemoryJournalRepo() *memoryJournalRepo {
	return &memoryJournalRepo{
		entries: make(map[int64]JournalEntry),
		lines:   make(map[int64][]JournalLine),
		links:   make(map[string]int64),
	}
}

func (r *memoryJournalRepo) snapshot() *memoryJournalRepo {
	clone := newMemoryJournalRepo()
	clone.nextID = r.nextID
	clone.nextNumber = r.nextNumber
	for id, e := range r.entries {
		clone.entries[id] = e
	}
	for id, ls := range r.lines {
		clone.lines[id] = append([]JournalLine(nil), ls...)
	}
	for k, v := range r.links {
		clone.links[k] = v
	}
	return clone
}

func (r *memoryJournalRepo) restore(snap *memoryJournalRepo) {
	r.entries = snap.entries
	r.lines = snap.lines
	r.links = snap.links
	r.nextID = snap.nextID
	r.nextNumber = snap.nextNumber
}

func (r *memoryJournalRepo) List(ctx context.Context) ([]JournalEntry, error) {
	out := make([]JournalEntry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	return out, nil
}

func (r *memoryJournalRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	snap := r.snapshot()
	if err := fn(ctx, &memoryJournalTx{repo: r}); err != nil {
		r.restore(snap)
		return err
	}
	return nil
}

type memoryJournalTx struct {
	repo *memoryJournalRepo
}

func (t *memoryJournalTx) InsertJournalEntry(ctx context.Context, in PostingInput) (JournalEntry, error) {
	t.repo.nextID++
	t.repo.nextNumber++
	entry := JournalEntry{
		ID:           t.repo.nextID,
		Number:       t.repo.nextNumber,
		Date:         in.Date,
		SourceModule: in.SourceModule,
		SourceID:     in.SourceID,
		Memo:         in.Memo,
		PostedBy:     in.PostedBy,
		PostedAt:     time.Now(),
		Status:       JournalStatusPosted,
	}
	t.repo.entries[entry.ID] = entry
	return entry, nil
}

func (t *memoryJournalTx) InsertJournalLines(ctx context.Context, entryID int64, lines []PostingLineInput) error {
	if t.repo.failLines {
		return errors.New("insert lines failed")
	}
	for _, in := range lines {
		t.repo.lines[entryID] = append(t.repo.lines[entryID], JournalLine{
			JournalID: entryID,
			AccountID: in.AccountID,
			Side:      in.Side,
			Amount:    in.Amount,
			Memo:      in.Memo,
		})
	}
	return nil
}

func (t *memoryJournalTx) LinkSource(ctx context.Context, module string, ref uuid.UUID, entryID int64) error {
	if t.repo.failLink {
		return errors.New("link failed")
	}
	key := module + ":" + ref.String()
	if _, exists := t.repo.links[key]; exists {
		return shared.ErrSourceConflict
	}
	t.repo.links[key] = entryID
	return nil
}

func (t *memoryJournalTx) GetJournalWithLines(ctx context.Context, entryID int64) (JournalEntry, []JournalLine, error) {
	entry, ok := t.repo.entries[entryID]
	if !ok {
		return JournalEntry{}, nil, shared.ErrJournalNotFound
	}
	return entry, append([]JournalLine(nil), t.repo.lines[entryID]...), nil
}

func (t *memoryJournalTx) UpdateJournalStatus(ctx context.Context, entryID int64, status JournalStatus) error {
	entry, ok := t.repo.entries[entryID]
	if !ok {
		return shared.ErrJournalNotFound
	}
	entry.Status = status
	t.repo.entries[entryID] = entry
	return nil
}

type recordingAudit struct {
	logs []internalShared.AuditLog
}

func (a *recordingAudit) Record(ctx context.Context, log internalShared.AuditLog) error {
	a.logs = append(a.logs, log)
	return nil
}

func TestPostJournalCreatesBalancedEntry(t *testing.T) {
	repo := newMemoryJournalRepo()
	audit := &recordingAudit{}
	svc := NewService(repo, audit)

	entry, err := svc.PostJournal(context.Background(), validPostingInput())
	require.NoError(t, err)
	require.Equal(t, JournalStatusPosted, entry.Status)
	require.Equal(t, int64(1), entry.Number)
	require.Len(t, entry.Lines, 2)
	require.Len(t, repo.lines[entry.ID], 2)
	require.Len(t, repo.links, 1)
	require.Len(t, audit.logs, 1)
	require.Equal(t, internalShared.ActionJournalPost, audit.logs[0].Action)
	require.Equal(t, internalShared.EntityJournalEntry, audit.logs[0].Entity)
}

func TestPostJournalRejectsUnbalancedInput(t *testing.T) {
	repo := newMemoryJournalRepo()
	svc := NewService(repo, nil)

	in := validPostingInput()
	in.Lines[0].Amount = decimal.RequireFromString("1.00")
	_, err := svc.PostJournal(context.Background(), in)
	require.ErrorIs(t, err, shared.ErrUnbalanced)
	require.Empty(t, repo.entries)
}

func TestPostJournalRollsBackOnLineFailure(t *testing.T) {
	repo := newMemoryJournalRepo()
	repo.failLines = true
	svc := NewService(repo, nil)

	_, err := svc.PostJournal(context.Background(), validPostingInput())
	require.Error(t, err)
	require.Empty(t, repo.entries)
	require.Empty(t, repo.lines)
	require.Empty(t, repo.links)
}

func TestPostJournalRejectsSecondPostForSameSource(t *testing.T) {
	repo := newMemoryJournalRepo()
	svc := NewService(repo, nil)

	in := validPostingInput()
	_, err := svc.PostJournal(context.Background(), in)
	require.NoError(t, err)

	_, err = svc.PostJournal(context.Background(), in)
	require.ErrorIs(t, err, shared.ErrSourceAlreadyLinked)
	require.Len(t, repo.entries, 1)
}

func TestVoidJournal(t *testing.T) {
	repo := newMemoryJournalRepo()
	audit := &recordingAudit{}
	svc := NewService(repo, audit)

	entry, err := svc.PostJournal(context.Background(), validPostingInput())
	require.NoError(t, err)

	voided, err := svc.VoidJournal(context.Background(), VoidInput{EntryID: entry.ID, ActorID: 7, Reason: "posted twice"})
	require.NoError(t, err)
	require.Equal(t, JournalStatusVoid, voided.Status)

	_, err = svc.VoidJournal(context.Background(), VoidInput{EntryID: entry.ID, ActorID: 7})
	require.ErrorIs(t, err, shared.ErrInvalidStatus)
}

func TestVoidJournalUnknownEntry(t *testing.T) {
	repo := newMemoryJournalRepo()
	svc := NewService(repo, nil)

	_, err := svc.VoidJournal(context.Background(), VoidInput{EntryID: 99, ActorID: 1})
	require.ErrorIs(t, err, shared.ErrJournalNotFound)
}
