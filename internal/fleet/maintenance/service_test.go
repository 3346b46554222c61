package maintenance

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/fmc-saas/fleet/internal/accounting/accounts"
	"github.com/fmc-saas/fleet/internal/accounting/journals"
	"github.com/fmc-saas/fleet/internal/accounting/refs"
	accshared "github.com/fmc-saas/fleet/internal/accounting/shared"
	"github.com/fmc-saas/fleet/internal/fleet/vehicles"
	"github.com/fmc-saas/fleet/internal/platform/httpx"
	internalShared "github.com/fmc-saas/fleet/internal/shared"
)

type journalState struct {
	entries map[int64]journals.JournalEntry
	lines   map[int64][]journals.JournalLine
	links   map[string]int64
	nextID  int64

	failLines bool
}

func newJournalState() *journalState {
	return &journalState{
		entries: make(map[int64]journals.JournalEntry),
		lines:   make(map[int64][]journals.JournalLine),
		links:   make(map[string]int64),
	}
}

type journalTx struct {
	state *journalState
}

func (t *journalTx) InsertJournalEntry(ctx context.Context, in journals.PostingInput) (journals.JournalEntry, error) {
	t.state.nextID++
	entry := journals.JournalEntry{
		ID:           t.state.nextID,
		Number:       t.state.nextID,
		Date:         in.Date,
		SourceModule: in.SourceModule,
		SourceID:     in.SourceID,
		Memo:         in.Memo,
		PostedBy:     in.PostedBy,
		Status:       journals.JournalStatusPosted,
	}
	t.state.entries[entry.ID] = entry
	return entry, nil
}

func (t *journalTx) InsertJournalLines(ctx context.Context, entryID int64, lines []journals.PostingLineInput) error {
	if t.state.failLines {
		return errors.New("insert lines failed")
	}
	for _, in := range lines {
		t.state.lines[entryID] = append(t.state.lines[entryID], journals.JournalLine{
			JournalID: entryID,
			AccountID: in.AccountID,
			Side:      in.Side,
			Amount:    in.Amount,
			Memo:      in.Memo,
		})
	}
	return nil
}

func (t *journalTx) LinkSource(ctx context.Context, module string, ref uuid.UUID, entryID int64) error {
	key := module + ":" + ref.String()
	if _, exists := t.state.links[key]; exists {
		return accshared.ErrSourceConflict
	}
	t.state.links[key] = entryID
	return nil
}

func (t *journalTx) GetJournalWithLines(ctx context.Context, entryID int64) (journals.JournalEntry, []journals.JournalLine, error) {
	entry, ok := t.state.entries[entryID]
	if !ok {
		return journals.JournalEntry{}, nil, accshared.ErrJournalNotFound
	}
	return entry, t.state.lines[entryID], nil
}

func (t *journalTx) UpdateJournalStatus(ctx context.Context, entryID int64, status journals.JournalStatus) error {
	entry, ok := t.state.entries[entryID]
	if !ok {
		return accshared.ErrJournalNotFound
	}
	entry.Status = status
	t.state.entries[entryID] = entry
	return nil
}

type memoryMaintRepo struct {
	logs     map[int64]MaintenanceLog
	vehicles map[int64]*vehicles.Vehicle
	journal  *journalState
	nextID   int64
}

func newMemoryMaintRepo(journal *journalState) *memoryMaintRepo {
	return &memoryMaintRepo{
		logs:     make(map[int64]MaintenanceLog),
		vehicles: make(map[int64]*vehicles.Vehicle),
		journal:  journal,
	}
}

func (r *memoryMaintRepo) Get(ctx context.Context, id int64) (*MaintenanceLog, error) {
	log, ok := r.logs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &log, nil
}

func (r *memoryMaintRepo) ListByVehicle(ctx context.Context, req ListMaintenanceRequest) ([]MaintenanceLog, error) {
	var out []MaintenanceLog
	for _, log := range r.logs {
		if log.VehicleID == req.VehicleID {
			out = append(out, log)
		}
	}
	return out, nil
}

func (r *memoryMaintRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	logsSnap := make(map[int64]MaintenanceLog, len(r.logs))
	for id, log := range r.logs {
		logsSnap[id] = log
	}
	mileageSnap := make(map[int64]int64, len(r.vehicles))
	for id, v := range r.vehicles {
		mileageSnap[id] = v.Mileage
	}
	journalSnap := newJournalState()
	journalSnap.nextID = r.journal.nextID
	for id, e := range r.journal.entries {
		journalSnap.entries[id] = e
	}
	for id, ls := range r.journal.lines {
		journalSnap.lines[id] = append([]journals.JournalLine(nil), ls...)
	}
	for k, v := range r.journal.links {
		journalSnap.links[k] = v
	}

	if err := fn(ctx, &memoryMaintTx{repo: r}); err != nil {
		r.logs = logsSnap
		for id, m := range mileageSnap {
			r.vehicles[id].Mileage = m
		}
		journalSnap.failLines = r.journal.failLines
		*r.journal = *journalSnap
		return err
	}
	return nil
}

type memoryMaintTx struct {
	repo *memoryMaintRepo
}

func (t *memoryMaintTx) InsertLog(ctx context.Context, log MaintenanceLog) (int64, error) {
	t.repo.nextID++
	log.ID = t.repo.nextID
	t.repo.logs[log.ID] = log
	return log.ID, nil
}

func (t *memoryMaintTx) SetJournal(ctx context.Context, logID, journalEntryID int64) error {
	log, ok := t.repo.logs[logID]
	if !ok {
		return ErrNotFound
	}
	log.JournalEntryID = journalEntryID
	t.repo.logs[logID] = log
	return nil
}

func (t *memoryMaintTx) AdvanceVehicleMileage(ctx context.Context, vehicleID, reading int64) (bool, error) {
	vehicle, ok := t.repo.vehicles[vehicleID]
	if !ok {
		return false, errors.New("vehicle missing")
	}
	if vehicle.Mileage >= reading {
		return false, nil
	}
	vehicle.Mileage = reading
	return true, nil
}

func (t *memoryMaintTx) Journals() journals.TxRepository {
	return &journalTx{state: t.repo.journal}
}

type accountDir struct {
	accounts []accounts.Account
}

func (d *accountDir) find(match func(accounts.Account) bool) (accounts.Account, error) {
	for _, a := range d.accounts {
		if match(a) {
			if !a.IsActive {
				return accounts.Account{}, accshared.ErrAccountInactive
			}
			return a, nil
		}
	}
	return accounts.Account{}, accshared.ErrAccountNotFound
}

func (d *accountDir) ActiveByID(ctx context.Context, id int64) (accounts.Account, error) {
	return d.find(func(a accounts.Account) bool { return a.ID == id })
}

func (d *accountDir) ActiveByName(ctx context.Context, name string) (accounts.Account, error) {
	return d.find(func(a accounts.Account) bool { return a.Name == name })
}

func (d *accountDir) ActiveByCode(ctx context.Context, code string) (accounts.Account, error) {
	return d.find(func(a accounts.Account) bool { return a.Code == code })
}

type vehicleDir struct {
	repo *memoryMaintRepo
}

func (d *vehicleDir) GetActive(ctx context.Context, id int64) (*vehicles.Vehicle, error) {
	vehicle, ok := d.repo.vehicles[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	if !vehicle.IsActive {
		return nil, httpx.ErrValidation
	}
	return vehicle, nil
}

type maintFixture struct {
	svc     *Service
	repo    *memoryMaintRepo
	journal *journalState
	dir     *accountDir
	logs    *bytes.Buffer
}

func newMaintFixture(t *testing.T) *maintFixture {
	t.Helper()
	journal := newJournalState()
	repo := newMemoryMaintRepo(journal)
	repo.vehicles[1] = &vehicles.Vehicle{ID: 1, PlateNo: "B 1234 XYZ", Mileage: 42000, IsActive: true}
	repo.vehicles[2] = &vehicles.Vehicle{ID: 2, PlateNo: "B 9999 OLD", Mileage: 180000, IsActive: false}

	dir := &accountDir{accounts: []accounts.Account{
		{ID: 10, Code: "1010", Name: "Petty Cash", Type: accounts.AccountTypeAsset, Kind: accounts.AccountKindPettyCash, IsActive: true},
		{ID: 11, Code: "1020", Name: "Main Bank", Type: accounts.AccountTypeAsset, Kind: accounts.AccountKindBank, IsActive: true},
		{ID: 12, Code: "1030", Name: "Closed Drawer", Type: accounts.AccountTypeAsset, Kind: accounts.AccountKindCash, IsActive: false},
		{ID: 50, Code: "5200", Name: "Vehicle Maintenance Expense", Type: accounts.AccountTypeExpense, IsActive: true},
	}}

	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(logs, nil))
	resolver := refs.NewResolver(refs.Refs{
		MaintenanceExpenseAccount: "Vehicle Maintenance Expense",
		ReceivableAccountCode:     "1120",
		RentalIncomeAccount:       "Vehicle Rental Income",
	}, dir, logger)

	poster := journals.NewService(nil, nil)
	svc := NewService(repo, poster, dir, resolver, &vehicleDir{repo: repo}, logger)
	return &maintFixture{svc: svc, repo: repo, journal: journal, dir: dir, logs: logs}
}

func maintRequest() CreateMaintenanceRequest {
	reading := int64(42500)
	return CreateMaintenanceRequest{
		VehicleID:        1,
		Date:             time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
		Description:      "Oil and filter change",
		Cost:             decimal.RequireFromString("5000.00"),
		OdometerReading:  &reading,
		PaymentAccountID: 10,
	}
}

func TestCreateMaintenancePostsExpense(t *testing.T) {
	f := newMaintFixture(t)

	log, err := f.svc.Create(context.Background(), maintRequest(), 7)
	require.NoError(t, err)
	require.NotZero(t, log.ID)
	require.NotZero(t, log.JournalEntryID)

	lines := f.journal.lines[log.JournalEntryID]
	require.Len(t, lines, 2)
	require.Equal(t, int64(50), lines[0].AccountID)
	require.Equal(t, journals.SideDebit, lines[0].Side)
	require.Equal(t, int64(10), lines[1].AccountID)
	require.Equal(t, journals.SideCredit, lines[1].Side)
	require.True(t, lines[0].Amount.Equal(decimal.RequireFromString("5000.00")))
	require.True(t, lines[1].Amount.Equal(lines[0].Amount))

	entry := f.journal.entries[log.JournalEntryID]
	require.Equal(t, SourceModule, entry.SourceModule)
	require.Equal(t, log.SourceID, entry.SourceID)
	require.Contains(t, entry.Memo, "B 1234 XYZ")
	require.Contains(t, entry.Memo, "5,000.00")
	require.Contains(t, entry.Memo, "Petty Cash")
}

func TestCreateMaintenanceAdvancesMileage(t *testing.T) {
	f := newMaintFixture(t)

	_, err := f.svc.Create(context.Background(), maintRequest(), 7)
	require.NoError(t, err)
	require.Equal(t, int64(42500), f.repo.vehicles[1].Mileage)
}

func TestCreateMaintenanceNeverRewindsMileage(t *testing.T) {
	f := newMaintFixture(t)

	req := maintRequest()
	stale := int64(30000)
	req.OdometerReading = &stale
	_, err := f.svc.Create(context.Background(), req, 7)
	require.NoError(t, err)
	require.Equal(t, int64(42000), f.repo.vehicles[1].Mileage)
}

func TestCreateMaintenanceWithoutOdometerKeepsMileage(t *testing.T) {
	f := newMaintFixture(t)

	req := maintRequest()
	req.OdometerReading = nil
	_, err := f.svc.Create(context.Background(), req, 7)
	require.NoError(t, err)
	require.Equal(t, int64(42000), f.repo.vehicles[1].Mileage)
}

func TestCreateMaintenanceRejectsNonPositiveCost(t *testing.T) {
	f := newMaintFixture(t)

	req := maintRequest()
	req.Cost = decimal.Zero
	_, err := f.svc.Create(context.Background(), req, 7)
	require.ErrorIs(t, err, httpx.ErrValidation)
	require.Empty(t, f.repo.logs)
	require.Contains(t, f.logs.String(), "maintenance request rejected")
	require.Contains(t, f.logs.String(), "actor=7")
}

func TestCreateMaintenanceRejectsRetiredVehicle(t *testing.T) {
	f := newMaintFixture(t)

	req := maintRequest()
	req.VehicleID = 2
	_, err := f.svc.Create(context.Background(), req, 7)
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestCreateMaintenanceUnknownPaymentAccount(t *testing.T) {
	f := newMaintFixture(t)

	req := maintRequest()
	req.PaymentAccountID = 404
	_, err := f.svc.Create(context.Background(), req, 7)
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestCreateMaintenanceInactivePaymentAccount(t *testing.T) {
	f := newMaintFixture(t)

	req := maintRequest()
	req.PaymentAccountID = 12
	_, err := f.svc.Create(context.Background(), req, 7)
	require.ErrorIs(t, err, httpx.ErrValidation)
	require.Contains(t, f.logs.String(), "payment account inactive")
	require.Contains(t, f.logs.String(), "actor=7")
}

func TestCreateMaintenanceMissingExpenseAccountIsConfigurationFault(t *testing.T) {
	f := newMaintFixture(t)
	kept := f.dir.accounts[:0]
	for _, a := range f.dir.accounts {
		if a.Name != "Vehicle Maintenance Expense" {
			kept = append(kept, a)
		}
	}
	f.dir.accounts = kept

	ctx := internalShared.ContextWithActor(context.Background(), &internalShared.Actor{ID: 7})
	_, err := f.svc.Create(ctx, maintRequest(), 7)
	require.ErrorIs(t, err, httpx.ErrConfiguration)
	require.ErrorIs(t, err, accshared.ErrRefNotConfigured)
	require.Empty(t, f.repo.logs)
	require.Contains(t, f.logs.String(), "chart of accounts reference unresolved")
	require.Contains(t, f.logs.String(), "actor=7")
}

func TestCreateMaintenanceRollsBackOnPostingFailure(t *testing.T) {
	f := newMaintFixture(t)
	f.journal.failLines = true

	_, err := f.svc.Create(context.Background(), maintRequest(), 7)
	require.Error(t, err)
	require.Empty(t, f.repo.logs, "log insert must roll back with the posting")
	require.Empty(t, f.journal.entries)
	require.Equal(t, int64(42000), f.repo.vehicles[1].Mileage)
}

func TestGetMaintenanceNotFound(t *testing.T) {
	f := newMaintFixture(t)

	_, err := f.svc.Get(context.Background(), 99)
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestListByVehicle(t *testing.T) {
	f := newMaintFixture(t)

	_, err := f.svc.Create(context.Background(), maintRequest(), 7)
	require.NoError(t, err)

	logs, err := f.svc.ListByVehicle(context.Background(), ListMaintenanceRequest{VehicleID: 1})
	require.NoError(t, err)
	require.Len(t, logs, 1)
}
