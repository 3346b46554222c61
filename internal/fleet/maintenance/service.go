package maintenance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/fmc-saas/fleet/internal/accounting/accounts"
	"github.com/fmc-saas/fleet/internal/accounting/journals"
	accshared "github.com/fmc-saas/fleet/internal/accounting/shared"
	"github.com/fmc-saas/fleet/internal/fleet/vehicles"
	"github.com/fmc-saas/fleet/internal/platform/httpx"
)

// Poster is the journal posting surface, satisfied by *journals.Service.
type Poster interface {
	PostWithin(ctx context.Context, tx journals.TxRepository, input journals.PostingInput) (journals.JournalEntry, error)
	RecordPostAudit(ctx context.Context, actorID int64, entry journals.JournalEntry)
}

// AccountDirectory resolves the payment account the user picked.
type AccountDirectory interface {
	ActiveByID(ctx context.Context, id int64) (accounts.Account, error)
}

// ExpenseResolver resolves the configured maintenance expense account.
type ExpenseResolver interface {
	MaintenanceExpense(ctx context.Context) (accounts.Account, error)
}

// VehicleDirectory resolves the vehicle the log belongs to.
type VehicleDirectory interface {
	GetActive(ctx context.Context, id int64) (*vehicles.Vehicle, error)
}

type Service struct {
	repo     Repository
	poster   Poster
	dir      AccountDirectory
	resolver ExpenseResolver
	fleet    VehicleDirectory
	logger   *slog.Logger
	printer  *message.Printer
}

func NewService(repo Repository, poster Poster, dir AccountDirectory, resolver ExpenseResolver, fleet VehicleDirectory, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		poster:   poster,
		dir:      dir,
		resolver: resolver,
		fleet:    fleet,
		logger:   logger,
		printer:  message.NewPrinter(language.English),
	}
}

// Create saves a maintenance log and posts its expense: debit the
// maintenance expense account, credit the payment account, both for the
// cost. The log insert, journal entry, lines, source link and mileage
// ratchet share one transaction; any failure rolls everything back.
func (s *Service) Create(ctx context.Context, req CreateMaintenanceRequest, actorID int64) (*MaintenanceLog, error) {
	if !req.Cost.IsPositive() {
		return nil, s.reject(actorID, "non-positive cost", fmt.Errorf("%w: maintenance cost must be positive", httpx.ErrValidation))
	}

	vehicle, err := s.fleet.GetActive(ctx, req.VehicleID)
	if err != nil {
		return nil, s.reject(actorID, "vehicle unavailable", err)
	}

	payment, err := s.dir.ActiveByID(ctx, req.PaymentAccountID)
	if err != nil {
		switch {
		case errors.Is(err, accshared.ErrAccountNotFound):
			return nil, s.reject(actorID, "payment account unknown", fmt.Errorf("%w: payment account %d", httpx.ErrNotFound, req.PaymentAccountID))
		case errors.Is(err, accshared.ErrAccountInactive):
			return nil, s.reject(actorID, "payment account inactive", fmt.Errorf("%w: payment account is inactive", httpx.ErrValidation))
		}
		return nil, err
	}

	expense, err := s.resolver.MaintenanceExpense(ctx)
	if err != nil {
		return nil, err
	}

	cost, _ := req.Cost.Float64()
	log := MaintenanceLog{
		SourceID:         uuid.New(),
		VehicleID:        vehicle.ID,
		Date:             req.Date,
		Description:      req.Description,
		Cost:             req.Cost,
		OdometerReading:  req.OdometerReading,
		PaymentAccountID: payment.ID,
		CreatedBy:        actorID,
	}

	var entry journals.JournalEntry
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		logID, err := tx.InsertLog(ctx, log)
		if err != nil {
			return err
		}
		log.ID = logID

		entry, err = s.poster.PostWithin(ctx, tx.Journals(), journals.PostingInput{
			Date:         req.Date,
			SourceModule: SourceModule,
			SourceID:     log.SourceID,
			Memo:         s.printer.Sprintf("Maintenance for vehicle %s: %.2f paid from %s", vehicle.PlateNo, cost, payment.Name),
			PostedBy:     actorID,
			Lines: []journals.PostingLineInput{
				{
					AccountID: expense.ID,
					Side:      journals.SideDebit,
					Amount:    req.Cost,
					Memo:      s.printer.Sprintf("Maintenance expense, vehicle %s", vehicle.PlateNo),
				},
				{
					AccountID: payment.ID,
					Side:      journals.SideCredit,
					Amount:    req.Cost,
					Memo:      s.printer.Sprintf("Paid from %s", payment.Name),
				},
			},
		})
		if err != nil {
			return err
		}
		if err := tx.SetJournal(ctx, logID, entry.ID); err != nil {
			return err
		}

		if req.OdometerReading != nil {
			advanced, err := tx.AdvanceVehicleMileage(ctx, vehicle.ID, *req.OdometerReading)
			if err != nil {
				return err
			}
			if advanced && s.logger != nil {
				s.logger.Info("vehicle mileage advanced",
					slog.String("plate", vehicle.PlateNo),
					slog.Int64("reading", *req.OdometerReading))
			}
		}
		return nil
	})
	if err != nil {
		if s.logger != nil {
			s.logger.Error("maintenance posting failed",
				slog.Any("error", err),
				slog.Int64("vehicle_id", req.VehicleID),
				slog.Int64("actor", actorID))
		}
		return nil, err
	}

	log.JournalEntryID = entry.ID
	s.poster.RecordPostAudit(ctx, actorID, entry)
	return &log, nil
}

// reject logs a refused request with the acting user before handing the
// error back; refusals are part of the audit picture, not just the 4xx.
func (s *Service) reject(actorID int64, reason string, err error) error {
	if s.logger != nil {
		s.logger.Warn("maintenance request rejected",
			slog.String("reason", reason),
			slog.Int64("actor", actorID),
			slog.Any("error", err))
	}
	return err
}

func (s *Service) Get(ctx context.Context, id int64) (*MaintenanceLog, error) {
	log, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: maintenance log %d", httpx.ErrNotFound, id)
		}
		return nil, err
	}
	return log, nil
}

func (s *Service) ListByVehicle(ctx context.Context, req ListMaintenanceRequest) ([]MaintenanceLog, error) {
	return s.repo.ListByVehicle(ctx, req)
}
