package rentals

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
	"github.com/fmc-saas/fleet/internal/customers"
	"github.com/fmc-saas/fleet/internal/fleet/vehicles"
	"github.com/fmc-saas/fleet/internal/platform/httpx"
	internalShared "github.com/fmc-saas/fleet/internal/shared"
)

// editNote is returned with every rental update so the UI can tell the user
// the invoice was not re-issued.
const editNote = "Rental details updated. The posted journal entry and the customer balance were not adjusted; correct the ledger with a manual journal if amounts changed."

// Poster is the journal posting surface, satisfied by *journals.Service.
type Poster interface {
	PostWithin(ctx context.Context, tx journals.TxRepository, input journals.PostingInput) (journals.JournalEntry, error)
	RecordPostAudit(ctx context.Context, actorID int64, entry journals.JournalEntry)
}

// RefsResolver resolves the configured AR and rental income accounts.
type RefsResolver interface {
	Receivable(ctx context.Context) (accounts.Account, error)
	RentalIncome(ctx context.Context) (accounts.Account, error)
}

// VehicleDirectory resolves the rented vehicle.
type VehicleDirectory interface {
	GetActive(ctx context.Context, id int64) (*vehicles.Vehicle, error)
}

// CustomerDirectory resolves the renting customer.
type CustomerDirectory interface {
	Get(ctx context.Context, id int64) (*customers.Customer, error)
}

type Service struct {
	repo     Repository
	poster   Poster
	resolver RefsResolver
	fleet    VehicleDirectory
	clients  CustomerDirectory
	logger   *slog.Logger
	printer  *message.Printer
}

func NewService(repo Repository, poster Poster, resolver RefsResolver, fleet VehicleDirectory, clients CustomerDirectory, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		poster:   poster,
		resolver: resolver,
		fleet:    fleet,
		clients:  clients,
		logger:   logger,
		printer:  message.NewPrinter(language.English),
	}
}

// Create saves a rental contract and issues its invoice: debit Accounts
// Receivable, credit rental income, both for the total, dated at the
// rental's start. The contract insert, journal entry, lines, source link
// and customer balance increment share one transaction.
//
// This is the only point that posts. Updating a rental afterwards never
// re-posts; see Update.
func (s *Service) Create(ctx context.Context, req CreateRentalRequest, actorID int64) (*Rental, error) {
	if !req.TotalAmount.IsPositive() {
		return nil, s.reject(actorID, "non-positive total", fmt.Errorf("%w: rental total must be positive", httpx.ErrValidation))
	}
	if req.EndAt.Before(req.StartAt) {
		return nil, s.reject(actorID, "end precedes start", fmt.Errorf("%w: rental end precedes start", httpx.ErrValidation))
	}

	vehicle, err := s.fleet.GetActive(ctx, req.VehicleID)
	if err != nil {
		return nil, s.reject(actorID, "vehicle unavailable", err)
	}
	customer, err := s.clients.Get(ctx, req.CustomerID)
	if err != nil {
		return nil, s.reject(actorID, "customer unknown", err)
	}
	if !customer.IsActive {
		return nil, s.reject(actorID, "customer inactive", fmt.Errorf("%w: customer %s is inactive", httpx.ErrValidation, customer.Name))
	}

	receivable, err := s.resolver.Receivable(ctx)
	if err != nil {
		return nil, err
	}
	income, err := s.resolver.RentalIncome(ctx)
	if err != nil {
		return nil, err
	}

	total, _ := req.TotalAmount.Float64()
	rental := Rental{
		SourceID:    uuid.New(),
		VehicleID:   vehicle.ID,
		CustomerID:  customer.ID,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
		Rate:        req.Rate,
		TotalAmount: req.TotalAmount,
		Notes:       req.Notes,
		CreatedBy:   actorID,
	}

	var entry journals.JournalEntry
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		rentalID, err := tx.InsertRental(ctx, rental)
		if err != nil {
			return err
		}
		rental.ID = rentalID

		entry, err = s.poster.PostWithin(ctx, tx.Journals(), journals.PostingInput{
			Date:         req.StartAt,
			SourceModule: SourceModule,
			SourceID:     rental.SourceID,
			Memo:         s.printer.Sprintf("Rental invoice %.2f, vehicle %s, customer %s", total, vehicle.PlateNo, customer.Name),
			PostedBy:     actorID,
			Lines: []journals.PostingLineInput{
				{
					AccountID: receivable.ID,
					Side:      journals.SideDebit,
					Amount:    req.TotalAmount,
					Memo:      s.printer.Sprintf("Receivable from %s", customer.Name),
				},
				{
					AccountID: income.ID,
					Side:      journals.SideCredit,
					Amount:    req.TotalAmount,
					Memo:      s.printer.Sprintf("Rental income, vehicle %s", vehicle.PlateNo),
				},
			},
		})
		if err != nil {
			return err
		}
		if err := tx.SetJournal(ctx, rentalID, entry.ID); err != nil {
			return err
		}
		return tx.IncrementCustomerBalance(ctx, customer.ID, req.TotalAmount)
	})
	if err != nil {
		if s.logger != nil {
			s.logger.Error("rental posting failed",
				slog.Any("error", err),
				slog.Int64("vehicle_id", req.VehicleID),
				slog.Int64("customer_id", req.CustomerID),
				slog.Int64("actor", actorID))
		}
		return nil, err
	}

	rental.JournalEntryID = entry.ID
	s.poster.RecordPostAudit(ctx, actorID, entry)
	return &rental, nil
}

// Update edits the contract record. Amount or date changes do not adjust
// the journal entry, its lines, or the customer balance; the result says
// so explicitly.
func (s *Service) Update(ctx context.Context, id int64, req UpdateRentalRequest) (*UpdateResult, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	start, end := existing.StartAt, existing.EndAt
	if req.StartAt != nil {
		start = *req.StartAt
	}
	if req.EndAt != nil {
		end = *req.EndAt
	}
	if end.Before(start) {
		return nil, s.reject(internalShared.ActorID(ctx), "end precedes start", fmt.Errorf("%w: rental end precedes start", httpx.ErrValidation))
	}
	if req.TotalAmount != nil && !req.TotalAmount.IsPositive() {
		return nil, s.reject(internalShared.ActorID(ctx), "non-positive total", fmt.Errorf("%w: rental total must be positive", httpx.ErrValidation))
	}

	updates := make(map[string]any)
	if req.StartAt != nil {
		updates["start_at"] = *req.StartAt
	}
	if req.EndAt != nil {
		updates["end_at"] = *req.EndAt
	}
	if req.Rate != nil {
		updates["rate"] = req.Rate.StringFixed(2)
	}
	if req.TotalAmount != nil {
		updates["total_amount"] = req.TotalAmount.StringFixed(2)
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("update rental: %w", err)
	}

	saved, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &UpdateResult{Rental: *saved, JournalAdjusted: false, Note: editNote}, nil
}

// reject logs a refused request with the acting user before handing the
// error back; refusals are part of the audit picture, not just the 4xx.
func (s *Service) reject(actorID int64, reason string, err error) error {
	if s.logger != nil {
		s.logger.Warn("rental request rejected",
			slog.String("reason", reason),
			slog.Int64("actor", actorID),
			slog.Any("error", err))
	}
	return err
}

func (s *Service) Get(ctx context.Context, id int64) (*Rental, error) {
	rental, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: rental %d", httpx.ErrNotFound, id)
		}
		return nil, err
	}
	return rental, nil
}

func (s *Service) List(ctx context.Context, req ListRentalsRequest) ([]Rental, int, error) {
	return s.repo.List(ctx, req)
}
