package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"rentaldesk-backend/internal/access"
	"rentaldesk-backend/internal/domain"
	"rentaldesk-backend/internal/lifecycle"
	"rentaldesk-backend/internal/logger"
	"rentaldesk-backend/internal/pricing"
	"rentaldesk-backend/internal/repository"
)

type rentalService struct {
	rentalRepo  repository.RentalRepository
	carRepo     repository.CarRepository
	billingRepo repository.BillingRepository
	userRepo    repository.UserRepository
	emailSvc    EmailService
	pricing     pricing.CompositeStrategy
}

func NewRentalService(
	rentalRepo repository.RentalRepository,
	carRepo repository.CarRepository,
	billingRepo repository.BillingRepository,
	userRepo repository.UserRepository,
	emailSvc EmailService,
) RentalService {
	return &rentalService{
		rentalRepo:  rentalRepo,
		carRepo:     carRepo,
		billingRepo: billingRepo,
		userRepo:    userRepo,
		emailSvc:    emailSvc,
		pricing:     pricing.Default(),
	}
}

// Create opens a rental and holds its deposit. Rentals issued today or in
// the past go ACTIVE immediately and mark the car RENTED; future-dated
// rentals stay DRAFT until the nightly activation sweep picks them up.
func (s *rentalService) Create(ctx context.Context, actor domain.Role, input CreateRentalInput) (*domain.Rental, error) {
	if !access.CanManageRentals(actor) {
		return nil, ErrForbidden
	}

	customer, err := s.userRepo.GetByID(ctx, input.CustomerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if customer.Role != domain.RoleCustomer {
		return nil, ErrCustomerRoleRequired
	}

	car, err := s.carRepo.GetByID(ctx, input.CarID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	issue, err := lifecycle.ParseDate(input.IssueDate)
	if err != nil {
		return nil, ErrInvalidDates
	}
	expected, err := lifecycle.ParseDate(input.ExpectedReturnDate)
	if err != nil {
		return nil, ErrInvalidDates
	}
	if expected.Before(issue) {
		return nil, ErrInvalidDates
	}

	status := domain.RentalStatusActive
	today, _ := lifecycle.ParseDate(lifecycle.FormatDate(time.Now().UTC()))
	if issue.After(today) {
		status = domain.RentalStatusDraft
	}

	rental := &domain.Rental{
		CustomerID:         input.CustomerID,
		CarID:              input.CarID,
		IssueDate:          input.IssueDate,
		ExpectedReturnDate: input.ExpectedReturnDate,
		Status:             status,
	}
	if err := s.rentalRepo.Create(ctx, rental); err != nil {
		return nil, err
	}

	deposit := &domain.Deposit{
		RentalID:    rental.ID,
		AmountCents: input.DepositCents,
		Status:      domain.DepositStatusHeld,
	}
	if err := s.billingRepo.CreateDeposit(ctx, deposit); err != nil {
		return nil, err
	}
	held := &domain.PaymentTransaction{
		RentalID:    rental.ID,
		Type:        domain.TransactionTypeDepositHeld,
		AmountCents: input.DepositCents,
		Note:        "Deposit collected",
	}
	if err := s.billingRepo.CreateTransaction(ctx, held); err != nil {
		return nil, err
	}

	if status == domain.RentalStatusActive {
		if err := s.carRepo.SetStatus(ctx, car.ID, domain.CarStatusRented); err != nil {
			return nil, err
		}
	}

	return rental, nil
}

func (s *rentalService) Get(ctx context.Context, actor domain.Role, actorID, id int32) (*domain.Rental, error) {
	rental, err := s.rentalRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	// Customers only ever see their own rentals; a foreign id reads as absent.
	if actor == domain.RoleCustomer && rental.CustomerID != actorID {
		return nil, ErrNotFound
	}
	return rental, nil
}

func (s *rentalService) List(ctx context.Context, actor domain.Role, actorID int32, filter repository.RentalFilter) ([]domain.Rental, error) {
	if actor == domain.RoleCustomer {
		filter.CustomerID = actorID
	}
	return s.rentalRepo.List(ctx, filter)
}

// UpdateDates changes the issue/expected dates of a DRAFT rental. Active
// rentals' dates anchor billing and are locked.
func (s *rentalService) UpdateDates(ctx context.Context, actor domain.Role, id int32, issueDate, expectedReturnDate string) (*domain.Rental, error) {
	rental, err := s.rentalRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !lifecycle.CanEditDates(rental.Status, actor) {
		if !access.CanManageRentals(actor) {
			return nil, ErrForbidden
		}
		return nil, ErrDatesLocked
	}

	issue, err := lifecycle.ParseDate(issueDate)
	if err != nil {
		return nil, ErrInvalidDates
	}
	expected, err := lifecycle.ParseDate(expectedReturnDate)
	if err != nil {
		return nil, ErrInvalidDates
	}
	if expected.Before(issue) {
		return nil, ErrInvalidDates
	}

	rental.IssueDate = issueDate
	rental.ExpectedReturnDate = expectedReturnDate
	if err := s.rentalRepo.Update(ctx, rental); err != nil {
		return nil, err
	}
	return rental, nil
}

// Return settles a rental: rental charge via the pricing strategies,
// penalties for lateness and condition, deposit settlement, then the
// transition to CLOSED. The invoice built here is the authoritative figure.
func (s *rentalService) Return(ctx context.Context, actor domain.Role, id int32, input ReturnInput) (*ReturnResult, error) {
	rental, err := s.rentalRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !lifecycle.CanReturn(rental.Status, actor) {
		if !access.CanManageRentals(actor) {
			return nil, ErrForbidden
		}
		return nil, ErrRentalClosed
	}

	actualStr := input.ActualReturnDate
	if actualStr == "" {
		actualStr = lifecycle.FormatDate(time.Now().UTC())
	}
	actual, err := lifecycle.ParseDate(actualStr)
	if err != nil {
		return nil, ErrInvalidDates
	}
	issue, err := lifecycle.ParseDate(rental.IssueDate)
	if err != nil {
		return nil, err
	}
	expected, err := lifecycle.ParseDate(rental.ExpectedReturnDate)
	if err != nil {
		return nil, err
	}

	car, err := s.carRepo.GetByID(ctx, rental.CarID)
	if err != nil {
		return nil, err
	}

	duration := lifecycle.DurationDays(issue, actual)
	charge := s.pricing.ChargeCents(car.DailyPriceCents, duration, car.Year, issue)

	invoice := domain.NewInvoiceBuilder().AddItem("Rental charge", charge)

	var penaltiesTotal int64
	if lateDays := lifecycle.LateDays(expected, actual); lateDays > 0 {
		lateFee := int64(lateDays) * lifecycle.LateFeePerDayCents
		penalty := &domain.Penalty{
			RentalID:    rental.ID,
			Type:        domain.PenaltyTypeLateReturn,
			AmountCents: lateFee,
			Comment:     fmt.Sprintf("Late by %d day(s)", lateDays),
		}
		if err := s.billingRepo.CreatePenalty(ctx, penalty); err != nil {
			return nil, err
		}
		penaltiesTotal += lateFee
		invoice.AddItem("Late return penalty", lateFee)
	}

	if input.BadCondition {
		penalty := &domain.Penalty{
			RentalID:    rental.ID,
			Type:        domain.PenaltyTypeBadCondition,
			AmountCents: lifecycle.BadConditionFeeCents,
			Comment:     "Bad condition reported",
		}
		if err := s.billingRepo.CreatePenalty(ctx, penalty); err != nil {
			return nil, err
		}
		penaltiesTotal += lifecycle.BadConditionFeeCents
		invoice.AddItem("Bad condition penalty", lifecycle.BadConditionFeeCents)
	}

	chargeTx := &domain.PaymentTransaction{
		RentalID:    rental.ID,
		Type:        domain.TransactionTypeRentalCharge,
		AmountCents: charge,
		Note:        "Rental charge",
	}
	if err := s.billingRepo.CreateTransaction(ctx, chargeTx); err != nil {
		return nil, err
	}

	if penaltiesTotal > 0 {
		penaltyTx := &domain.PaymentTransaction{
			RentalID:    rental.ID,
			Type:        domain.TransactionTypePenaltyCharge,
			AmountCents: penaltiesTotal,
			Note:        "Penalties",
		}
		if err := s.billingRepo.CreateTransaction(ctx, penaltyTx); err != nil {
			return nil, err
		}
	}

	if err := s.settleDeposit(ctx, rental.ID, penaltiesTotal); err != nil {
		return nil, err
	}

	rental.ActualReturnDate = &actualStr
	rental.Status = domain.RentalStatusClosed
	if err := s.rentalRepo.Update(ctx, rental); err != nil {
		return nil, err
	}

	if err := s.carRepo.SetStatus(ctx, rental.CarID, domain.CarStatusAvailable); err != nil {
		return nil, err
	}

	result := &ReturnResult{Rental: rental, Invoice: invoice.Build()}

	// Receipt is best-effort; the return has already settled.
	if customer, err := s.userRepo.GetByID(ctx, rental.CustomerID); err == nil {
		if err := s.emailSvc.SendReturnReceipt(ctx, customer.Email, customer.FullName, rental.ID, result.Invoice.TotalCents()); err != nil {
			logger.Warn("Failed to send return receipt", "rental_id", rental.ID, "error", err)
		}
	}

	return result, nil
}

func (s *rentalService) settleDeposit(ctx context.Context, rentalID int32, penaltiesTotal int64) error {
	deposit, err := s.billingRepo.GetDepositByRental(ctx, rentalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return err
	}

	refund := deposit.AmountCents - penaltiesTotal
	if refund < 0 {
		refund = 0
	}
	switch {
	case refund == deposit.AmountCents:
		deposit.Status = domain.DepositStatusRefunded
	case refund == 0:
		deposit.Status = domain.DepositStatusForfeited
	default:
		deposit.Status = domain.DepositStatusPartialRefund
	}
	if err := s.billingRepo.UpdateDeposit(ctx, deposit); err != nil {
		return err
	}

	if refund > 0 {
		refundTx := &domain.PaymentTransaction{
			RentalID:    rentalID,
			Type:        domain.TransactionTypeDepositRefund,
			AmountCents: refund,
			Note:        "Deposit refund",
		}
		return s.billingRepo.CreateTransaction(ctx, refundTx)
	}
	return nil
}
