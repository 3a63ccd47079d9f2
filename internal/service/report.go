package service

import (
	"context"
	"time"

	"rentaldesk-backend/internal/access"
	"rentaldesk-backend/internal/domain"
	"rentaldesk-backend/internal/lifecycle"
	"rentaldesk-backend/internal/repository"
)

type reportService struct {
	carRepo     repository.CarRepository
	billingRepo repository.BillingRepository
}

func NewReportService(carRepo repository.CarRepository, billingRepo repository.BillingRepository) ReportService {
	return &reportService{carRepo: carRepo, billingRepo: billingRepo}
}

// Occupancy reports the status of every car on the given date. An empty
// date means today.
func (s *reportService) Occupancy(ctx context.Context, date string) ([]domain.CarOccupancy, error) {
	if date == "" {
		date = lifecycle.FormatDate(time.Now().UTC())
	} else if _, err := lifecycle.ParseDate(date); err != nil {
		return nil, ErrInvalidDates
	}
	return s.carRepo.OccupancyOn(ctx, date)
}

// Financial aggregates revenue and penalties per car over the given range.
func (s *reportService) Financial(ctx context.Context, actor domain.Role, dateFrom, dateTo string) ([]domain.CarFinancials, error) {
	if !access.CanManageRentals(actor) {
		return nil, ErrForbidden
	}
	if dateFrom != "" {
		if _, err := lifecycle.ParseDate(dateFrom); err != nil {
			return nil, ErrInvalidDates
		}
	}
	if dateTo != "" {
		if _, err := lifecycle.ParseDate(dateTo); err != nil {
			return nil, ErrInvalidDates
		}
	}
	return s.billingRepo.FinancialByCar(ctx, dateFrom, dateTo)
}
