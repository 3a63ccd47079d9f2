package service

import (
	"context"
	"database/sql"
	"errors"

	"rentaldesk-backend/internal/access"
	"rentaldesk-backend/internal/domain"
	"rentaldesk-backend/internal/repository"
)

type carService struct {
	carRepo    repository.CarRepository
	rentalRepo repository.RentalRepository
}

func NewCarService(carRepo repository.CarRepository, rentalRepo repository.RentalRepository) CarService {
	return &carService{carRepo: carRepo, rentalRepo: rentalRepo}
}

func (s *carService) Create(ctx context.Context, actor domain.Role, car *domain.Car) error {
	if !access.CanManageFleet(actor) {
		return ErrForbidden
	}
	if car.Status == "" {
		car.Status = domain.CarStatusAvailable
	}
	return s.carRepo.Create(ctx, car)
}

func (s *carService) Get(ctx context.Context, id int32) (*domain.Car, error) {
	car, err := s.carRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return car, nil
}

func (s *carService) Update(ctx context.Context, actor domain.Role, car *domain.Car) error {
	if !access.CanManageFleet(actor) {
		return ErrForbidden
	}
	if _, err := s.Get(ctx, car.ID); err != nil {
		return err
	}
	return s.carRepo.Update(ctx, car)
}

// Delete refuses to remove a car with rental history; the handler maps the
// refusal to a conflict so the client can tell it apart from a missing car.
func (s *carService) Delete(ctx context.Context, actor domain.Role, id int32) error {
	if !access.CanManageFleet(actor) {
		return ErrForbidden
	}
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	count, err := s.rentalRepo.CountByCar(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCarHasRentals
	}
	return s.carRepo.Delete(ctx, id)
}

func (s *carService) List(ctx context.Context, search string) ([]domain.Car, error) {
	return s.carRepo.List(ctx, search)
}
