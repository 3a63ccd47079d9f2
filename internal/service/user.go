package service

import (
	"context"

	"rentaldesk-backend/internal/access"
	"rentaldesk-backend/internal/domain"
	"rentaldesk-backend/internal/repository"
)

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// ListCustomers backs the customer picker on the rental form and the
// customers screen. Staff only.
func (s *userService) ListCustomers(ctx context.Context, actor domain.Role) ([]domain.User, error) {
	if !access.CanManageRentals(actor) {
		return nil, ErrForbidden
	}
	return s.userRepo.ListByRole(ctx, domain.RoleCustomer)
}
