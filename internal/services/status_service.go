package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/bug-tracker-api/internal/dto"
	"github.com/yukikurage/bug-tracker-api/internal/models"
	"github.com/yukikurage/bug-tracker-api/internal/repository"
	"gorm.io/gorm"
)

// StatusService handles workflow status business logic
type StatusService struct {
	statusRepo repository.StatusRepository
}

// NewStatusService creates a new StatusService
func NewStatusService(statusRepo repository.StatusRepository) *StatusService {
	return &StatusService{
		statusRepo: statusRepo,
	}
}

// CreateStatusInput represents input for creating a status
type CreateStatusInput struct {
	Name  string
	Color string
	Order *int
}

// UpdateStatusInput represents a partial status update
type UpdateStatusInput struct {
	Name  dto.Optional[string]
	Color dto.Optional[string]
	Order dto.Optional[int]
}

// ListStatuses returns statuses in workflow order
func (s *StatusService) ListStatuses(ctx context.Context) ([]models.Status, error) {
	statuses, err := s.statusRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list statuses: %w", err)
	}
	return statuses, nil
}

// CreateStatus appends the status after the current maximum order when none is given
func (s *StatusService) CreateStatus(ctx context.Context, input CreateStatusInput) (*models.Status, error) {
	name, err := requiredText("name", input.Name, maxStatusNameLength)
	if err != nil {
		return nil, err
	}
	color := input.Color
	if color == "" {
		color = models.DefaultStatusColor
	}
	if err := validateColor(color); err != nil {
		return nil, err
	}
	if err := s.ensureNameAvailable(ctx, name, ""); err != nil {
		return nil, err
	}

	order := 0
	if input.Order != nil {
		order = *input.Order
	} else {
		max, exists, err := s.statusRepo.MaxOrder(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read status order: %w", err)
		}
		if exists {
			order = max + 1
		}
	}

	status := &models.Status{
		Name:  name,
		Color: color,
		Order: order,
	}
	if err := s.statusRepo.Create(ctx, status); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrStatusNameTaken
		}
		return nil, fmt.Errorf("failed to create status: %w", err)
	}

	return status, nil
}

// UpdateStatus applies only the fields present in the input
func (s *StatusService) UpdateStatus(ctx context.Context, id string, input UpdateStatusInput) (*models.Status, error) {
	status, err := s.statusRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStatusNotFound
		}
		return nil, fmt.Errorf("failed to find status: %w", err)
	}

	if input.Name.Set {
		if input.Name.Null {
			return nil, notNullable("name")
		}
		name, err := requiredText("name", input.Name.Value, maxStatusNameLength)
		if err != nil {
			return nil, err
		}
		if name != status.Name {
			if err := s.ensureNameAvailable(ctx, name, status.ID); err != nil {
				return nil, err
			}
		}
		status.Name = name
	}
	if input.Color.Set {
		if input.Color.Null {
			return nil, notNullable("color")
		}
		if err := validateColor(input.Color.Value); err != nil {
			return nil, err
		}
		status.Color = input.Color.Value
	}
	if input.Order.Set {
		if input.Order.Null {
			return nil, notNullable("order")
		}
		status.Order = input.Order.Value
	}

	if err := s.statusRepo.Update(ctx, status); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrStatusNameTaken
		}
		return nil, fmt.Errorf("failed to update status: %w", err)
	}

	return status, nil
}

// DeleteStatus deletes a status that no bug references
func (s *StatusService) DeleteStatus(ctx context.Context, id string) error {
	count, err := s.statusRepo.Delete(ctx, id)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrStatusNotFound
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return &InUseError{Resource: "status"}
	case err != nil:
		return fmt.Errorf("failed to delete status: %w", err)
	case count > 0:
		return &InUseError{Resource: "status", Count: count}
	}
	return nil
}

// ReorderStatuses assigns new orders atomically; unknown ids are skipped
func (s *StatusService) ReorderStatuses(ctx context.Context, orders []repository.StatusOrder) error {
	for _, o := range orders {
		if o.ID == "" {
			return invalid("id", "id is required")
		}
	}
	if len(orders) == 0 {
		return nil
	}
	if err := s.statusRepo.Reorder(ctx, orders); err != nil {
		return fmt.Errorf("failed to reorder statuses: %w", err)
	}
	return nil
}

func (s *StatusService) ensureNameAvailable(ctx context.Context, name, selfID string) error {
	existing, err := s.statusRepo.FindByName(ctx, name)
	if err == nil {
		if existing.ID != selfID {
			return ErrStatusNameTaken
		}
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check status name: %w", err)
	}
	return nil
}
