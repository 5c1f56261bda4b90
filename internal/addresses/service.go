package addresses

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/blushmart/blushmart-backend/pkg/db/models"
	pkgerrors "github.com/blushmart/blushmart-backend/pkg/errors"
)

// AddressDTO is the address-book projection returned to clients.
type AddressDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Street    string    `json:"street"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	Country   string    `json:"country"`
	ZipCode   string    `json:"zip_code"`
	CreatedAt time.Time `json:"created_at"`
}

// AddressInput is the payload for create and full update.
type AddressInput struct {
	Name    string `json:"name" validate:"required,max=100"`
	Phone   string `json:"phone" validate:"required,max=20"`
	Street  string `json:"street" validate:"required,max=200"`
	City    string `json:"city" validate:"required,max=100"`
	State   string `json:"state" validate:"required,max=100"`
	Country string `json:"country" validate:"required,max=100"`
	ZipCode string `json:"zip_code" validate:"required,max=20"`
}

// ServiceParams groups dependencies for the address service.
type ServiceParams struct {
	AddressRepo *Repository
}

// Service manages a shopper's saved shipping destinations.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]AddressDTO, error)
	Get(ctx context.Context, userID, addressID uuid.UUID) (AddressDTO, error)
	Create(ctx context.Context, userID uuid.UUID, input AddressInput) (AddressDTO, error)
	Update(ctx context.Context, userID, addressID uuid.UUID, input AddressInput) (AddressDTO, error)
	Delete(ctx context.Context, userID, addressID uuid.UUID) error
}

type service struct {
	addressRepo *Repository
}

// NewService builds an address service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.AddressRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address repo is required")
	}
	return &service{addressRepo: params.AddressRepo}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]AddressDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	rows, err := s.addressRepo.List(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list addresses")
	}
	items := make([]AddressDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, toDTO(row))
	}
	return items, nil
}

func (s *service) Get(ctx context.Context, userID, addressID uuid.UUID) (AddressDTO, error) {
	address, err := s.findOwned(ctx, userID, addressID)
	if err != nil {
		return AddressDTO{}, err
	}
	return toDTO(*address), nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input AddressInput) (AddressDTO, error) {
	if userID == uuid.Nil {
		return AddressDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	address := &models.Address{
		UserID:  userID,
		Name:    strings.TrimSpace(input.Name),
		Phone:   strings.TrimSpace(input.Phone),
		Street:  strings.TrimSpace(input.Street),
		City:    strings.TrimSpace(input.City),
		State:   strings.TrimSpace(input.State),
		Country: strings.TrimSpace(input.Country),
		ZipCode: strings.TrimSpace(input.ZipCode),
	}
	created, err := s.addressRepo.Create(ctx, address)
	if err != nil {
		return AddressDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create address")
	}
	return toDTO(*created), nil
}

func (s *service) Update(ctx context.Context, userID, addressID uuid.UUID, input AddressInput) (AddressDTO, error) {
	updates := map[string]any{
		"name":     strings.TrimSpace(input.Name),
		"phone":    strings.TrimSpace(input.Phone),
		"street":   strings.TrimSpace(input.Street),
		"city":     strings.TrimSpace(input.City),
		"state":    strings.TrimSpace(input.State),
		"country":  strings.TrimSpace(input.Country),
		"zip_code": strings.TrimSpace(input.ZipCode),
	}
	if err := s.addressRepo.Update(ctx, userID, addressID, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AddressDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "address not found")
		}
		return AddressDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update address")
	}
	return s.Get(ctx, userID, addressID)
}

func (s *service) Delete(ctx context.Context, userID, addressID uuid.UUID) error {
	if err := s.addressRepo.Delete(ctx, userID, addressID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "address not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete address")
	}
	return nil
}

func (s *service) findOwned(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if addressID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address id is required")
	}
	address, err := s.addressRepo.FindOwned(ctx, userID, addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
	}
	return address, nil
}

func toDTO(a models.Address) AddressDTO {
	return AddressDTO{
		ID:        a.ID,
		Name:      a.Name,
		Phone:     a.Phone,
		Street:    a.Street,
		City:      a.City,
		State:     a.State,
		Country:   a.Country,
		ZipCode:   a.ZipCode,
		CreatedAt: a.CreatedAt,
	}
}
