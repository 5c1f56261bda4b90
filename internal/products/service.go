package products

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/blushmart/blushmart-backend/pkg/db/models"
	pkgerrors "github.com/blushmart/blushmart-backend/pkg/errors"
	"github.com/blushmart/blushmart-backend/pkg/pagination"
	"github.com/blushmart/blushmart-backend/pkg/types"
)

// ServiceParams groups dependencies for the catalog service.
type ServiceParams struct {
	ProductRepo Repository
}

// Service exposes catalog reads for shoppers and CRUD for the back office.
type Service interface {
	Get(ctx context.Context, productID uuid.UUID) (ProductDTO, error)
	List(ctx context.Context, filters ListFilters) (ProductListDTO, error)
	Create(ctx context.Context, input CreateProductInput) (ProductDTO, error)
	Update(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (ProductDTO, error)
	Delete(ctx context.Context, productID uuid.UUID) error
}

type service struct {
	productRepo Repository
}

// NewService builds a catalog service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	return &service{productRepo: params.ProductRepo}, nil
}

func (s *service) Get(ctx context.Context, productID uuid.UUID) (ProductDTO, error) {
	if productID == uuid.Nil {
		return ProductDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return ToDTO(*product), nil
}

func (s *service) List(ctx context.Context, filters ListFilters) (ProductListDTO, error) {
	rows, total, err := s.productRepo.List(ctx, filters)
	if err != nil {
		return ProductListDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	items := make([]ProductDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, ToDTO(row))
	}
	limit := pagination.NormalizeLimit(filters.Limit)
	return ProductListDTO{
		Items: items,
		PageMeta: types.PageMeta{
			Page:       pagination.NormalizePage(filters.Page),
			Limit:      limit,
			Total:      total,
			TotalPages: pagination.TotalPages(total, limit),
		},
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateProductInput) (ProductDTO, error) {
	if input.Price.IsNegative() || input.Price.IsZero() {
		return ProductDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	if input.OldPrice != nil && input.OldPrice.LessThan(input.Price) {
		return ProductDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "old price must not undercut the current price")
	}

	product := modelFromCreateInput(input)
	created, err := s.productRepo.Create(ctx, product)
	if err != nil {
		return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return ToDTO(*created), nil
}

func (s *service) Update(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (ProductDTO, error) {
	if productID == uuid.Nil {
		return ProductDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.Price != nil && (input.Price.IsNegative() || input.Price.IsZero()) {
		return ProductDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}

	updates := updatesFromInput(input)
	if len(updates) == 0 {
		return s.Get(ctx, productID)
	}

	if err := s.productRepo.Update(ctx, productID, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return s.Get(ctx, productID)
}

func (s *service) Delete(ctx context.Context, productID uuid.UUID) error {
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if err := s.productRepo.Delete(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func modelFromCreateInput(input CreateProductInput) *models.Product {
	return &models.Product{
		Title:           strings.TrimSpace(input.Title),
		Description:     strings.TrimSpace(input.Description),
		Price:           input.Price,
		OldPrice:        input.OldPrice,
		Images:          pq.StringArray(input.Images),
		Stock:           input.Stock,
		Category:        strings.TrimSpace(input.Category),
		InsideBox:       pq.StringArray(input.InsideBox),
		Colors:          pq.StringArray(input.Colors),
		Sizes:           pq.StringArray(input.Sizes),
		DiscountPercent: input.DiscountPercent,
		IsSpotlight:     input.IsSpotlight,
		IsActive:        true,
	}
}

func updatesFromInput(input UpdateProductInput) map[string]any {
	updates := map[string]any{}
	if input.Title != nil {
		updates["title"] = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		updates["description"] = strings.TrimSpace(*input.Description)
	}
	if input.Price != nil {
		updates["price"] = *input.Price
	}
	if input.OldPrice != nil {
		updates["old_price"] = *input.OldPrice
	}
	if input.Images != nil {
		updates["images"] = pq.StringArray(input.Images)
	}
	if input.Stock != nil {
		updates["stock"] = *input.Stock
	}
	if input.Category != nil {
		updates["category"] = strings.TrimSpace(*input.Category)
	}
	if input.InsideBox != nil {
		updates["inside_box"] = pq.StringArray(input.InsideBox)
	}
	if input.Colors != nil {
		updates["colors"] = pq.StringArray(input.Colors)
	}
	if input.Sizes != nil {
		updates["sizes"] = pq.StringArray(input.Sizes)
	}
	if input.DiscountPercent != nil {
		updates["discount_percent"] = *input.DiscountPercent
	}
	if input.IsSpotlight != nil {
		updates["is_spotlight"] = *input.IsSpotlight
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	return updates
}
