package wishlist

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/blushmart/blushmart-backend/internal/products"
	"github.com/blushmart/blushmart-backend/pkg/db/models"
	pkgerrors "github.com/blushmart/blushmart-backend/pkg/errors"
	"github.com/blushmart/blushmart-backend/pkg/pagination"
)

// ServiceParams groups dependencies for the wishlist service.
type ServiceParams struct {
	WishlistRepo Repository
	ProductRepo  products.Repository
	Tx           TxRunner
}

// Service exposes business rules for wishlist management.
type Service interface {
	List(ctx context.Context, userID uuid.UUID, limit int, cursor string) (ListDTO, error)
	Toggle(ctx context.Context, userID, productID uuid.UUID) (ToggleResultDTO, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID) error
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) error
}

type service struct {
	wishlistRepo Repository
	productRepo  products.Repository
	tx           TxRunner
}

// NewService builds a wishlist service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.WishlistRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist repo is required")
	}
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tx runner is required")
	}
	return &service{
		wishlistRepo: params.WishlistRepo,
		productRepo:  params.ProductRepo,
		tx:           params.Tx,
	}, nil
}

// List returns one page of liked products, newest first, with a keyset cursor
// pointing at the next page.
func (s *service) List(ctx context.Context, userID uuid.UUID, limit int, cursor string) (ListDTO, error) {
	if userID == uuid.Nil {
		return ListDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	parsed, err := pagination.ParseCursor(cursor)
	if err != nil {
		return ListDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	rows, err := s.wishlistRepo.ListItems(ctx, userID, limit, parsed)
	if err != nil {
		return ListDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list wishlist")
	}

	pageSize := pagination.NormalizeLimit(limit)
	nextCursor := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	if len(rows) == 0 {
		return ListDTO{Items: []ItemDTO{}}, nil
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ProductID)
	}
	catalog, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return ListDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wishlist products")
	}
	byID := make(map[uuid.UUID]models.Product, len(catalog))
	for _, product := range catalog {
		byID[product.ID] = product
	}

	items := make([]ItemDTO, 0, len(rows))
	for _, row := range rows {
		product, ok := byID[row.ProductID]
		if !ok {
			// The product was deleted after being liked; hide the orphan row.
			continue
		}
		items = append(items, ItemDTO{
			Product:   products.ToDTO(product),
			CreatedAt: row.CreatedAt,
		})
	}
	return ListDTO{Items: items, Total: len(items), NextCursor: nextCursor}, nil
}

// Toggle flips the like state and reports the resulting state. The read and
// the flip run in one transaction, and the write is idempotent on both sides,
// so a client whose optimistic UI raced another tab still converges on the
// returned value.
func (s *service) Toggle(ctx context.Context, userID, productID uuid.UUID) (ToggleResultDTO, error) {
	if err := s.ensureProduct(ctx, userID, productID); err != nil {
		return ToggleResultDTO{}, err
	}

	var result ToggleResultDTO
	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.wishlistRepo.WithTx(tx)

		liked, err := repo.Exists(ctx, userID, productID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read wishlist state")
		}

		if liked {
			if err := repo.RemoveItem(ctx, userID, productID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove wishlist item")
			}
			result = ToggleResultDTO{ProductID: productID, Liked: false}
			return nil
		}

		if err := repo.AddItem(ctx, userID, productID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add wishlist item")
		}
		result = ToggleResultDTO{ProductID: productID, Liked: true}
		return nil
	})
	if txErr != nil {
		if typed := pkgerrors.As(txErr); typed != nil {
			return ToggleResultDTO{}, typed
		}
		return ToggleResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, txErr, "toggle wishlist")
	}
	return result, nil
}

// AddItem ensures the product exists and adds it to the wishlist.
func (s *service) AddItem(ctx context.Context, userID, productID uuid.UUID) error {
	if err := s.ensureProduct(ctx, userID, productID); err != nil {
		return err
	}
	if err := s.wishlistRepo.AddItem(ctx, userID, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add wishlist item")
	}
	return nil
}

// RemoveItem drops the wishlist entry regardless of prior state.
func (s *service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if err := s.wishlistRepo.RemoveItem(ctx, userID, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove wishlist item")
	}
	return nil
}

func (s *service) ensureProduct(ctx context.Context, userID, productID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return nil
}
