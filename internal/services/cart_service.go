package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/SZL741023/Restaurant-API/internal/models"
	"github.com/SZL741023/Restaurant-API/internal/repositories"
)

// CartService is the per-user ledger of pending line items. All reads
// and writes are scoped to the calling user; no cross-user visibility.
type CartService struct {
	db       *gorm.DB
	cartRepo repositories.CartRepository
	menuRepo repositories.MenuItemRepository
}

// NewCartService creates a new CartService.
func NewCartService(db *gorm.DB, cartRepo repositories.CartRepository, menuRepo repositories.MenuItemRepository) *CartService {
	return &CartService{
		db:       db,
		cartRepo: cartRepo,
		menuRepo: menuRepo,
	}
}

// AddItem appends a cart line for the user. The menu item's current
// price is captured into the line; later menu-price edits do not touch
// it. Re-adding the same item appends a second line rather than
// merging, so every line keeps the unit price that was live when it
// was added.
func (s *CartService) AddItem(userID, menuItemID string, quantity int) (*models.CartLine, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}

	item, err := s.menuRepo.GetByID(menuItemID)
	if err != nil {
		return nil, translateNotFound(err)
	}

	line := &models.CartLine{
		UserID:     userID,
		MenuItemID: item.ID,
		Quantity:   quantity,
		UnitPrice:  item.Price,
		Price:      float64(quantity) * item.Price,
	}
	if err := s.cartRepo.Insert(s.db, line); err != nil {
		return nil, err
	}
	return line, nil
}

// ListItems returns the calling user's cart lines.
func (s *CartService) ListItems(userID string) ([]models.CartLine, error) {
	return s.cartRepo.ListByUser(s.db, userID)
}

// Clear removes all of the user's cart lines. Clearing an empty cart
// succeeds.
func (s *CartService) Clear(userID string) error {
	_, err := s.cartRepo.Clear(s.db, userID)
	return err
}
