package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/SZL741023/Restaurant-API/internal/models"
	"github.com/SZL741023/Restaurant-API/internal/repositories"
)

// MenuService handles business logic for menu items and categories.
type MenuService struct {
	menuRepo     repositories.MenuItemRepository
	categoryRepo repositories.CategoryRepository
}

// NewMenuService creates a new MenuService.
func NewMenuService(menuRepo repositories.MenuItemRepository, categoryRepo repositories.CategoryRepository) *MenuService {
	return &MenuService{
		menuRepo:     menuRepo,
		categoryRepo: categoryRepo,
	}
}

// GetAllMenuItems retrieves all menu items.
func (s *MenuService) GetAllMenuItems() ([]models.MenuItem, error) {
	return s.menuRepo.GetAll()
}

// GetMenuItemByID retrieves a single menu item by its ID.
func (s *MenuService) GetMenuItemByID(id string) (*models.MenuItem, error) {
	item, err := s.menuRepo.GetByID(id)
	if err != nil {
		return nil, translateNotFound(err)
	}
	return item, nil
}

// CreateMenuItem creates a new menu item.
func (s *MenuService) CreateMenuItem(item *models.MenuItem) error {
	if item.Price <= 0 {
		return fmt.Errorf("%w: price must be positive", ErrValidation)
	}
	return s.menuRepo.Create(item)
}

// UpdateMenuItem updates an existing menu item.
func (s *MenuService) UpdateMenuItem(item *models.MenuItem) error {
	if item.Price <= 0 {
		return fmt.Errorf("%w: price must be positive", ErrValidation)
	}
	return translateNotFound(s.menuRepo.Update(item))
}

// DeleteMenuItem deletes a menu item by its ID.
func (s *MenuService) DeleteMenuItem(id string) error {
	return translateNotFound(s.menuRepo.Delete(id))
}

// GetAllCategories retrieves all categories.
func (s *MenuService) GetAllCategories() ([]models.Category, error) {
	return s.categoryRepo.GetAll()
}

// CreateCategory creates a new category.
func (s *MenuService) CreateCategory(category *models.Category) error {
	if existing, err := s.categoryRepo.GetBySlug(category.Slug); err == nil && existing != nil {
		return fmt.Errorf("%w: category slug %q already exists", ErrValidation, category.Slug)
	}
	return s.categoryRepo.Create(category)
}

// translateNotFound maps the store's missing-row error onto the service
// taxonomy while leaving everything else untouched.
func translateNotFound(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}
