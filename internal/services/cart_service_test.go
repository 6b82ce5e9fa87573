package services_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/SZL741023/Restaurant-API/internal/models"
	"github.com/SZL741023/Restaurant-API/internal/repositories"
	"github.com/SZL741023/Restaurant-API/internal/services"
)

// setupTestDB opens a per-test in-memory SQLite database with the full
// schema migrated.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Group{},
		&models.User{},
		&models.Category{},
		&models.MenuItem{},
		&models.CartLine{},
		&models.Order{},
		&models.OrderItem{},
	))
	return db
}

func seedGroups(t *testing.T, db *gorm.DB) {
	t.Helper()
	for _, name := range []string{services.GroupManager, services.GroupDeliveryCrew} {
		require.NoError(t, db.Create(&models.Group{ID: uuid.New().String(), Name: name}).Error)
	}
}

func createTestUser(t *testing.T, db *gorm.DB, username string, groups ...string) *models.User {
	t.Helper()
	user := &models.User{
		ID:       uuid.New().String(),
		Username: username,
		Email:    username + "@example.com",
		Password: "not-a-real-hash",
	}
	require.NoError(t, db.Create(user).Error)
	userRepo := repositories.NewGORMUserRepository(db)
	for _, g := range groups {
		require.NoError(t, userRepo.AddToGroup(user.ID, g))
	}
	return user
}

func createTestMenuItem(t *testing.T, db *gorm.DB, title string, price float64) *models.MenuItem {
	t.Helper()
	category := models.Category{ID: uuid.New().String(), Slug: "slug-" + uuid.New().String(), Title: "Mains"}
	require.NoError(t, db.Create(&category).Error)
	item := &models.MenuItem{
		ID:         uuid.New().String(),
		Title:      title,
		Price:      price,
		CategoryID: category.ID,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func newCartService(db *gorm.DB) *services.CartService {
	return services.NewCartService(
		db,
		repositories.NewGORMCartRepository(),
		repositories.NewGORMMenuItemRepository(db),
	)
}

func TestCartService_AddItem_SnapshotsPrice(t *testing.T) {
	db := setupTestDB(t)
	cartService := newCartService(db)
	user := createTestUser(t, db, "alice")
	item := createTestMenuItem(t, db, "Greek Salad", 12.00)

	line, err := cartService.AddItem(user.ID, item.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 12.00, line.UnitPrice)
	assert.Equal(t, 24.00, line.Price)

	// A later menu-price change must not touch the captured line.
	require.NoError(t, db.Model(&models.MenuItem{}).Where("id = ?", item.ID).Update("price", 99.00).Error)

	lines, err := cartService.ListItems(user.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 12.00, lines[0].UnitPrice)
	assert.Equal(t, 24.00, lines[0].Price)
}

func TestCartService_AddItem_RejectsBadQuantity(t *testing.T) {
	db := setupTestDB(t)
	cartService := newCartService(db)
	user := createTestUser(t, db, "alice")
	item := createTestMenuItem(t, db, "Greek Salad", 12.00)

	for _, quantity := range []int{0, -1} {
		_, err := cartService.AddItem(user.ID, item.ID, quantity)
		assert.True(t, errors.Is(err, services.ErrValidation), "quantity %d should fail validation", quantity)
	}

	lines, err := cartService.ListItems(user.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestCartService_AddItem_UnknownMenuItem(t *testing.T) {
	db := setupTestDB(t)
	cartService := newCartService(db)
	user := createTestUser(t, db, "alice")

	_, err := cartService.AddItem(user.ID, uuid.New().String(), 1)
	assert.True(t, errors.Is(err, services.ErrNotFound))
}

func TestCartService_AddItem_DuplicatesAppendLines(t *testing.T) {
	db := setupTestDB(t)
	cartService := newCartService(db)
	user := createTestUser(t, db, "alice")
	item := createTestMenuItem(t, db, "Greek Salad", 12.00)

	_, err := cartService.AddItem(user.ID, item.ID, 1)
	require.NoError(t, err)
	_, err = cartService.AddItem(user.ID, item.ID, 3)
	require.NoError(t, err)

	lines, err := cartService.ListItems(user.ID)
	require.NoError(t, err)
	assert.Len(t, lines, 2)
}

func TestCartService_ListItems_ScopedToUser(t *testing.T) {
	db := setupTestDB(t)
	cartService := newCartService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	item := createTestMenuItem(t, db, "Greek Salad", 12.00)

	_, err := cartService.AddItem(alice.ID, item.ID, 1)
	require.NoError(t, err)

	bobLines, err := cartService.ListItems(bob.ID)
	require.NoError(t, err)
	assert.Empty(t, bobLines)

	aliceLines, err := cartService.ListItems(alice.ID)
	require.NoError(t, err)
	assert.Len(t, aliceLines, 1)
}

func TestCartService_Clear_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	cartService := newCartService(db)
	user := createTestUser(t, db, "alice")
	item := createTestMenuItem(t, db, "Greek Salad", 12.00)

	_, err := cartService.AddItem(user.ID, item.ID, 1)
	require.NoError(t, err)

	require.NoError(t, cartService.Clear(user.ID))
	lines, err := cartService.ListItems(user.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)

	// Clearing an already empty cart succeeds.
	assert.NoError(t, cartService.Clear(user.ID))
}
