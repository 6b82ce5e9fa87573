package repositories

import (
	"gorm.io/gorm"

	"github.com/SZL741023/Restaurant-API/internal/models"
)

// CartRepository defines the interface for cart line data access.
// Every method takes the *gorm.DB handle to run against so that the
// order conversion pipeline can pass its transaction and have the cart
// read, the order write and the cart drain share one boundary.
type CartRepository interface {
	ListByUser(db *gorm.DB, userID string) ([]models.CartLine, error)
	Insert(db *gorm.DB, line *models.CartLine) error
	// Clear drains the user's cart and reports how many lines it
	// removed, so the conversion pipeline can detect a cart that
	// changed between its read and its drain.
	Clear(db *gorm.DB, userID string) (int64, error)
}
