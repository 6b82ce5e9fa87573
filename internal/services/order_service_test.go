package services_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/SZL741023/Restaurant-API/internal/models"
	"github.com/SZL741023/Restaurant-API/internal/repositories"
	"github.com/SZL741023/Restaurant-API/internal/services"
)

func newOrderService(db *gorm.DB) *services.OrderService {
	return services.NewOrderService(
		db,
		repositories.NewGORMOrderRepository(db),
		repositories.NewGORMCartRepository(),
		repositories.NewGORMUserRepository(db),
		nil, // no RabbitMQ client in tests
	)
}

func principalFor(user *models.User, role services.Role) services.Principal {
	return services.Principal{UserID: user.ID, Username: user.Username, Role: role}
}

func TestOrderService_PlaceOrder_ConvertsCart(t *testing.T) {
	db := setupTestDB(t)
	cartService := newCartService(db)
	orderService := newOrderService(db)
	user := createTestUser(t, db, "alice")
	salad := createTestMenuItem(t, db, "Greek Salad", 12.00)
	dessert := createTestMenuItem(t, db, "Lemon Dessert", 5.00)

	_, err := cartService.AddItem(user.ID, salad.ID, 2)
	require.NoError(t, err)
	_, err = cartService.AddItem(user.ID, dessert.ID, 1)
	require.NoError(t, err)

	order, err := orderService.PlaceOrder(user.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 29.00, order.Total)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.False(t, order.Date.IsZero())
	require.Len(t, order.Items, 2)

	// Every order item matches its source cart line, and the item
	// prices sum to the order total.
	var itemTotal float64
	for _, item := range order.Items {
		assert.Equal(t, float64(item.Quantity)*item.UnitPrice, item.Price)
		itemTotal += item.Price
	}
	assert.Equal(t, order.Total, itemTotal)

	// The cart is fully drained.
	lines, err := cartService.ListItems(user.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestOrderService_PlaceOrder_EmptyCart(t *testing.T) {
	db := setupTestDB(t)
	orderService := newOrderService(db)
	user := createTestUser(t, db, "alice")

	_, err := orderService.PlaceOrder(user.ID, "")
	assert.True(t, errors.Is(err, services.ErrEmptyCart))

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count, "no order may be created from an empty cart")
}

func TestOrderService_PlaceOrder_SecondSubmissionFails(t *testing.T) {
	db := setupTestDB(t)
	cartService := newCartService(db)
	orderService := newOrderService(db)
	user := createTestUser(t, db, "alice")
	salad := createTestMenuItem(t, db, "Greek Salad", 12.00)

	_, err := cartService.AddItem(user.ID, salad.ID, 1)
	require.NoError(t, err)

	_, err = orderService.PlaceOrder(user.ID, "")
	require.NoError(t, err)

	// The first conversion drained the cart, so a duplicate submission
	// cannot create a second order.
	_, err = orderService.PlaceOrder(user.ID, "")
	assert.True(t, errors.Is(err, services.ErrEmptyCart))
}

// failingOrderRepo refuses to create orders, standing in for a write
// failure mid conversion.
type failingOrderRepo struct {
	repositories.OrderRepository
}

func (r *failingOrderRepo) Create(db *gorm.DB, order *models.Order) error {
	return errors.New("order insert rejected")
}

// drainedCartRepo reads lines normally but reports that the drain
// removed nothing, which is what the pipeline sees when a concurrent
// submission consumed the same cart rows first.
type drainedCartRepo struct {
	repositories.CartRepository
}

func (r *drainedCartRepo) Clear(db *gorm.DB, userID string) (int64, error) {
	return 0, nil
}

func TestOrderService_PlaceOrder_RollsBackOnWriteFailure(t *testing.T) {
	db := setupTestDB(t)
	cartService := newCartService(db)
	orderService := services.NewOrderService(
		db,
		&failingOrderRepo{repositories.NewGORMOrderRepository(db)},
		repositories.NewGORMCartRepository(),
		repositories.NewGORMUserRepository(db),
		nil,
	)
	user := createTestUser(t, db, "alice")
	item := createTestMenuItem(t, db, "Greek Salad", 12.00)

	_, err := cartService.AddItem(user.ID, item.ID, 2)
	require.NoError(t, err)

	_, err = orderService.PlaceOrder(user.ID, "")
	require.Error(t, err)

	// The failed conversion left the cart intact and wrote nothing.
	lines, err := cartService.ListItems(user.ID)
	require.NoError(t, err)
	assert.Len(t, lines, 1)

	var orderCount, itemCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&itemCount).Error)
	assert.Zero(t, orderCount)
	assert.Zero(t, itemCount)
}

func TestOrderService_PlaceOrder_ConcurrentDrainAborts(t *testing.T) {
	db := setupTestDB(t)
	cartService := newCartService(db)
	orderService := services.NewOrderService(
		db,
		repositories.NewGORMOrderRepository(db),
		&drainedCartRepo{repositories.NewGORMCartRepository()},
		repositories.NewGORMUserRepository(db),
		nil,
	)
	user := createTestUser(t, db, "alice")
	item := createTestMenuItem(t, db, "Greek Salad", 12.00)

	_, err := cartService.AddItem(user.ID, item.ID, 1)
	require.NoError(t, err)

	// The drain removed fewer lines than were read, so the conversion
	// must roll back rather than commit a second order over the same
	// cart.
	_, err = orderService.PlaceOrder(user.ID, "")
	assert.True(t, errors.Is(err, services.ErrEmptyCart))

	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	assert.Zero(t, orderCount)
}

func TestOrderService_PlaceOrder_WithCrewAssignment(t *testing.T) {
	db := setupTestDB(t)
	seedGroups(t, db)
	cartService := newCartService(db)
	orderService := newOrderService(db)

	alice := createTestUser(t, db, "alice")
	crew := createTestUser(t, db, "carol", services.GroupDeliveryCrew)
	customer := createTestUser(t, db, "bob")
	item := createTestMenuItem(t, db, "Greek Salad", 12.00)

	_, err := cartService.AddItem(alice.ID, item.ID, 1)
	require.NoError(t, err)

	// A non-crew target fails before anything is persisted; the cart
	// survives untouched.
	_, err = orderService.PlaceOrder(alice.ID, customer.ID)
	assert.True(t, errors.Is(err, services.ErrValidation))
	lines, err := cartService.ListItems(alice.ID)
	require.NoError(t, err)
	assert.Len(t, lines, 1)

	order, err := orderService.PlaceOrder(alice.ID, crew.ID)
	require.NoError(t, err)
	require.NotNil(t, order.DeliveryCrewID)
	assert.Equal(t, crew.ID, *order.DeliveryCrewID)
}

func TestOrderService_ListOrders_RoleFiltered(t *testing.T) {
	db := setupTestDB(t)
	seedGroups(t, db)
	cartService := newCartService(db)
	orderService := newOrderService(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	crew := createTestUser(t, db, "carol", services.GroupDeliveryCrew)
	manager := createTestUser(t, db, "mallory", services.GroupManager)
	item := createTestMenuItem(t, db, "Greek Salad", 12.00)

	placeOrderFor := func(user *models.User) *models.Order {
		_, err := cartService.AddItem(user.ID, item.ID, 1)
		require.NoError(t, err)
		order, err := orderService.PlaceOrder(user.ID, "")
		require.NoError(t, err)
		return order
	}
	aliceOrder := placeOrderFor(alice)
	placeOrderFor(bob)

	_, err := orderService.AssignDeliveryCrew(aliceOrder.ID, crew.ID)
	require.NoError(t, err)

	managerOrders, err := orderService.ListOrders(principalFor(manager, services.RoleManager))
	require.NoError(t, err)
	assert.Len(t, managerOrders, 2)

	crewOrders, err := orderService.ListOrders(principalFor(crew, services.RoleDeliveryCrew))
	require.NoError(t, err)
	require.Len(t, crewOrders, 1)
	assert.Equal(t, aliceOrder.ID, crewOrders[0].ID)

	aliceOrders, err := orderService.ListOrders(principalFor(alice, services.RoleCustomer))
	require.NoError(t, err)
	require.Len(t, aliceOrders, 1)
	assert.Equal(t, aliceOrder.ID, aliceOrders[0].ID)
}

func TestOrderService_GetOrder_Access(t *testing.T) {
	db := setupTestDB(t)
	seedGroups(t, db)
	cartService := newCartService(db)
	orderService := newOrderService(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	crew := createTestUser(t, db, "carol", services.GroupDeliveryCrew)
	manager := createTestUser(t, db, "mallory", services.GroupManager)
	item := createTestMenuItem(t, db, "Greek Salad", 12.00)

	_, err := cartService.AddItem(alice.ID, item.ID, 1)
	require.NoError(t, err)
	order, err := orderService.PlaceOrder(alice.ID, "")
	require.NoError(t, err)
	_, err = orderService.AssignDeliveryCrew(order.ID, crew.ID)
	require.NoError(t, err)

	_, err = orderService.GetOrder(principalFor(alice, services.RoleCustomer), order.ID)
	assert.NoError(t, err, "owner may read")

	_, err = orderService.GetOrder(principalFor(manager, services.RoleManager), order.ID)
	assert.NoError(t, err, "manager may read")

	_, err = orderService.GetOrder(principalFor(crew, services.RoleDeliveryCrew), order.ID)
	assert.NoError(t, err, "assigned crew may read")

	_, err = orderService.GetOrder(principalFor(bob, services.RoleCustomer), order.ID)
	assert.True(t, errors.Is(err, services.ErrForbidden), "unrelated customer is denied")

	_, err = orderService.GetOrder(principalFor(alice, services.RoleCustomer), uuid.New().String())
	assert.True(t, errors.Is(err, services.ErrNotFound))
}

func TestOrderService_AssignDeliveryCrew(t *testing.T) {
	db := setupTestDB(t)
	seedGroups(t, db)
	cartService := newCartService(db)
	orderService := newOrderService(db)

	alice := createTestUser(t, db, "alice")
	crew := createTestUser(t, db, "carol", services.GroupDeliveryCrew)
	otherCrew := createTestUser(t, db, "dave", services.GroupDeliveryCrew)
	customer := createTestUser(t, db, "bob")
	item := createTestMenuItem(t, db, "Greek Salad", 12.00)

	_, err := cartService.AddItem(alice.ID, item.ID, 1)
	require.NoError(t, err)
	order, err := orderService.PlaceOrder(alice.ID, "")
	require.NoError(t, err)

	updated, err := orderService.AssignDeliveryCrew(order.ID, crew.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.DeliveryCrewID)
	assert.Equal(t, crew.ID, *updated.DeliveryCrewID)
	assert.Equal(t, models.StatusPending, updated.Status, "assignment does not change status")

	// Reassignment is allowed while the order is pending.
	updated, err = orderService.AssignDeliveryCrew(order.ID, otherCrew.ID)
	require.NoError(t, err)
	assert.Equal(t, otherCrew.ID, *updated.DeliveryCrewID)

	// The target must be an actual delivery crew member.
	_, err = orderService.AssignDeliveryCrew(order.ID, customer.ID)
	assert.True(t, errors.Is(err, services.ErrValidation))

	// Once delivered the crew reference is frozen.
	_, err = orderService.MarkDelivered(order.ID)
	require.NoError(t, err)
	_, err = orderService.AssignDeliveryCrew(order.ID, crew.ID)
	assert.True(t, errors.Is(err, services.ErrValidation))
}

func TestOrderService_MarkDelivered_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	cartService := newCartService(db)
	orderService := newOrderService(db)

	alice := createTestUser(t, db, "alice")
	item := createTestMenuItem(t, db, "Greek Salad", 12.00)
	_, err := cartService.AddItem(alice.ID, item.ID, 1)
	require.NoError(t, err)
	order, err := orderService.PlaceOrder(alice.ID, "")
	require.NoError(t, err)

	delivered, err := orderService.MarkDelivered(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDelivered, delivered.Status)

	// Marking again is a no-op success, not an error.
	delivered, err = orderService.MarkDelivered(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDelivered, delivered.Status)

	_, err = orderService.MarkDelivered(uuid.New().String())
	assert.True(t, errors.Is(err, services.ErrNotFound))
}

func TestOrderService_DeleteOrder(t *testing.T) {
	db := setupTestDB(t)
	cartService := newCartService(db)
	orderService := newOrderService(db)

	alice := createTestUser(t, db, "alice")
	item := createTestMenuItem(t, db, "Greek Salad", 12.00)
	_, err := cartService.AddItem(alice.ID, item.ID, 1)
	require.NoError(t, err)
	order, err := orderService.PlaceOrder(alice.ID, "")
	require.NoError(t, err)

	require.NoError(t, orderService.DeleteOrder(order.ID))

	_, err = orderService.GetOrder(principalFor(alice, services.RoleCustomer), order.ID)
	assert.True(t, errors.Is(err, services.ErrNotFound))

	var itemCount int64
	require.NoError(t, db.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).Count(&itemCount).Error)
	assert.Zero(t, itemCount, "order items are removed with the order")

	assert.True(t, errors.Is(orderService.DeleteOrder(order.ID), services.ErrNotFound))
}
