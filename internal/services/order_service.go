package services

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/SZL741023/Restaurant-API/internal/models"
	"github.com/SZL741023/Restaurant-API/internal/repositories"
	"github.com/SZL741023/Restaurant-API/pkg/rabbitmq"
)

// OrderService owns the cart-to-order conversion pipeline and the
// Pending -> Delivered state machine.
type OrderService struct {
	db        *gorm.DB
	orderRepo repositories.OrderRepository
	cartRepo  repositories.CartRepository
	userRepo  repositories.UserRepository
	mqClient  *rabbitmq.Client
}

// NewOrderService creates a new OrderService. mqClient may be nil, in
// which case event publication is skipped.
func NewOrderService(
	db *gorm.DB,
	orderRepo repositories.OrderRepository,
	cartRepo repositories.CartRepository,
	userRepo repositories.UserRepository,
	mqClient *rabbitmq.Client,
) *OrderService {
	return &OrderService{
		db:        db,
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		userRepo:  userRepo,
		mqClient:  mqClient,
	}
}

// PlaceOrder converts the user's cart into an order. The cart read, the
// order write and the cart drain share one transaction: either the
// order and all its items exist and the cart is empty, or nothing
// changed. The drain is a compare-and-clear: if it removes fewer lines
// than were read, a concurrent submission consumed the same cart, and
// the whole transaction rolls back instead of committing a duplicate
// order. This holds under READ COMMITTED, where both transactions can
// read the same lines but only one drain matches them.
//
// deliveryCrewID optionally assigns a crew member at creation; the
// handler only forwards it for principals the policy allows to assign.
func (s *OrderService) PlaceOrder(userID, deliveryCrewID string) (*models.Order, error) {
	var crewRef *string
	if deliveryCrewID != "" {
		crew, err := s.userRepo.GetByID(deliveryCrewID)
		if err != nil {
			return nil, translateNotFound(err)
		}
		member, err := s.userRepo.IsInGroup(crew.ID, GroupDeliveryCrew)
		if err != nil {
			return nil, err
		}
		if !member {
			return nil, fmt.Errorf("%w: user %s is not a delivery crew member", ErrValidation, crew.Username)
		}
		crewRef = &crew.ID
	}

	var order *models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		lines, err := s.cartRepo.ListByUser(tx, userID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		var total float64
		items := make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			total += line.Price
			items = append(items, models.OrderItem{
				MenuItemID: line.MenuItemID,
				Quantity:   line.Quantity,
				UnitPrice:  line.UnitPrice,
				Price:      line.Price,
			})
		}

		order = &models.Order{
			UserID:         userID,
			DeliveryCrewID: crewRef,
			Status:         models.StatusPending,
			Total:          total,
			Date:           time.Now(),
			Items:          items,
		}
		if err := s.orderRepo.Create(tx, order); err != nil {
			return err
		}
		drained, err := s.cartRepo.Clear(tx, userID)
		if err != nil {
			return err
		}
		if drained != int64(len(lines)) {
			return fmt.Errorf("%w: cart was consumed by a concurrent submission", ErrEmptyCart)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(rabbitmq.OrderEvent{
		Type:    rabbitmq.EventOrderCreated,
		OrderID: order.ID,
		UserID:  order.UserID,
		Total:   order.Total,
	})
	return order, nil
}

// ListOrders returns the orders visible to the actor: Managers see all,
// Delivery Crew see orders assigned to them, Customers see their own.
func (s *OrderService) ListOrders(actor Principal) ([]models.Order, error) {
	switch actor.Role {
	case RoleManager:
		return s.orderRepo.ListAll()
	case RoleDeliveryCrew:
		return s.orderRepo.ListByDeliveryCrew(actor.UserID)
	default:
		return s.orderRepo.ListByUser(actor.UserID)
	}
}

// GetOrder returns a single order. Readable by its owner, the delivery
// crew member it is assigned to, or a Manager.
func (s *OrderService) GetOrder(actor Principal, orderID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, translateNotFound(err)
	}
	if actor.Role == RoleManager || order.UserID == actor.UserID {
		return order, nil
	}
	if order.DeliveryCrewID != nil && *order.DeliveryCrewID == actor.UserID {
		return order, nil
	}
	return nil, fmt.Errorf("%w: order %s does not belong to you", ErrForbidden, orderID)
}

// AssignDeliveryCrew sets the order's delivery crew reference. The
// target must be an existing Delivery Crew member. Reassignment is
// allowed while the order is still pending.
func (s *OrderService) AssignDeliveryCrew(orderID, crewID string) (*models.Order, error) {
	crew, err := s.userRepo.GetByID(crewID)
	if err != nil {
		return nil, translateNotFound(err)
	}
	member, err := s.userRepo.IsInGroup(crew.ID, GroupDeliveryCrew)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, fmt.Errorf("%w: user %s is not a delivery crew member", ErrValidation, crew.Username)
	}

	affected, err := s.orderRepo.AssignDeliveryCrew(orderID, crew.ID)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		order, err := s.orderRepo.GetByID(orderID)
		if err != nil {
			return nil, translateNotFound(err)
		}
		return nil, fmt.Errorf("%w: order %s is already delivered", ErrValidation, order.ID)
	}

	s.publish(rabbitmq.OrderEvent{
		Type:           rabbitmq.EventOrderAssigned,
		OrderID:        orderID,
		DeliveryCrewID: crew.ID,
	})
	return s.orderRepo.GetByID(orderID)
}

// MarkDelivered flips the order from Pending to Delivered. Marking an
// already-delivered order again is a no-op success.
func (s *OrderService) MarkDelivered(orderID string) (*models.Order, error) {
	affected, err := s.orderRepo.MarkDelivered(orderID)
	if err != nil {
		return nil, err
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, translateNotFound(err)
	}
	if affected > 0 {
		s.publish(rabbitmq.OrderEvent{
			Type:    rabbitmq.EventOrderDelivered,
			OrderID: order.ID,
			UserID:  order.UserID,
		})
	}
	return order, nil
}

// DeleteOrder removes the order and its items, from any state.
func (s *OrderService) DeleteOrder(orderID string) error {
	affected, err := s.orderRepo.Delete(orderID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: order %s", ErrNotFound, orderID)
	}
	return nil
}

// publish sends an order event, best effort. A nil client or a publish
// failure never fails the request that triggered the event.
func (s *OrderService) publish(event rabbitmq.OrderEvent) {
	if s.mqClient == nil {
		return
	}
	if err := s.mqClient.PublishOrderEvent(event); err != nil {
		log.Printf("Warning: failed to publish %s event for order %s: %v", event.Type, event.OrderID, err)
	}
}
