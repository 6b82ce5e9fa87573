package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/SZL741023/Restaurant-API/internal/middleware"
	"github.com/SZL741023/Restaurant-API/internal/services"
)

// OrderHandler handles HTTP requests for orders. Listing and placing
// orders is open to every authenticated principal; assignment, status
// update and deletion carry their own policy rows.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleListOrders)
	orderRoutes.Post("/", h.HandlePlaceOrder)
	orderRoutes.Get("/:id", h.HandleGetOrder)
	orderRoutes.Put("/:id",
		middleware.RequireAccess(services.ResourceOrderAssignment, services.OpWrite),
		h.HandleAssignDeliveryCrew)
	orderRoutes.Patch("/:id",
		middleware.RequireAccess(services.ResourceOrderStatus, services.OpWrite),
		h.HandleMarkDelivered)
	orderRoutes.Delete("/:id",
		middleware.RequireAccess(services.ResourceOrderAssignment, services.OpWrite),
		h.HandleDeleteOrder)
}

// HandleListOrders returns the orders visible to the caller's role.
func (h *OrderHandler) HandleListOrders(c *fiber.Ctx) error {
	principal, _ := middleware.PrincipalFromCtx(c)
	orders, err := h.service.ListOrders(principal)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(orders)
}

// PlaceOrderRequest is the optional request body for order placement.
type PlaceOrderRequest struct {
	DeliveryCrewID string `json:"delivery_crew_id"`
}

// HandlePlaceOrder converts the caller's cart into an order. A delivery
// crew assignment in the body is honored only for principals the policy
// allows to assign.
func (h *OrderHandler) HandlePlaceOrder(c *fiber.Ctx) error {
	principal, _ := middleware.PrincipalFromCtx(c)

	var req PlaceOrderRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid request body",
				"error":   err.Error(),
			})
		}
	}
	if req.DeliveryCrewID != "" &&
		!services.Authorize(principal.Role, services.ResourceOrderAssignment, services.OpWrite) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "You do not have permission to assign delivery crew",
		})
	}

	order, err := h.service.PlaceOrder(principal.UserID, req.DeliveryCrewID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleGetOrder returns a single order if the caller may see it.
func (h *OrderHandler) HandleGetOrder(c *fiber.Ctx) error {
	principal, _ := middleware.PrincipalFromCtx(c)
	order, err := h.service.GetOrder(principal, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

// AssignCrewRequest is the request body for delivery crew assignment.
type AssignCrewRequest struct {
	DeliveryCrewID string `json:"delivery_crew_id" validate:"required"`
}

// HandleAssignDeliveryCrew assigns a delivery crew member. Manager only.
func (h *OrderHandler) HandleAssignDeliveryCrew(c *fiber.Ctx) error {
	var req AssignCrewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationResponse(c, err)
	}

	order, err := h.service.AssignDeliveryCrew(c.Params("id"), req.DeliveryCrewID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

// HandleMarkDelivered flips the order to delivered. Delivery Crew or
// Manager. Repeating it on a delivered order is a no-op success.
func (h *OrderHandler) HandleMarkDelivered(c *fiber.Ctx) error {
	order, err := h.service.MarkDelivered(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

// HandleDeleteOrder removes the order and its items. Manager only.
func (h *OrderHandler) HandleDeleteOrder(c *fiber.Ctx) error {
	if err := h.service.DeleteOrder(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Order deleted",
	})
}
