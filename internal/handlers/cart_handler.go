package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/SZL741023/Restaurant-API/internal/middleware"
	"github.com/SZL741023/Restaurant-API/internal/services"
)

// CartHandler handles the calling user's cart. Every operation is
// scoped to the authenticated principal; there is no way to address
// another user's cart.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart/menu-items")
	cartRoutes.Get("/", h.HandleListItems)
	cartRoutes.Post("/", h.HandleAddItem)
	cartRoutes.Delete("/", h.HandleClear)
}

// AddCartItemRequest is the request body for adding a cart line.
type AddCartItemRequest struct {
	MenuItemID string `json:"menu_item_id" validate:"required"`
	Quantity   int    `json:"quantity" validate:"required,min=1"`
}

// HandleListItems returns the caller's cart lines.
func (h *CartHandler) HandleListItems(c *fiber.Ctx) error {
	principal, _ := middleware.PrincipalFromCtx(c)
	lines, err := h.service.ListItems(principal.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(lines)
}

// HandleAddItem appends a line to the caller's cart.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationResponse(c, err)
	}

	principal, _ := middleware.PrincipalFromCtx(c)
	line, err := h.service.AddItem(principal.UserID, req.MenuItemID, req.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Item added to the cart",
		"line":    line,
	})
}

// HandleClear empties the caller's cart.
func (h *CartHandler) HandleClear(c *fiber.Ctx) error {
	principal, _ := middleware.PrincipalFromCtx(c)
	if err := h.service.Clear(principal.UserID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "All items are deleted",
	})
}
