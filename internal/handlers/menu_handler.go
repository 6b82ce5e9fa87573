package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/SZL741023/Restaurant-API/internal/middleware"
	"github.com/SZL741023/Restaurant-API/internal/models"
	"github.com/SZL741023/Restaurant-API/internal/services"
)

// MenuHandler handles HTTP requests for menu items and categories.
type MenuHandler struct {
	service  *services.MenuService
	validate *validator.Validate
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(service *services.MenuService) *MenuHandler {
	return &MenuHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers menu routes. Reads are open to every
// authenticated principal; writes go through the Manager-only policy.
func (h *MenuHandler) RegisterRoutes(router fiber.Router) {
	menuWrite := middleware.RequireAccess(services.ResourceMenuItems, services.OpWrite)

	menuRoutes := router.Group("/menu-items")
	menuRoutes.Get("/", h.HandleListMenuItems)
	menuRoutes.Post("/", menuWrite, h.HandleCreateMenuItem)
	menuRoutes.Get("/:id", h.HandleGetMenuItem)
	menuRoutes.Put("/:id", menuWrite, h.HandleUpdateMenuItem)
	menuRoutes.Delete("/:id", menuWrite, h.HandleDeleteMenuItem)

	categoryWrite := middleware.RequireAccess(services.ResourceCategories, services.OpWrite)

	categoryRoutes := router.Group("/categories")
	categoryRoutes.Get("/", h.HandleListCategories)
	categoryRoutes.Post("/", categoryWrite, h.HandleCreateCategory)
}

// HandleListMenuItems returns all menu items.
func (h *MenuHandler) HandleListMenuItems(c *fiber.Ctx) error {
	items, err := h.service.GetAllMenuItems()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(items)
}

// HandleGetMenuItem returns a single menu item.
func (h *MenuHandler) HandleGetMenuItem(c *fiber.Ctx) error {
	item, err := h.service.GetMenuItemByID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}

// HandleCreateMenuItem creates a menu item. Manager only.
func (h *MenuHandler) HandleCreateMenuItem(c *fiber.Ctx) error {
	var item models.MenuItem
	if err := c.BodyParser(&item); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(item); err != nil {
		return validationResponse(c, err)
	}
	if err := h.service.CreateMenuItem(&item); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// HandleUpdateMenuItem replaces a menu item. Manager only.
func (h *MenuHandler) HandleUpdateMenuItem(c *fiber.Ctx) error {
	var item models.MenuItem
	if err := c.BodyParser(&item); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	item.ID = c.Params("id")
	if err := h.validate.Struct(item); err != nil {
		return validationResponse(c, err)
	}
	if err := h.service.UpdateMenuItem(&item); err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}

// HandleDeleteMenuItem deletes a menu item. Manager only.
func (h *MenuHandler) HandleDeleteMenuItem(c *fiber.Ctx) error {
	if err := h.service.DeleteMenuItem(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Menu item deleted",
	})
}

// HandleListCategories returns all categories.
func (h *MenuHandler) HandleListCategories(c *fiber.Ctx) error {
	categories, err := h.service.GetAllCategories()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(categories)
}

// HandleCreateCategory creates a category. Manager only.
func (h *MenuHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var category models.Category
	if err := c.BodyParser(&category); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(category); err != nil {
		return validationResponse(c, err)
	}
	if err := h.service.CreateCategory(&category); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}
