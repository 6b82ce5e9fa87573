package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/SZL741023/Restaurant-API/internal/middleware"
	"github.com/SZL741023/Restaurant-API/internal/services"
)

// GroupHandler handles Manager and Delivery Crew group membership
// endpoints. The Manager-only policy check runs in the route middleware,
// before any lookup of the target user.
type GroupHandler struct {
	service  *services.GroupService
	validate *validator.Validate
}

// NewGroupHandler creates a new GroupHandler.
func NewGroupHandler(service *services.GroupService) *GroupHandler {
	return &GroupHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers both group endpoints under /groups.
func (h *GroupHandler) RegisterRoutes(router fiber.Router) {
	h.registerGroup(router, "/groups/manager/users", services.GroupManager)
	h.registerGroup(router, "/groups/delivery-crew/users", services.GroupDeliveryCrew)
}

func (h *GroupHandler) registerGroup(router fiber.Router, path, group string) {
	resource := services.GroupResource(group)
	read := middleware.RequireAccess(resource, services.OpRead)
	write := middleware.RequireAccess(resource, services.OpWrite)

	routes := router.Group(path)
	routes.Get("/", read, h.handleList(group))
	routes.Post("/", write, h.handleAdd(group))
	routes.Get("/:id", read, h.handleGet(group))
	routes.Delete("/:id", write, h.handleRemove(group))
}

// MemberRequest is the request body for adding a user to a group.
type MemberRequest struct {
	Username string `json:"username" validate:"required"`
}

func (h *GroupHandler) handleList(group string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, _ := middleware.PrincipalFromCtx(c)
		users, err := h.service.ListMembers(principal, group)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(users)
	}
}

func (h *GroupHandler) handleAdd(group string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req MemberRequest
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
		if err := h.service.AddMember(principal, group, req.Username); err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "User added to " + group + " group",
		})
	}
}

func (h *GroupHandler) handleGet(group string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, _ := middleware.PrincipalFromCtx(c)
		user, err := h.service.GetMember(principal, group, c.Params("id"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(user)
	}
}

func (h *GroupHandler) handleRemove(group string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, _ := middleware.PrincipalFromCtx(c)
		if err := h.service.RemoveMember(principal, group, c.Params("id")); err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{
			"message": "User removed from " + group + " group",
		})
	}
}
