package handlers

import (
	"errors"
	"log/slog"

	"github.com/charmcard/charm-backend/internal/dto"
	"github.com/charmcard/charm-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AdminHandler struct {
	adminService *services.AdminService
	statsService *services.StatsService
	scanService  *services.ScanService
}

func NewAdminHandler(adminService *services.AdminService, statsService *services.StatsService, scanService *services.ScanService) *AdminHandler {
	return &AdminHandler{adminService: adminService, statsService: statsService, scanService: scanService}
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	rows, err := h.statsService.UsersWithCounts()
	if err != nil {
		return serverError(c)
	}
	return c.JSON(rows)
}

func (h *AdminHandler) ListStaff(c *fiber.Ctx) error {
	rows, err := h.statsService.StaffWithCounts()
	if err != nil {
		return serverError(c)
	}
	return c.JSON(rows)
}

func (h *AdminHandler) ListCards(c *fiber.Ctx) error {
	rows, err := h.statsService.CardsWithCounts()
	if err != nil {
		return serverError(c)
	}
	return c.JSON(rows)
}

func (h *AdminHandler) ListScans(c *fiber.Ctx) error {
	rows, err := h.scanService.AllLogs()
	if err != nil {
		return serverError(c)
	}
	return c.JSON(rows)
}

func (h *AdminHandler) ListCardScans(c *fiber.Ctx) error {
	cardID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid card id")
	}
	rows, err := h.scanService.LogsByCard(cardID)
	if err != nil {
		return serverError(c)
	}
	return c.JSON(rows)
}

func (h *AdminHandler) CreateStaff(c *fiber.Ctx) error {
	var req dto.CreateStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	staff, err := h.adminService.CreateStaff(&req)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		if staff != nil {
			// Account exists; only credential mail failed.
			slog.Error("staff credential mail failed", "error", err, "user_id", staff.ID.String())
			return c.Status(fiber.StatusCreated).JSON(dto.NewUserResponse(staff))
		}
		return badRequest(c, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewUserResponse(staff))
}

func (h *AdminHandler) DeleteStaff(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid user id")
	}

	if err := h.adminService.DeleteStaff(id); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return notFound(c, "User not found")
		}
		if errors.Is(err, services.ErrNotStaff) {
			return badRequest(c, err.Error())
		}
		return serverError(c)
	}
	return c.JSON(dto.MessageResponse{Message: "Staff deleted"})
}

func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid user id")
	}

	if err := h.adminService.DeleteUser(id); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return notFound(c, "User not found")
		}
		return badRequest(c, err.Error())
	}
	return c.JSON(dto.MessageResponse{Message: "User deleted"})
}

func (h *AdminHandler) UpdateBills(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid user id")
	}

	var req dto.UpdateBillsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, err := h.adminService.SetBills(id, req.Bills)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return notFound(c, "User not found")
		}
		if errors.Is(err, services.ErrInvalidBillStatus) {
			return badRequest(c, err.Error())
		}
		return serverError(c)
	}
	return c.JSON(dto.NewUserResponse(user))
}
