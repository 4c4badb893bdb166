package handlers

import (
	"errors"

	"github.com/charmcard/charm-backend/internal/dto"
	"github.com/charmcard/charm-backend/internal/middleware"
	"github.com/charmcard/charm-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type NotificationHandler struct {
	notifications *services.NotificationService
}

func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c, "Unauthorized")
	}

	rows, err := h.notifications.ListForUser(userID)
	if err != nil {
		return serverError(c)
	}
	return c.JSON(rows)
}

func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c, "Unauthorized")
	}

	n, err := h.notifications.UnreadCount(userID)
	if err != nil {
		return serverError(c)
	}
	return c.JSON(fiber.Map{"unread": n})
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c, "Unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid notification id")
	}

	if err := h.notifications.MarkRead(userID, id); err != nil {
		if errors.Is(err, services.ErrNotificationNotFound) {
			return notFound(c, "Notification not found")
		}
		return serverError(c)
	}
	return c.JSON(dto.MessageResponse{Message: "Marked as read"})
}

func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c, "Unauthorized")
	}

	if err := h.notifications.MarkAllRead(userID); err != nil {
		return serverError(c)
	}
	return c.JSON(dto.MessageResponse{Message: "All marked as read"})
}

func (h *NotificationHandler) Delete(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c, "Unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid notification id")
	}

	if err := h.notifications.Delete(userID, id); err != nil {
		if errors.Is(err, services.ErrNotificationNotFound) {
			return notFound(c, "Notification not found")
		}
		return serverError(c)
	}
	return c.JSON(dto.MessageResponse{Message: "Notification deleted"})
}

func (h *NotificationHandler) DeleteAll(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c, "Unauthorized")
	}

	if err := h.notifications.DeleteAll(userID); err != nil {
		return serverError(c)
	}
	return c.JSON(dto.MessageResponse{Message: "Notifications deleted"})
}
