package handlers

import (
	"github.com/charmcard/charm-backend/internal/dto"
	"github.com/charmcard/charm-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ContactHandler struct {
	contactService *services.ContactService
}

func NewContactHandler(contactService *services.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

func (h *ContactHandler) SubmitComplaint(c *fiber.Ctx) error {
	var req dto.ComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	row, err := h.contactService.SubmitComplaint(&req)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(row)
}

func (h *ContactHandler) SubmitFeedback(c *fiber.Ctx) error {
	var req dto.FeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	row, err := h.contactService.SubmitFeedback(&req)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(row)
}

func (h *ContactHandler) ListComplaints(c *fiber.Ctx) error {
	rows, err := h.contactService.ListComplaints()
	if err != nil {
		return serverError(c)
	}
	return c.JSON(rows)
}

func (h *ContactHandler) ListFeedback(c *fiber.Ctx) error {
	rows, err := h.contactService.ListFeedback()
	if err != nil {
		return serverError(c)
	}
	return c.JSON(rows)
}
