package handlers

import (
	"errors"
	"strings"

	"github.com/charmcard/charm-backend/internal/dto"
	"github.com/charmcard/charm-backend/internal/middleware"
	"github.com/charmcard/charm-backend/internal/services"
	"github.com/charmcard/charm-backend/internal/vcf"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ScanHandler struct {
	scanService *services.ScanService
}

func NewScanHandler(scanService *services.ScanService) *ScanHandler {
	return &ScanHandler{scanService: scanService}
}

// Track is the public scan-ingestion endpoint: it records the scan, fans out
// notifications, and answers with the card's contact file.
func (h *ScanHandler) Track(c *fiber.Ctx) error {
	cardID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid card id")
	}

	var req dto.TrackRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
	}

	meta := services.ScanMeta{
		IP:        clientIP(c),
		UserAgent: c.Get(fiber.HeaderUserAgent),
		Platform:  c.Get("X-Platform"),
	}

	card, err := h.scanService.Track(c.Context(), cardID, &req, meta)
	if err != nil {
		if errors.Is(err, services.ErrCardNotFound) {
			return notFound(c, "Card not found")
		}
		return serverError(c)
	}

	c.Set(fiber.HeaderContentType, vcf.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+vcf.Filename+`"`)
	return c.SendString(vcf.Encode(card))
}

// MyLogs lists scans across all of the requester's cards.
func (h *ScanHandler) MyLogs(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c, "Unauthorized")
	}

	logs, err := h.scanService.LogsByOwner(userID)
	if err != nil {
		return serverError(c)
	}
	return c.JSON(logs)
}

// CardLogs lists scans of one card; owner or admin only.
func (h *ScanHandler) CardLogs(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c, "Unauthorized")
	}
	cardID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid card id")
	}

	logs, err := h.scanService.LogsByCard(cardID)
	if err != nil {
		return serverError(c)
	}

	if !middleware.GetRole(c).IsAdmin() {
		for _, l := range logs {
			if l.UserID != userID {
				return forbidden(c, "Not your card")
			}
		}
	}
	return c.JSON(logs)
}

// clientIP prefers the first proxy-forwarded address, falling back to the
// socket peer.
func clientIP(c *fiber.Ctx) string {
	if xff := c.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}
	return c.IP()
}
