package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmcard/charm-backend/internal/config"
	"github.com/charmcard/charm-backend/internal/dto"
	"github.com/charmcard/charm-backend/internal/middleware"
	"github.com/charmcard/charm-backend/internal/qr"
	"github.com/charmcard/charm-backend/internal/services"
	"github.com/charmcard/charm-backend/internal/vcf"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CardHandler struct {
	cardService *services.CardService
	cfg         *config.Config
}

func NewCardHandler(cardService *services.CardService, cfg *config.Config) *CardHandler {
	return &CardHandler{cardService: cardService, cfg: cfg}
}

func (h *CardHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c, "Unauthorized")
	}

	req, photoPath, err := h.parseCardForm(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	card, err := h.cardService.Create(userID, req, photoPath)
	if err != nil {
		if errors.Is(err, services.ErrBillingRequired) {
			return forbidden(c, "Card creation requires an active billing status")
		}
		return badRequest(c, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(card)
}

func (h *CardHandler) ListMine(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c, "Unauthorized")
	}

	cards, err := h.cardService.ListByOwner(userID)
	if err != nil {
		return serverError(c)
	}
	return c.JSON(cards)
}

func (h *CardHandler) Get(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c, "Unauthorized")
	}
	cardID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid card id")
	}

	card, err := h.cardService.Get(cardID, userID, middleware.GetRole(c))
	if err != nil {
		return cardError(c, err)
	}
	return c.JSON(card)
}

func (h *CardHandler) Update(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c, "Unauthorized")
	}
	cardID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid card id")
	}

	req, photoPath, err := h.parseCardForm(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	card, err := h.cardService.Update(cardID, userID, middleware.GetRole(c), req, photoPath)
	if err != nil {
		return cardError(c, err)
	}
	return c.JSON(card)
}

func (h *CardHandler) Delete(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c, "Unauthorized")
	}
	cardID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid card id")
	}

	if err := h.cardService.Delete(cardID, userID, middleware.GetRole(c)); err != nil {
		return cardError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Card deleted"})
}

// GetPublic serves the unauthenticated card view the QR link lands on.
func (h *CardHandler) GetPublic(c *fiber.Ctx) error {
	cardID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid card id")
	}

	card, err := h.cardService.GetPublic(cardID)
	if err != nil {
		return notFound(c, "Card not found")
	}
	return c.JSON(card)
}

// QR renders the PNG QR code pointing at the public card view.
func (h *CardHandler) QR(c *fiber.Ctx) error {
	cardID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid card id")
	}
	if _, err := h.cardService.GetPublic(cardID); err != nil {
		return notFound(c, "Card not found")
	}

	size, _ := strconv.Atoi(c.Query("size"))
	png, err := qr.CardPNG(h.cfg.PublicBaseURL, cardID.String(), size)
	if err != nil {
		slog.Error("qr encode failed", "error", err, "card_id", cardID.String())
		return serverError(c)
	}

	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}

// VCF serves the contact-file download for a card.
func (h *CardHandler) VCF(c *fiber.Ctx) error {
	cardID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid card id")
	}

	card, err := h.cardService.GetPublic(cardID)
	if err != nil {
		return notFound(c, "Card not found")
	}

	c.Set(fiber.HeaderContentType, vcf.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+vcf.Filename+`"`)
	return c.SendString(vcf.Encode(card))
}

// parseCardForm accepts either a JSON body or multipart form data. In the
// multipart case the list/map fields arrive as JSON strings and an optional
// photo file is saved to the upload dir.
func (h *CardHandler) parseCardForm(c *fiber.Ctx) (*dto.CardRequest, string, error) {
	var req dto.CardRequest

	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		if err := c.BodyParser(&req); err != nil {
			return nil, "", errors.New("invalid request body")
		}
		return &req, "", nil
	}

	req.Name = c.FormValue("name")
	req.Title = c.FormValue("title")
	if err := decodeFormJSON(c.FormValue("phones"), &req.Phones); err != nil {
		return nil, "", errors.New("invalid phones field")
	}
	if err := decodeFormJSON(c.FormValue("emails"), &req.Emails); err != nil {
		return nil, "", errors.New("invalid emails field")
	}
	if err := decodeFormJSON(c.FormValue("socials"), &req.Socials); err != nil {
		return nil, "", errors.New("invalid socials field")
	}
	if err := decodeFormJSON(c.FormValue("other_links"), &req.OtherLinks); err != nil {
		return nil, "", errors.New("invalid other_links field")
	}

	photoPath := ""
	if file, err := c.FormFile("photo"); err == nil {
		name := uuid.New().String() + filepath.Ext(file.Filename)
		if err := c.SaveFile(file, filepath.Join(h.cfg.UploadDir, name)); err != nil {
			return nil, "", errors.New("failed to store photo")
		}
		photoPath = "/uploads/" + name
	}

	return &req, photoPath, nil
}

func decodeFormJSON(raw string, out interface{}) error {
	if raw == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw), out)
}

func cardError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrCardNotFound):
		return notFound(c, "Card not found")
	case errors.Is(err, services.ErrNotCardOwner):
		return forbidden(c, "Not your card")
	default:
		return badRequest(c, err.Error())
	}
}
