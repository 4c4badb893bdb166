package handlers

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/charmcard/charm-backend/internal/config"
	"github.com/charmcard/charm-backend/internal/dto"
	"github.com/charmcard/charm-backend/internal/middleware"
	"github.com/charmcard/charm-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, cfg: cfg}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.authService.Register(&req)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return badRequest(c, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return unauthorized(c, err.Error())
		}
		return serverError(c)
	}

	return c.JSON(resp)
}

func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil || req.Email == "" {
		return badRequest(c, "Email is required")
	}

	if err := h.authService.ForgotPassword(req.Email); err != nil {
		slog.Error("forgot password failed", "error", err)
		return serverError(c)
	}

	// Same answer whether or not the account exists.
	return c.JSON(dto.MessageResponse{Message: "If the account exists, a code has been sent"})
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.authService.ResetPassword(&req); err != nil {
		if errors.Is(err, services.ErrInvalidOTP) {
			return unauthorized(c, err.Error())
		}
		return badRequest(c, err.Error())
	}

	return c.JSON(dto.MessageResponse{Message: "Password updated"})
}

func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c, "Unauthorized")
	}

	user, err := h.authService.GetProfile(userID)
	if err != nil {
		return notFound(c, "User not found")
	}
	return c.JSON(dto.NewUserResponse(user))
}

func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c, "Unauthorized")
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, err := h.authService.UpdateProfile(userID, &req)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return badRequest(c, err.Error())
	}
	return c.JSON(dto.NewUserResponse(user))
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c, "Unauthorized")
	}

	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.authService.ChangePassword(userID, &req); err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return unauthorized(c, "Incorrect password")
		}
		return badRequest(c, err.Error())
	}
	return c.JSON(dto.MessageResponse{Message: "Password changed"})
}

// UploadAvatar stores the profile photo in the upload dir and records its
// relative path. The previous photo file is removed.
func (h *AuthHandler) UploadAvatar(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c, "Unauthorized")
	}

	file, err := c.FormFile("photo")
	if err != nil {
		return badRequest(c, "photo file is required")
	}

	name := uuid.New().String() + filepath.Ext(file.Filename)
	if err := c.SaveFile(file, filepath.Join(h.cfg.UploadDir, name)); err != nil {
		slog.Error("avatar save failed", "error", err)
		return serverError(c)
	}

	old, err := h.authService.SetAvatar(userID, "/uploads/"+name)
	if err != nil {
		return serverError(c)
	}
	removeUpload(h.cfg.UploadDir, old)

	return c.JSON(dto.MessageResponse{Message: "/uploads/" + name})
}

func (h *AuthHandler) RemoveAvatar(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c, "Unauthorized")
	}

	old, err := h.authService.SetAvatar(userID, "")
	if err != nil {
		return serverError(c)
	}
	removeUpload(h.cfg.UploadDir, old)

	return c.JSON(dto.MessageResponse{Message: "Avatar removed"})
}

func (h *AuthHandler) DeleteAccount(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c, "Unauthorized")
	}

	var req dto.DeleteAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.authService.DeleteAccount(userID, req.Password); err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return unauthorized(c, "Incorrect password. Please try again.")
		}
		if errors.Is(err, services.ErrUserNotFound) {
			return notFound(c, "User not found")
		}
		return serverError(c)
	}
	return c.JSON(dto.MessageResponse{Message: "Account deleted"})
}

// removeUpload deletes a previously stored upload, ignoring failures — a
// stale file is not worth failing the request over.
func removeUpload(uploadDir, storedPath string) {
	if storedPath == "" {
		return
	}
	name := filepath.Base(storedPath)
	if err := os.Remove(filepath.Join(uploadDir, name)); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to remove upload", "path", storedPath, "error", err)
	}
}
