package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/deputyJo/ironcart-backend/internal/apperr"
	applog "github.com/deputyJo/ironcart-backend/internal/log"
	"github.com/deputyJo/ironcart-backend/internal/services"
)

type UserHandler struct {
	Auth *services.AuthService
}

type registerRequest struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	CaptchaToken string `json:"captchaToken"`
}

// Register creates an unverified account and triggers the verification mail.
func (h *UserHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}

	u, err := h.Auth.Register(req.Username, req.Email, req.Password, req.CaptchaToken)
	if err != nil {
		return err
	}

	applog.Audit(c, "user.register", map[string]any{"email": u.Email})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Registration successful. Please check your email to verify your account.",
		"user": fiber.Map{
			"id":       u.ID,
			"username": u.Username,
			"email":    u.Email,
		},
	})
}

// Verify consumes the emailed verification token.
func (h *UserHandler) Verify(c *fiber.Ctx) error {
	if err := h.Auth.VerifyEmail(c.Params("token")); err != nil {
		return err
	}
	applog.Audit(c, "user.verify", nil)
	return c.JSON(fiber.Map{"message": "Email verified successfully. You can now log in."})
}
