package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/deputyJo/ironcart-backend/internal/apperr"
	applog "github.com/deputyJo/ironcart-backend/internal/log"
	"github.com/deputyJo/ironcart-backend/internal/services"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type loginRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	CaptchaToken string `json:"captchaToken"`
}

func setRefreshCookie(c *fiber.Ctx, token string, ttl time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     "refreshToken",
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
		Expires:  time.Now().Add(ttl),
	})
}

// Login exchanges credentials for a short-lived access token and a refresh
// token cookie. Unknown email and wrong password produce the same response.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}

	u, access, refresh, err := h.Auth.Login(req.Email, req.Password, req.CaptchaToken)
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"email": req.Email})
		return err
	}

	setRefreshCookie(c, refresh, h.Auth.Tokens.RefreshTTL)
	applog.Audit(c, "auth.login.success", map[string]any{"email": u.Email})
	return c.JSON(fiber.Map{
		"accessToken": access,
		"user": fiber.Map{
			"id":       u.ID,
			"username": u.Username,
			"email":    u.Email,
			"role":     u.Role,
		},
	})
}

// Refresh mints a new access token from the refresh cookie. A missing cookie
// and an invalid one are both 403.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	cookie := c.Cookies("refreshToken")
	if cookie == "" {
		return apperr.Forbidden("Refresh token missing")
	}
	access, err := h.Auth.Refresh(cookie)
	if err != nil {
		applog.Security(c, "auth.refresh.fail", nil)
		return err
	}
	return c.JSON(fiber.Map{"accessToken": access})
}

// Logout expires the refresh cookie. Access tokens simply age out.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     "refreshToken",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
		Expires:  time.Now().Add(-time.Hour),
	})
	applog.Audit(c, "auth.logout", nil)
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}
