package handler

import (
	"go-papelaria-api/internal/middleware"
	"go-papelaria-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

const resetMessage = "Se o email estiver cadastrado, um link de recuperação foi enviado."

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest represents the login and signup request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest carries a refresh token for /auth/refresh and /auth/logout
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type ResetPasswordRequest struct {
	Email string `json:"email"`
}

// UpdatePasswordRequest accepts the recovery token from the link fragment when
// it is not sent as a bearer header.
type UpdatePasswordRequest struct {
	AccessToken string `json:"access_token"`
	Password    string `json:"password"`
}

// ValidateTokenRequest represents the validate token request body
type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// Login handles user authentication
// POST /auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	session, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(session)
}

// Signup registers a user and signs them in
// POST /auth/signup
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req LoginRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	session, err := h.authService.Signup(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(session)
}

// Refresh exchanges a refresh token for a new access token
// POST /auth/refresh
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	access, err := h.authService.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"accessToken": access})
}

// Logout revokes the refresh token
// POST /auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	if err := h.authService.Logout(c.UserContext(), req.RefreshToken); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ResetPassword sends a recovery link. The answer never reveals whether the
// email is registered.
// POST /auth/reset-password
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err == nil {
		h.authService.RequestPasswordReset(c.UserContext(), req.Email)
	}

	return c.JSON(fiber.Map{"message": resetMessage})
}

// UpdatePassword sets a new password using a recovery token
// POST /auth/update-password
func (h *AuthHandler) UpdatePassword(c *fiber.Ctx) error {
	var req UpdatePasswordRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	token := middleware.BearerToken(c.Get(fiber.HeaderAuthorization))
	if token == "" {
		token = req.AccessToken
	}

	if err := h.authService.UpdatePassword(c.UserContext(), token, req.Password); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Senha atualizada com sucesso"})
}

// ValidateToken reports the identity behind an access token
// POST /auth/validate-token
func (h *AuthHandler) ValidateToken(c *fiber.Ctx) error {
	var req ValidateTokenRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	id, err := h.authService.Authenticate(req.Token)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"valid": true, "user": id})
}
