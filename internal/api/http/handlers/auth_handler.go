package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/record-service/internal/api/dto"
	"github.com/spec-kit/record-service/internal/auth"
	"github.com/spec-kit/record-service/internal/service"
	apperrors "github.com/spec-kit/record-service/pkg/util"
)

// AuthHandler exposes login, logout, refresh and validation endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	if req.UserName == "" || req.Password == "" {
		return apperrors.NewBadRequest("username and password required")
	}

	user, session, err := h.auth.Login(c.Context(), req.UserName, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(dto.OK(dto.LoginResponse{
		Token:     session.Token,
		TokenType: "Bearer",
		ExpiresAt: session.ExpiresAt,
		UserInfo:  dto.NewUserInfo(user),
	}))
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	if req.UserName == "" || req.Password == "" {
		return apperrors.NewBadRequest("username and password required")
	}
	if req.Password != req.ConfirmPassword {
		return apperrors.NewBadRequest("passwords do not match")
	}

	user, session, err := h.auth.Register(c.Context(), service.RegisterParams{
		UserName: req.UserName,
		Password: req.Password,
		Email:    req.Email,
		Phone:    req.Phone,
		Avatar:   req.Avatar,
		Remark:   req.Remark,
	})
	if err != nil {
		return err
	}

	return c.JSON(dto.OK(dto.LoginResponse{
		Token:     session.Token,
		TokenType: "Bearer",
		ExpiresAt: session.ExpiresAt,
		UserInfo:  dto.NewUserInfo(user),
	}))
}

// Logout handles POST /api/auth/logout for the current token.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	identity, err := auth.RequireIdentity(c)
	if err != nil {
		return apperrors.NewUnauthorized("not authenticated")
	}
	token := auth.ExtractFromHeader(c.Get(fiber.HeaderAuthorization))
	if token == "" {
		return apperrors.NewUnauthorized("missing token")
	}

	if err := h.auth.Logout(c.Context(), identity.Subject, token); err != nil {
		return apperrors.NewUnauthorized("token already invalid")
	}
	return c.JSON(dto.OK("logged out"))
}

// Refresh handles POST /api/auth/refresh for the current token.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	token := auth.ExtractFromHeader(c.Get(fiber.HeaderAuthorization))
	if token == "" {
		return apperrors.NewUnauthorized("missing token")
	}

	session, err := h.auth.Refresh(c.Context(), token)
	if err != nil {
		return apperrors.NewUnauthorized("invalid or expired token")
	}
	return c.JSON(dto.OK(dto.LoginResponse{
		Token:     session.Token,
		TokenType: "Bearer",
		ExpiresAt: session.ExpiresAt,
	}))
}

// Validate handles POST /api/auth/validate. It is excluded from the
// auth gate so clients can probe token state without tripping a 401.
func (h *AuthHandler) Validate(c *fiber.Ctx) error {
	token := auth.ExtractFromHeader(c.Get(fiber.HeaderAuthorization))
	if token == "" {
		return c.JSON(dto.OK(false))
	}
	return c.JSON(dto.OK(h.auth.ValidateToken(token)))
}

// CheckUserName handles GET /api/auth/check-username.
func (h *AuthHandler) CheckUserName(c *fiber.Ctx) error {
	userName := c.Query("userName")
	if userName == "" {
		return apperrors.NewBadRequest("userName required")
	}
	available, err := h.auth.IsUserNameAvailable(c.Context(), userName)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(available))
}

// CheckEmail handles GET /api/auth/check-email.
func (h *AuthHandler) CheckEmail(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return apperrors.NewBadRequest("email required")
	}
	available, err := h.auth.IsEmailAvailable(c.Context(), email)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(available))
}

// CheckPhone handles GET /api/auth/check-phone.
func (h *AuthHandler) CheckPhone(c *fiber.Ctx) error {
	phone := c.Query("phone")
	if phone == "" {
		return apperrors.NewBadRequest("phone required")
	}
	available, err := h.auth.IsPhoneAvailable(c.Context(), phone)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(available))
}
