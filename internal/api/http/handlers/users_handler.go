package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/record-service/internal/api/dto"
	"github.com/spec-kit/record-service/internal/auth"
	"github.com/spec-kit/record-service/internal/service"
	apperrors "github.com/spec-kit/record-service/pkg/util"
)

// UsersHandler exposes profile endpoints for the authenticated user.
type UsersHandler struct {
	auth *service.AuthService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService) *UsersHandler {
	return &UsersHandler{auth: authService}
}

// Profile handles GET /api/user/profile.
func (h *UsersHandler) Profile(c *fiber.Ctx) error {
	identity, err := auth.RequireIdentity(c)
	if err != nil {
		return apperrors.NewUnauthorized("not authenticated")
	}

	user, err := h.auth.GetProfile(c.Context(), identity.Subject)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(dto.NewUserInfo(user)))
}

// UpdateProfile handles PUT /api/user/profile.
func (h *UsersHandler) UpdateProfile(c *fiber.Ctx) error {
	identity, err := auth.RequireIdentity(c)
	if err != nil {
		return apperrors.NewUnauthorized("not authenticated")
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}

	user, err := h.auth.UpdateProfile(c.Context(), identity.Subject, service.ProfileUpdate{
		Email:  req.Email,
		Phone:  req.Phone,
		Avatar: req.Avatar,
		Remark: req.Remark,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(dto.NewUserInfo(user)))
}

// Status handles GET /api/user/status.
func (h *UsersHandler) Status(c *fiber.Ctx) error {
	_, ok := auth.IdentityFromContext(c)
	return c.JSON(dto.OK(ok))
}
