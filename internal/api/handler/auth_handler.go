package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/boxwise/inventory/internal/core/domain"
	"github.com/boxwise/inventory/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new group with the caller as its owner.
//
// @Summary      Register a new household
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Owner and group details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		GroupName: req.GroupName,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, authResponse{Token: res.Token, User: res.User})
}

// Join creates an account inside an existing group.
//
// @Summary      Join a household with an invite code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      joinRequest  true  "Account details and invite code"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/auth/join [post]
func (h *AuthHandler) Join(c echo.Context) error {
	var req joinRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Join(c.Request().Context(), ports.JoinInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		InviteCode: req.InviteCode,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, authResponse{Token: res.Token, User: res.User})
}

// Login authenticates a user and returns a JWT token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, authResponse{Token: res.Token, User: res.User})
}

// Me returns the caller's account, permissions and group.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	p, err := h.authService.Me(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	res := profileResponse{User: p.User, Permissions: p.Permissions}
	if p.Group != nil {
		res.Group = &groupSummary{
			ID:           p.Group.ID,
			Name:         p.Group.Name,
			Subscription: p.Group.Subscription,
			Members:      len(p.Group.Members),
		}
	}
	return respond(c, http.StatusOK, res)
}

// UpdatePreferences replaces the caller's preferences.
//
// @Summary      Update preferences
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      preferencesRequest  true  "Preferences"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Router       /api/auth/preferences [put]
func (h *AuthHandler) UpdatePreferences(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req preferencesRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.authService.UpdatePreferences(c.Request().Context(), actor, domain.Preferences{
		Theme:          req.Theme,
		Currency:       req.Currency,
		DateFormat:     req.DateFormat,
		EmailReminders: req.EmailReminders,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, user)
}

// ChangePassword verifies the old password and stores the new one.
//
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Old and new password"
// @Success      200   {object}  envelope
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/auth/password [put]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req changePasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := h.authService.ChangePassword(c.Request().Context(), actor, req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "password updated")
}
