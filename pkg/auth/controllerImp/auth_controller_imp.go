package controllerImp

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"docqa/pkg/auth/controller"
	"docqa/pkg/auth/service"
	"docqa/pkg/middleware"
)

type authCtrl struct{ s service.AuthService }

func NewAuthController(s service.AuthService) controller.AuthController { return &authCtrl{s: s} }

func (h *authCtrl) Login(c echo.Context) error {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid json"})
	}
	token, id, err := h.s.Login(c.Request().Context(), body.Username, body.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid username or password"})
	}
	if err != nil {
		slog.Error("[auth] login failed", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	c.SetCookie(&http.Cookie{Name: middleware.TokenCookie, Value: token, Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
	return c.JSON(http.StatusOK, map[string]string{"access_token": token, "role": id.Role})
}

func (h *authCtrl) WhoAmI(c echo.Context) error {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing token"})
	}
	return c.JSON(http.StatusOK, id)
}
