package identity

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the user, token and doctor endpoints. verify and
// admin are the token check and the admin role check; tokenLimit throttles
// /jwt.
func (h *Handler) RegisterRoutes(g *echo.Group, verify, admin, tokenLimit echo.MiddlewareFunc) {
	g.GET("/jwt", h.IssueToken, tokenLimit)

	g.GET("/users", h.ListUsers)
	g.POST("/users", h.CreateUser)
	g.GET("/users/admin/:email", h.CheckAdmin)
	g.PUT("/users/admin/:id", h.MakeAdmin, verify, admin)

	doctors := g.Group("/doctors", verify, admin)
	doctors.GET("", h.ListDoctors)
	doctors.POST("", h.CreateDoctor)
	doctors.DELETE("/:id", h.DeleteDoctor)
}

type tokenResponse struct {
	AccessToken string `json:"accessToken"`
}

func (h *Handler) IssueToken(c echo.Context) error {
	token, err := h.svc.IssueToken(c.Request().Context(), c.QueryParam("email"))
	if errors.Is(err, ErrUnknownUser) {
		return c.JSON(http.StatusForbidden, tokenResponse{})
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, tokenResponse{AccessToken: token})
}

func (h *Handler) ListUsers(c echo.Context) error {
	users, err := h.svc.ListUsers(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if users == nil {
		users = []*User{}
	}
	return c.JSON(http.StatusOK, users)
}

func (h *Handler) CreateUser(c echo.Context) error {
	var u User
	if err := c.Bind(&u); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	// Roles are only granted through MakeAdmin.
	u.ID, u.Role = "", ""

	res, err := h.svc.CreateUser(c.Request().Context(), &u)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, res)
}

// CheckAdmin answers for the path email. echo routes on the raw path, so an
// encoded "%40" is still escaped in the param.
func (h *Handler) CheckAdmin(c echo.Context) error {
	email, err := url.PathUnescape(c.Param("email"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid email in path")
	}
	isAdmin, err := h.svc.IsAdmin(c.Request().Context(), email)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]bool{"isAdmin": isAdmin})
}

func (h *Handler) MakeAdmin(c echo.Context) error {
	res, err := h.svc.MakeAdmin(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) ListDoctors(c echo.Context) error {
	doctors, err := h.svc.ListDoctors(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if doctors == nil {
		doctors = []*Doctor{}
	}
	return c.JSON(http.StatusOK, doctors)
}

func (h *Handler) CreateDoctor(c echo.Context) error {
	var d Doctor
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&d); err != nil {
		return err
	}
	d.ID = ""

	res, err := h.svc.AddDoctor(c.Request().Context(), &d)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) DeleteDoctor(c echo.Context) error {
	res, err := h.svc.RemoveDoctor(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, res)
}
