package scheduling

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dentalportal/portal/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the treatment and booking endpoints. verify is the
// token check guarding the patient's own booking list.
func (h *Handler) RegisterRoutes(g *echo.Group, verify echo.MiddlewareFunc) {
	g.GET("/appointmentSpecialty", h.ListSpecialties)
	g.GET("/service", h.Availability)
	g.GET("/addPrice", h.SetDefaultPrice)

	g.GET("/bookings", h.ListBookings, verify)
	g.GET("/bookings/:id", h.GetBooking)
	g.POST("/bookings", h.CreateBooking)
}

func (h *Handler) ListSpecialties(c echo.Context) error {
	names, err := h.svc.ListSpecialties(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if names == nil {
		names = []*TreatmentName{}
	}
	return c.JSON(http.StatusOK, names)
}

func (h *Handler) Availability(c echo.Context) error {
	treatments, err := h.svc.Availability(c.Request().Context(), c.QueryParam("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, treatments)
}

func (h *Handler) SetDefaultPrice(c echo.Context) error {
	res, err := h.svc.SetDefaultPrice(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, res)
}

// ListBookings only serves the bookings of the token holder.
func (h *Handler) ListBookings(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" || email != auth.EmailFromContext(c.Request().Context()) {
		return echo.NewHTTPError(http.StatusForbidden, "forbidden access")
	}
	bookings, err := h.svc.BookingsForEmail(c.Request().Context(), email)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if bookings == nil {
		bookings = []*Booking{}
	}
	return c.JSON(http.StatusOK, bookings)
}

func (h *Handler) GetBooking(c echo.Context) error {
	b, err := h.svc.GetBooking(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if b == nil {
		return c.JSON(http.StatusOK, nil)
	}
	return c.JSON(http.StatusOK, b)
}

type rejection struct {
	Acknowledged bool   `json:"acknowledged"`
	Message      string `json:"message"`
}

func (h *Handler) CreateBooking(c echo.Context) error {
	var b Booking
	if err := c.Bind(&b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&b); err != nil {
		return err
	}

	adm, err := h.svc.Admit(c.Request().Context(), &b)
	switch {
	case errors.Is(err, ErrUnknownTreatment):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrBookingInProgress):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case err != nil:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if !adm.Admitted {
		return c.JSON(http.StatusOK, rejection{Acknowledged: false, Message: adm.Reason})
	}
	return c.JSON(http.StatusOK, adm.Result)
}
