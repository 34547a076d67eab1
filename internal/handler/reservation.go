package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-front-desk/internal/booking"
	"github.com/iliyamo/hotel-front-desk/internal/model"
	"github.com/iliyamo/hotel-front-desk/internal/queue"
)

// ReservationLister provides the joined reservation listing for the
// API.  It is satisfied by repository.ReservationRepo.
type ReservationLister interface {
	ListWithRooms(ctx context.Context) ([]model.Reservation, error)
}

// ReservationHandler exposes the reservation lifecycle over HTTP.  All
// state logic lives in the booking engine; this layer only parses
// requests, maps domain errors to status codes and publishes lifecycle
// events.  Publish is best-effort: a nil or failing publisher never
// fails a front-desk operation.
type ReservationHandler struct {
	Engine       *booking.Engine
	Reservations ReservationLister
	Publish      func(ctx context.Context, ev queue.LifecycleEvent) error
}

// NewReservationHandler constructs a ReservationHandler and panics on
// missing dependencies.  publish may be nil to disable eventing.
func NewReservationHandler(engine *booking.Engine, lister ReservationLister, publish func(ctx context.Context, ev queue.LifecycleEvent) error) *ReservationHandler {
	if engine == nil || lister == nil {
		panic("nil dependency passed to NewReservationHandler")
	}
	return &ReservationHandler{Engine: engine, Reservations: lister, Publish: publish}
}

type createReservationReq struct {
	RoomID     uint64 `json:"roomId"`
	GuestName  string `json:"guestName"`
	GuestPhone string `json:"guestPhone"`
	CheckIn    string `json:"checkIn"`
	CheckOut   string `json:"checkOut"`
}

// parseDate accepts an ISO-8601 date ("2006-01-02") or a full RFC 3339
// timestamp, normalized to UTC.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// bookingError translates engine sentinels into HTTP responses.  Every
// domain error kind gets a distinct status so callers can react without
// parsing messages.
func bookingError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, booking.ErrRoomNotFound), errors.Is(err, booking.ErrReservationNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrInvalidRange):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrInvalidState):
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
}

// publishEvent emits a lifecycle event for a completed transition.
func (h *ReservationHandler) publishEvent(c echo.Context, typ string, res *model.Reservation) {
	if h.Publish == nil {
		return
	}
	ev := queue.LifecycleEvent{
		Type:          typ,
		ReservationID: res.ID,
		RoomID:        res.RoomID,
		GuestName:     res.GuestName,
		Status:        res.Status,
		CheckIn:       res.CheckIn.Format("2006-01-02"),
		CheckOut:      res.CheckOut.Format("2006-01-02"),
		TotalAmount:   res.TotalAmount,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339),
		Actor:         getUsername(c),
	}
	if res.Room != nil {
		ev.RoomNumber = res.Room.Number
		ev.RoomStatus = res.Room.Status
	}
	// Errors are already logged by the publisher; the request succeeded
	// regardless.
	_ = h.Publish(c.Request().Context(), ev)
}

// List handles GET /v1/reservations.  Room references are expanded to
// number, type and nightly price.
func (h *ReservationHandler) List(c echo.Context) error {
	out, err := h.Reservations.ListWithRooms(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, out)
}

// Create handles POST /v1/reservations.
func (h *ReservationHandler) Create(c echo.Context) error {
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.RoomID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "roomId is required"})
	}
	if req.GuestName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "guestName is required"})
	}
	checkIn, err := parseDate(req.CheckIn)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid checkIn date"})
	}
	checkOut, err := parseDate(req.CheckOut)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid checkOut date"})
	}

	res, err := h.Engine.Create(c.Request().Context(), booking.CreateParams{
		RoomID:     req.RoomID,
		GuestName:  req.GuestName,
		GuestPhone: req.GuestPhone,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
	})
	if err != nil {
		return bookingError(c, err)
	}
	h.publishEvent(c, queue.EventReservationCreated, res)
	return c.JSON(http.StatusCreated, res)
}

// CheckIn handles PUT /v1/reservations/:id/checkin.
func (h *ReservationHandler) CheckIn(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.Engine.CheckIn(c.Request().Context(), id)
	if err != nil {
		return bookingError(c, err)
	}
	h.publishEvent(c, queue.EventReservationCheckedIn, res)
	return c.JSON(http.StatusOK, res)
}

// CheckOut handles PUT /v1/reservations/:id/checkout.
func (h *ReservationHandler) CheckOut(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.Engine.CheckOut(c.Request().Context(), id)
	if err != nil {
		return bookingError(c, err)
	}
	h.publishEvent(c, queue.EventReservationCheckedOut, res)
	return c.JSON(http.StatusOK, res)
}

// Cancel handles PUT /v1/reservations/:id/cancel.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.Engine.Cancel(c.Request().Context(), id)
	if err != nil {
		return bookingError(c, err)
	}
	h.publishEvent(c, queue.EventReservationCancelled, res)
	return c.JSON(http.StatusOK, res)
}
