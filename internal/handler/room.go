package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-front-desk/internal/booking"
	"github.com/iliyamo/hotel-front-desk/internal/model"
	"github.com/iliyamo/hotel-front-desk/internal/repository"
)

// RoomHandler implements room inventory management.  Listing is open to
// any authenticated role; mutations are ADMIN-only, enforced by the
// router.
type RoomHandler struct {
	Rooms *repository.RoomRepo
}

// NewRoomHandler constructs a RoomHandler and panics if the repository
// is nil.
func NewRoomHandler(rooms *repository.RoomRepo) *RoomHandler {
	if rooms == nil {
		panic("nil repository passed to NewRoomHandler")
	}
	return &RoomHandler{Rooms: rooms}
}

type createRoomReq struct {
	Number        uint32  `json:"number"`
	Type          string  `json:"type"`
	PricePerNight float64 `json:"pricePerNight"`
	Status        string  `json:"status"`
}

// updateRoomReq uses pointers so absent fields are distinguishable from
// zero values: a PUT carrying only {"status": "Maintenance"} must not
// wipe the room number.
type updateRoomReq struct {
	Number        *uint32  `json:"number"`
	Type          *string  `json:"type"`
	PricePerNight *float64 `json:"pricePerNight"`
	Status        *string  `json:"status"`
}

func validRoomStatus(s string) bool {
	switch s {
	case model.RoomAvailable, model.RoomOccupied, model.RoomMaintenance:
		return true
	}
	return false
}

// List handles GET /v1/rooms.
func (h *RoomHandler) List(c echo.Context) error {
	rooms, err := h.Rooms.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, rooms)
}

// Create handles POST /v1/rooms.  Room numbers must be unique positive
// integers and the nightly price strictly positive.
func (h *RoomHandler) Create(c echo.Context) error {
	var req createRoomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Number == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room number must be positive"})
	}
	if req.Type == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room type is required"})
	}
	if req.PricePerNight <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price per night must be positive"})
	}
	status := req.Status
	if status == "" {
		status = model.RoomAvailable
	}
	if !validRoomStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room status"})
	}

	room := model.Room{Number: req.Number, Type: req.Type, PricePerNight: req.PricePerNight, Status: status}
	if err := h.Rooms.Create(c.Request().Context(), &room); err != nil {
		if errors.Is(err, repository.ErrRoomNumberExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "room number already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create room failed"})
	}
	return c.JSON(http.StatusCreated, room)
}

// Update handles PUT /v1/rooms/:id with partial fields.  This is also
// the path an administrator uses to put a room into (or take it out of)
// Maintenance — a manual override outside the reservation lifecycle.
func (h *RoomHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	var req updateRoomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx := c.Request().Context()
	room, err := h.Rooms.GetRoom(ctx, id)
	if err != nil {
		if errors.Is(err, booking.ErrRoomNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	if req.Number != nil {
		if *req.Number == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "room number must be positive"})
		}
		room.Number = *req.Number
	}
	if req.Type != nil {
		if *req.Type == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "room type is required"})
		}
		room.Type = *req.Type
	}
	if req.PricePerNight != nil {
		if *req.PricePerNight <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "price per night must be positive"})
		}
		room.PricePerNight = *req.PricePerNight
	}
	if req.Status != nil {
		if !validRoomStatus(*req.Status) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room status"})
		}
		room.Status = *req.Status
	}

	if err := h.Rooms.Update(ctx, room); err != nil {
		if errors.Is(err, repository.ErrRoomNumberExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "room number already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update room failed"})
	}
	return c.JSON(http.StatusOK, room)
}

// Delete handles DELETE /v1/rooms/:id.  Rooms with active reservations
// cannot be deleted.
func (h *RoomHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	err := h.Rooms.Delete(c.Request().Context(), id)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
	case errors.Is(err, booking.ErrRoomNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "room has active reservations"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete room failed"})
	}
}
