package booking

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/iliyamo/hotel-front-desk/internal/model"
)

// memStore is a map-backed RoomStore + ReservationStore used to exercise
// the engine without a database.  All methods hand out copies so engine
// mutations only land through UpdateReservation.
type memStore struct {
	mu           sync.Mutex
	rooms        map[uint64]*model.Room
	reservations map[uint64]*model.Reservation
	nextID       uint64
}

func newMemStore() *memStore {
	return &memStore{
		rooms:        make(map[uint64]*model.Room),
		reservations: make(map[uint64]*model.Reservation),
	}
}

func (s *memStore) addRoom(number uint32, roomType string, price float64) *model.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	r := &model.Room{ID: s.nextID, Number: number, Type: roomType, PricePerNight: price, Status: model.RoomAvailable}
	s.rooms[r.ID] = r
	return r
}

func (s *memStore) GetRoom(ctx context.Context, id uint64) (*model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *memStore) UpdateRoomStatus(ctx context.Context, id uint64, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[id]
	if !ok {
		return ErrRoomNotFound
	}
	r.Status = status
	return nil
}

func (s *memStore) GetReservation(ctx context.Context, id uint64) (*model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reservations[id]
	if !ok {
		return nil, ErrReservationNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *memStore) CreateReservation(ctx context.Context, r *model.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	r.ID = s.nextID
	cp := *r
	s.reservations[r.ID] = &cp
	return nil
}

func (s *memStore) UpdateReservation(ctx context.Context, r *model.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reservations[r.ID]; !ok {
		return ErrReservationNotFound
	}
	cp := *r
	s.reservations[r.ID] = &cp
	return nil
}

func (s *memStore) ListActiveByRoom(ctx context.Context, roomID, excludeID uint64) ([]model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Reservation
	for _, r := range s.reservations {
		if r.RoomID != roomID || r.ID == excludeID {
			continue
		}
		if r.Status == model.ReservationReserved || r.Status == model.ReservationCheckedIn {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *memStore) roomStatus(t *testing.T, id uint64) string {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[id]
	if !ok {
		t.Fatalf("room %d missing from store", id)
	}
	return r.Status
}

func newTestEngine(t *testing.T) (*Engine, *memStore) {
	t.Helper()
	store := newMemStore()
	e := NewEngine(store, store)
	return e, store
}

func mustCreate(t *testing.T, e *Engine, roomID uint64, in, out string) *model.Reservation {
	t.Helper()
	res, err := e.Create(context.Background(), CreateParams{
		RoomID:    roomID,
		GuestName: "Alice Smith",
		CheckIn:   day(in),
		CheckOut:  day(out),
	})
	if err != nil {
		t.Fatalf("Create(%s..%s): %v", in, out, err)
	}
	return res
}

func TestCreateComputesAmountAndLeavesRoomStatus(t *testing.T) {
	e, store := newTestEngine(t)
	room := store.addRoom(101, "Double", 100)

	res := mustCreate(t, e, room.ID, "2024-06-01", "2024-06-04")
	if res.Status != model.ReservationReserved {
		t.Fatalf("status = %q, want %q", res.Status, model.ReservationReserved)
	}
	if res.TotalAmount != 300 {
		t.Fatalf("totalAmount = %v, want 300 (3 nights x 100)", res.TotalAmount)
	}
	if res.Room == nil || res.Room.ID != room.ID {
		t.Fatalf("reservation does not carry its room")
	}
	if got := store.roomStatus(t, room.ID); got != model.RoomAvailable {
		t.Fatalf("room status after create = %q, want %q", got, model.RoomAvailable)
	}
}

func TestCreateRejectsInvalidRange(t *testing.T) {
	e, store := newTestEngine(t)
	room := store.addRoom(101, "Double", 100)

	for _, tc := range []struct{ in, out string }{
		{"2024-06-04", "2024-06-01"},
		{"2024-06-01", "2024-06-01"},
	} {
		_, err := e.Create(context.Background(), CreateParams{
			RoomID: room.ID, GuestName: "Bob", CheckIn: day(tc.in), CheckOut: day(tc.out),
		})
		if !errors.Is(err, ErrInvalidRange) {
			t.Fatalf("Create(%s..%s) err = %v, want ErrInvalidRange", tc.in, tc.out, err)
		}
	}
}

func TestCreateUnknownRoom(t *testing.T) {
	e, _ := newTestEngine(t)
	_, err := e.Create(context.Background(), CreateParams{
		RoomID: 42, GuestName: "Bob", CheckIn: day("2024-06-01"), CheckOut: day("2024-06-04"),
	})
	if !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("err = %v, want ErrRoomNotFound", err)
	}
}

func TestCreateRejectsOverlapAllowsAdjacent(t *testing.T) {
	e, store := newTestEngine(t)
	room := store.addRoom(101, "Double", 100)
	mustCreate(t, e, room.ID, "2024-06-01", "2024-06-05")

	_, err := e.Create(context.Background(), CreateParams{
		RoomID: room.ID, GuestName: "Bob", CheckIn: day("2024-06-03"), CheckOut: day("2024-06-07"),
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("overlapping create err = %v, want ErrConflict", err)
	}

	// Back-to-back is fine: checkout day equals the next check-in day.
	mustCreate(t, e, room.ID, "2024-06-05", "2024-06-09")
}

func TestOverlapWithCancelledIgnored(t *testing.T) {
	e, store := newTestEngine(t)
	room := store.addRoom(101, "Double", 100)
	first := mustCreate(t, e, room.ID, "2024-06-01", "2024-06-05")
	if _, err := e.Cancel(context.Background(), first.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	// The cancelled stay no longer blocks the range.
	mustCreate(t, e, room.ID, "2024-06-01", "2024-06-05")
}

func TestCheckInRepricesAndOccupiesRoom(t *testing.T) {
	e, store := newTestEngine(t)
	room := store.addRoom(101, "Double", 100)
	res := mustCreate(t, e, room.ID, "2024-06-01", "2024-06-04")

	// Nightly price changed between booking and arrival; arrival
	// re-prices the booked range at the current price.
	store.mu.Lock()
	store.rooms[room.ID].PricePerNight = 120
	store.mu.Unlock()

	arrival := time.Date(2024, 6, 1, 15, 4, 0, 0, time.UTC)
	e.now = func() time.Time { return arrival }

	got, err := e.CheckIn(context.Background(), res.ID)
	if err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	if got.Status != model.ReservationCheckedIn {
		t.Fatalf("status = %q, want %q", got.Status, model.ReservationCheckedIn)
	}
	if got.ActualCheckIn == nil || !got.ActualCheckIn.Equal(arrival) {
		t.Fatalf("actualCheckIn = %v, want %v", got.ActualCheckIn, arrival)
	}
	if got.TotalAmount != 360 {
		t.Fatalf("totalAmount = %v, want 360 (3 nights x 120)", got.TotalAmount)
	}
	if s := store.roomStatus(t, room.ID); s != model.RoomOccupied {
		t.Fatalf("room status = %q, want %q", s, model.RoomOccupied)
	}
}

func TestCheckInRequiresReserved(t *testing.T) {
	e, store := newTestEngine(t)
	room := store.addRoom(101, "Double", 100)
	res := mustCreate(t, e, room.ID, "2024-06-01", "2024-06-04")
	if _, err := e.CheckIn(context.Background(), res.ID); err != nil {
		t.Fatalf("first CheckIn: %v", err)
	}

	_, err := e.CheckIn(context.Background(), res.ID)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("second CheckIn err = %v, want ErrInvalidTransition", err)
	}
	if !strings.Contains(err.Error(), model.ReservationCheckedIn) {
		t.Fatalf("error %q does not name the current status", err)
	}
}

func TestCheckOutBillsActualStay(t *testing.T) {
	e, store := newTestEngine(t)
	room := store.addRoom(101, "Double", 100)
	res := mustCreate(t, e, room.ID, "2024-06-01", "2024-06-04")
	if res.TotalAmount != 300 {
		t.Fatalf("booked amount = %v, want 300", res.TotalAmount)
	}

	e.now = func() time.Time { return time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC) }
	if _, err := e.CheckIn(context.Background(), res.ID); err != nil {
		t.Fatalf("CheckIn: %v", err)
	}

	// Guest stays two nights past the booked checkout: 5 actual nights.
	e.now = func() time.Time { return time.Date(2024, 6, 6, 10, 30, 0, 0, time.UTC) }
	got, err := e.CheckOut(context.Background(), res.ID)
	if err != nil {
		t.Fatalf("CheckOut: %v", err)
	}
	if got.Status != model.ReservationCheckedOut {
		t.Fatalf("status = %q, want %q", got.Status, model.ReservationCheckedOut)
	}
	if got.TotalAmount != 500 {
		t.Fatalf("totalAmount = %v, want 500 (5 actual nights x 100)", got.TotalAmount)
	}
	if got.ActualCheckOut == nil {
		t.Fatal("actualCheckOut not stamped")
	}
	if s := store.roomStatus(t, room.ID); s != model.RoomAvailable {
		t.Fatalf("room status = %q, want %q", s, model.RoomAvailable)
	}
}

func TestCheckOutSameDayBillsOneNight(t *testing.T) {
	e, store := newTestEngine(t)
	room := store.addRoom(101, "Double", 100)
	res := mustCreate(t, e, room.ID, "2024-06-01", "2024-06-04")

	e.now = func() time.Time { return time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC) }
	if _, err := e.CheckIn(context.Background(), res.ID); err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	e.now = func() time.Time { return time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC) }
	got, err := e.CheckOut(context.Background(), res.ID)
	if err != nil {
		t.Fatalf("CheckOut: %v", err)
	}
	if got.TotalAmount != 100 {
		t.Fatalf("totalAmount = %v, want 100 (same-day floor of 1 night)", got.TotalAmount)
	}
}

func TestCheckOutRequiresCheckedIn(t *testing.T) {
	e, store := newTestEngine(t)
	room := store.addRoom(101, "Double", 100)
	res := mustCreate(t, e, room.ID, "2024-06-01", "2024-06-04")

	_, err := e.CheckOut(context.Background(), res.ID)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("CheckOut on Reserved err = %v, want ErrInvalidTransition", err)
	}
}

func TestCheckOutMissingArrival(t *testing.T) {
	e, store := newTestEngine(t)
	room := store.addRoom(101, "Double", 100)

	// Corrupt row: Checked-In without an arrival timestamp.
	store.mu.Lock()
	store.nextID++
	store.reservations[store.nextID] = &model.Reservation{
		ID: store.nextID, RoomID: room.ID, GuestName: "Ghost",
		CheckIn: day("2024-06-01"), CheckOut: day("2024-06-04"),
		Status: model.ReservationCheckedIn,
	}
	id := store.nextID
	store.mu.Unlock()

	_, err := e.CheckOut(context.Background(), id)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("err = %v, want ErrInvalidState", err)
	}
}

func TestCancelReleasesRoomOnlyWhenLastActive(t *testing.T) {
	e, store := newTestEngine(t)
	room := store.addRoom(101, "Double", 100)
	current := mustCreate(t, e, room.ID, "2024-06-01", "2024-06-04")
	future := mustCreate(t, e, room.ID, "2024-06-10", "2024-06-12")

	e.now = func() time.Time { return time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC) }
	if _, err := e.CheckIn(context.Background(), current.ID); err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	if s := store.roomStatus(t, room.ID); s != model.RoomOccupied {
		t.Fatalf("room status = %q, want %q", s, model.RoomOccupied)
	}

	// The occupying guest is still in house; cancelling the future
	// booking must not free the room.
	if _, err := e.Cancel(context.Background(), future.ID); err != nil {
		t.Fatalf("Cancel(future): %v", err)
	}
	if s := store.roomStatus(t, room.ID); s != model.RoomOccupied {
		t.Fatalf("room status after cancelling future booking = %q, want %q", s, model.RoomOccupied)
	}

	got, err := e.Cancel(context.Background(), current.ID)
	if err != nil {
		t.Fatalf("Cancel(current): %v", err)
	}
	if got.Status != model.ReservationCancelled {
		t.Fatalf("status = %q, want %q", got.Status, model.ReservationCancelled)
	}
	if s := store.roomStatus(t, room.ID); s != model.RoomAvailable {
		t.Fatalf("room status after last active left = %q, want %q", s, model.RoomAvailable)
	}
}

func TestCheckOutKeepsRoomOccupiedWhileOthersActive(t *testing.T) {
	e, store := newTestEngine(t)
	room := store.addRoom(101, "Double", 100)
	current := mustCreate(t, e, room.ID, "2024-06-01", "2024-06-04")
	mustCreate(t, e, room.ID, "2024-06-10", "2024-06-12")

	e.now = func() time.Time { return time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC) }
	if _, err := e.CheckIn(context.Background(), current.ID); err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	e.now = func() time.Time { return time.Date(2024, 6, 4, 11, 0, 0, 0, time.UTC) }
	if _, err := e.CheckOut(context.Background(), current.ID); err != nil {
		t.Fatalf("CheckOut: %v", err)
	}
	if s := store.roomStatus(t, room.ID); s != model.RoomOccupied {
		t.Fatalf("room status = %q, want %q (future booking still active)", s, model.RoomOccupied)
	}
}

func TestCancelLeavesAmountUntouched(t *testing.T) {
	e, store := newTestEngine(t)
	room := store.addRoom(101, "Double", 100)
	res := mustCreate(t, e, room.ID, "2024-06-01", "2024-06-04")

	got, err := e.Cancel(context.Background(), res.ID)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if got.TotalAmount != 300 {
		t.Fatalf("totalAmount = %v, want 300 (unchanged by cancel)", got.TotalAmount)
	}
}

func TestTerminalStatesAreFinal(t *testing.T) {
	e, store := newTestEngine(t)
	room := store.addRoom(101, "Double", 100)

	cancelled := mustCreate(t, e, room.ID, "2024-06-01", "2024-06-04")
	if _, err := e.Cancel(context.Background(), cancelled.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	departed := mustCreate(t, e, room.ID, "2024-06-10", "2024-06-12")
	e.now = func() time.Time { return time.Date(2024, 6, 10, 14, 0, 0, 0, time.UTC) }
	if _, err := e.CheckIn(context.Background(), departed.ID); err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	e.now = func() time.Time { return time.Date(2024, 6, 12, 11, 0, 0, 0, time.UTC) }
	if _, err := e.CheckOut(context.Background(), departed.ID); err != nil {
		t.Fatalf("CheckOut: %v", err)
	}

	for name, id := range map[string]uint64{"cancelled": cancelled.ID, "checked-out": departed.ID} {
		if _, err := e.CheckIn(context.Background(), id); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("CheckIn on %s err = %v, want ErrInvalidTransition", name, err)
		}
		if _, err := e.CheckOut(context.Background(), id); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("CheckOut on %s err = %v, want ErrInvalidTransition", name, err)
		}
		if _, err := e.Cancel(context.Background(), id); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("Cancel on %s err = %v, want ErrInvalidTransition", name, err)
		}
	}

	// Failed transitions never mutate the stored row.
	row, err := store.GetReservation(context.Background(), cancelled.ID)
	if err != nil {
		t.Fatalf("GetReservation: %v", err)
	}
	if row.Status != model.ReservationCancelled {
		t.Fatalf("stored status = %q after rejected transitions, want %q", row.Status, model.ReservationCancelled)
	}
}

func TestUnknownReservation(t *testing.T) {
	e, _ := newTestEngine(t)
	for name, op := range map[string]func(context.Context, uint64) (*model.Reservation, error){
		"CheckIn": e.CheckIn, "CheckOut": e.CheckOut, "Cancel": e.Cancel,
	} {
		if _, err := op(context.Background(), 999); !errors.Is(err, ErrReservationNotFound) {
			t.Errorf("%s(999) err = %v, want ErrReservationNotFound", name, err)
		}
	}
}

// TestNoDoubleBookingUnderConcurrency fires many goroutines at the same
// room and range and asserts exactly one booking wins.
func TestNoDoubleBookingUnderConcurrency(t *testing.T) {
	e, store := newTestEngine(t)
	room := store.addRoom(101, "Double", 100)

	const n = 16
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.Create(context.Background(), CreateParams{
				RoomID: room.ID, GuestName: "Racer",
				CheckIn: day("2024-06-01"), CheckOut: day("2024-06-05"),
			})
		}(i)
	}
	wg.Wait()

	won := 0
	for i, err := range errs {
		switch {
		case err == nil:
			won++
		case errors.Is(err, ErrConflict):
		default:
			t.Fatalf("goroutine %d: unexpected error %v", i, err)
		}
	}
	if won != 1 {
		t.Fatalf("%d creates succeeded for the same range, want exactly 1", won)
	}

	active, err := store.ListActiveByRoom(context.Background(), room.ID, 0)
	if err != nil {
		t.Fatalf("ListActiveByRoom: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("%d active reservations stored, want 1", len(active))
	}
}
