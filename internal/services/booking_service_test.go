package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"carpool/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newBookingFixture(t *testing.T) (*mockUserRepository, *mockRideRepository, *mockBookingRepository, BookingService) {
	t.Helper()

	userRepo := newMockUserRepository()
	rideRepo := newMockRideRepository()
	bookingRepo := newMockBookingRepository()

	svc := NewBookingService(bookingRepo, rideRepo, userRepo, newTestLogger())
	return userRepo, rideRepo, bookingRepo, svc
}

func seedRide(userRepo *mockUserRepository, rideRepo *mockRideRepository, seats int) (*models.User, *models.Ride) {
	driver := &models.User{Name: "Driver", Email: "driver@example.com", IsDriver: true}
	userRepo.AddUser(driver)

	ride := &models.Ride{
		Driver: driver.ID,
		DepartureLocation: models.Location{
			City:    "Lyon",
			Address: "Gare Part-Dieu",
		},
		DestinationLocation: models.Location{
			City:    "Paris",
			Address: "Gare de Lyon",
		},
		DepartureTime:        time.Now().Add(24 * time.Hour),
		EstimatedArrivalTime: time.Now().Add(28 * time.Hour),
		Price:                25,
		AvailableSeats:       seats,
		Passengers:           []models.Passenger{},
		Status:               models.RideStatusScheduled,
	}
	rideRepo.AddRide(ride)
	return driver, ride
}

func seedPassenger(userRepo *mockUserRepository, name, email string) *models.User {
	user := &models.User{Name: name, Email: email}
	userRepo.AddUser(user)
	return user
}

func TestBooking_Create_StartsPendingWithoutTakingSeat(t *testing.T) {
	t.Parallel()

	userRepo, rideRepo, bookingRepo, svc := newBookingFixture(t)
	_, ride := seedRide(userRepo, rideRepo, 3)
	passenger := seedPassenger(userRepo, "Alice", "alice@example.com")

	booking, err := svc.Create(context.Background(), passenger.ID, &CreateBookingRequest{
		RideID: ride.ID.Hex(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.Status != models.BookingStatusPending {
		t.Errorf("expected pending booking, got %s", booking.Status)
	}

	if bookingRepo.CountBookings() != 1 {
		t.Errorf("expected 1 booking, got %d", bookingRepo.CountBookings())
	}

	stored := rideRepo.GetRide(ride.ID)
	if stored.AvailableSeats != 3 {
		t.Errorf("seats must not change on a pending booking, got %d", stored.AvailableSeats)
	}
	if len(stored.Passengers) != 1 {
		t.Fatalf("expected 1 passenger entry, got %d", len(stored.Passengers))
	}
	if stored.Passengers[0].Status != models.BookingStatusPending {
		t.Errorf("expected pending passenger entry, got %s", stored.Passengers[0].Status)
	}
}

func TestBooking_Create_Preconditions(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		setup   func(userRepo *mockUserRepository, rideRepo *mockRideRepository) (rideID, callerID primitive.ObjectID)
		wantErr error
	}{
		{
			name: "missing ride",
			setup: func(userRepo *mockUserRepository, rideRepo *mockRideRepository) (primitive.ObjectID, primitive.ObjectID) {
				passenger := seedPassenger(userRepo, "Alice", "alice@example.com")
				return primitive.NewObjectID(), passenger.ID
			},
			wantErr: ErrRideNotFound,
		},
		{
			name: "ride not scheduled",
			setup: func(userRepo *mockUserRepository, rideRepo *mockRideRepository) (primitive.ObjectID, primitive.ObjectID) {
				_, ride := seedRide(userRepo, rideRepo, 3)
				ride.Status = models.RideStatusCompleted
				passenger := seedPassenger(userRepo, "Alice", "alice@example.com")
				return ride.ID, passenger.ID
			},
			wantErr: ErrRideNotBookable,
		},
		{
			name: "driver books own ride",
			setup: func(userRepo *mockUserRepository, rideRepo *mockRideRepository) (primitive.ObjectID, primitive.ObjectID) {
				driver, ride := seedRide(userRepo, rideRepo, 3)
				return ride.ID, driver.ID
			},
			wantErr: ErrOwnRideBooking,
		},
		{
			name: "no seats left",
			setup: func(userRepo *mockUserRepository, rideRepo *mockRideRepository) (primitive.ObjectID, primitive.ObjectID) {
				_, ride := seedRide(userRepo, rideRepo, 0)
				passenger := seedPassenger(userRepo, "Alice", "alice@example.com")
				return ride.ID, passenger.ID
			},
			wantErr: ErrNoSeatsAvailable,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			userRepo := newMockUserRepository()
			rideRepo := newMockRideRepository()
			bookingRepo := newMockBookingRepository()
			svc := NewBookingService(bookingRepo, rideRepo, userRepo, newTestLogger())

			rideID, callerID := tc.setup(userRepo, rideRepo)

			_, err := svc.Create(context.Background(), callerID, &CreateBookingRequest{RideID: rideID.Hex()})
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}

			if bookingRepo.CountBookings() != 0 {
				t.Errorf("rejected booking must not persist, found %d", bookingRepo.CountBookings())
			}
		})
	}
}

func TestBooking_Create_LifecycleCheckRunsBeforeOwnership(t *testing.T) {
	t.Parallel()

	userRepo, rideRepo, _, svc := newBookingFixture(t)
	driver, ride := seedRide(userRepo, rideRepo, 3)
	ride.Status = models.RideStatusCancelled

	// A driver booking their own cancelled ride hits the lifecycle check
	// first.
	_, err := svc.Create(context.Background(), driver.ID, &CreateBookingRequest{RideID: ride.ID.Hex()})
	if !errors.Is(err, ErrRideNotBookable) {
		t.Errorf("expected %v, got %v", ErrRideNotBookable, err)
	}
}

func TestBooking_Create_DuplicateRejected(t *testing.T) {
	t.Parallel()

	userRepo, rideRepo, bookingRepo, svc := newBookingFixture(t)
	_, ride := seedRide(userRepo, rideRepo, 3)
	passenger := seedPassenger(userRepo, "Alice", "alice@example.com")

	request := &CreateBookingRequest{RideID: ride.ID.Hex()}
	if _, err := svc.Create(context.Background(), passenger.ID, request); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	_, err := svc.Create(context.Background(), passenger.ID, request)
	if !errors.Is(err, ErrAlreadyBooked) {
		t.Errorf("expected %v, got %v", ErrAlreadyBooked, err)
	}

	if bookingRepo.CountBookings() != 1 {
		t.Errorf("expected 1 booking, got %d", bookingRepo.CountBookings())
	}
}

func TestBooking_Confirm_TakesOneSeat(t *testing.T) {
	t.Parallel()

	userRepo, rideRepo, bookingRepo, svc := newBookingFixture(t)
	driver, ride := seedRide(userRepo, rideRepo, 3)
	passenger := seedPassenger(userRepo, "Alice", "alice@example.com")

	booking, err := svc.Create(context.Background(), passenger.ID, &CreateBookingRequest{RideID: ride.ID.Hex()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.SetStatus(context.Background(), booking.ID, driver.ID, models.BookingStatusConfirmed); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored := rideRepo.GetRide(ride.ID)
	if stored.AvailableSeats != 2 {
		t.Errorf("expected 2 seats after confirm, got %d", stored.AvailableSeats)
	}
	if stored.Passengers[0].Status != models.BookingStatusConfirmed {
		t.Errorf("expected confirmed passenger entry, got %s", stored.Passengers[0].Status)
	}
	if bookingRepo.GetBooking(booking.ID).Status != models.BookingStatusConfirmed {
		t.Error("booking status not updated")
	}
}

func TestBooking_ConfirmTwice_TakesOneSeatOnly(t *testing.T) {
	t.Parallel()

	userRepo, rideRepo, _, svc := newBookingFixture(t)
	driver, ride := seedRide(userRepo, rideRepo, 3)
	passenger := seedPassenger(userRepo, "Alice", "alice@example.com")

	booking, err := svc.Create(context.Background(), passenger.ID, &CreateBookingRequest{RideID: ride.ID.Hex()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := svc.SetStatus(context.Background(), booking.ID, driver.ID, models.BookingStatusConfirmed); err != nil {
			t.Fatalf("confirm %d failed: %v", i, err)
		}
	}

	stored := rideRepo.GetRide(ride.ID)
	if stored.AvailableSeats != 2 {
		t.Errorf("repeated confirms must take one seat, got %d seats", stored.AvailableSeats)
	}
}

func TestBooking_DriverCancelAfterConfirm_ReturnsSeat(t *testing.T) {
	t.Parallel()

	userRepo, rideRepo, _, svc := newBookingFixture(t)
	driver, ride := seedRide(userRepo, rideRepo, 3)
	passenger := seedPassenger(userRepo, "Alice", "alice@example.com")

	booking, err := svc.Create(context.Background(), passenger.ID, &CreateBookingRequest{RideID: ride.ID.Hex()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.SetStatus(context.Background(), booking.ID, driver.ID, models.BookingStatusConfirmed); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if err := svc.SetStatus(context.Background(), booking.ID, driver.ID, models.BookingStatusCancelled); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	stored := rideRepo.GetRide(ride.ID)
	if stored.AvailableSeats != 3 {
		t.Errorf("expected seat returned after cancel, got %d", stored.AvailableSeats)
	}
}

func TestBooking_DriverCancelPending_LeavesSeatsUntouched(t *testing.T) {
	t.Parallel()

	userRepo, rideRepo, _, svc := newBookingFixture(t)
	driver, ride := seedRide(userRepo, rideRepo, 3)
	passenger := seedPassenger(userRepo, "Alice", "alice@example.com")

	booking, err := svc.Create(context.Background(), passenger.ID, &CreateBookingRequest{RideID: ride.ID.Hex()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.SetStatus(context.Background(), booking.ID, driver.ID, models.BookingStatusCancelled); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	stored := rideRepo.GetRide(ride.ID)
	if stored.AvailableSeats != 3 {
		t.Errorf("cancelling a pending booking must not change seats, got %d", stored.AvailableSeats)
	}
	if rideRepo.SeatWrites != 0 {
		t.Errorf("expected no seat writes, got %d", rideRepo.SeatWrites)
	}
}

func TestBooking_SetStatus_Guards(t *testing.T) {
	t.Parallel()

	userRepo, rideRepo, _, svc := newBookingFixture(t)
	driver, ride := seedRide(userRepo, rideRepo, 3)
	passenger := seedPassenger(userRepo, "Alice", "alice@example.com")
	stranger := seedPassenger(userRepo, "Mallory", "mallory@example.com")

	booking, err := svc.Create(context.Background(), passenger.ID, &CreateBookingRequest{RideID: ride.ID.Hex()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Only confirmed or cancelled are accepted.
	err = svc.SetStatus(context.Background(), booking.ID, driver.ID, models.BookingStatusPending)
	if !errors.Is(err, ErrInvalidBookingStatus) {
		t.Errorf("expected %v, got %v", ErrInvalidBookingStatus, err)
	}

	err = svc.SetStatus(context.Background(), booking.ID, driver.ID, models.BookingStatus("approved"))
	if !errors.Is(err, ErrInvalidBookingStatus) {
		t.Errorf("expected %v, got %v", ErrInvalidBookingStatus, err)
	}

	// Only the ride's driver may act, not the passenger and not a stranger.
	err = svc.SetStatus(context.Background(), booking.ID, passenger.ID, models.BookingStatusConfirmed)
	if !errors.Is(err, ErrNotRideOwner) {
		t.Errorf("expected %v, got %v", ErrNotRideOwner, err)
	}

	err = svc.SetStatus(context.Background(), booking.ID, stranger.ID, models.BookingStatusConfirmed)
	if !errors.Is(err, ErrNotRideOwner) {
		t.Errorf("expected %v, got %v", ErrNotRideOwner, err)
	}

	err = svc.SetStatus(context.Background(), primitive.NewObjectID(), driver.ID, models.BookingStatusConfirmed)
	if !errors.Is(err, ErrBookingNotFound) {
		t.Errorf("expected %v, got %v", ErrBookingNotFound, err)
	}
}

func TestBooking_Confirm_SeatCountNeverNegative(t *testing.T) {
	t.Parallel()

	userRepo, rideRepo, bookingRepo, svc := newBookingFixture(t)
	driver, ride := seedRide(userRepo, rideRepo, 1)
	passenger := seedPassenger(userRepo, "Alice", "alice@example.com")

	booking, err := svc.Create(context.Background(), passenger.ID, &CreateBookingRequest{RideID: ride.ID.Hex()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Seats drained out of band between booking and confirmation.
	rideRepo.GetRide(ride.ID).AvailableSeats = 0

	if err := svc.SetStatus(context.Background(), booking.ID, driver.ID, models.BookingStatusConfirmed); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	stored := rideRepo.GetRide(ride.ID)
	if stored.AvailableSeats != 0 {
		t.Errorf("seat count must clamp at zero, got %d", stored.AvailableSeats)
	}
	if bookingRepo.GetBooking(booking.ID).Status != models.BookingStatusConfirmed {
		t.Error("booking should still confirm")
	}
}

func TestBooking_MissingPassengerEntry_SeatsUntouched(t *testing.T) {
	t.Parallel()

	userRepo, rideRepo, bookingRepo, svc := newBookingFixture(t)
	driver, ride := seedRide(userRepo, rideRepo, 3)
	passenger := seedPassenger(userRepo, "Alice", "alice@example.com")

	booking, err := svc.Create(context.Background(), passenger.ID, &CreateBookingRequest{RideID: ride.ID.Hex()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Simulate the mirror write having been lost.
	rideRepo.GetRide(ride.ID).Passengers = nil

	if err := svc.SetStatus(context.Background(), booking.ID, driver.ID, models.BookingStatusConfirmed); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	if bookingRepo.GetBooking(booking.ID).Status != models.BookingStatusConfirmed {
		t.Error("booking status should update even without a passenger entry")
	}

	stored := rideRepo.GetRide(ride.ID)
	if stored.AvailableSeats != 3 {
		t.Errorf("seats must stay untouched without a passenger entry, got %d", stored.AvailableSeats)
	}
}

func TestBooking_PassengerCancel(t *testing.T) {
	t.Parallel()

	userRepo, rideRepo, _, svc := newBookingFixture(t)
	driver, ride := seedRide(userRepo, rideRepo, 3)
	passenger := seedPassenger(userRepo, "Alice", "alice@example.com")
	stranger := seedPassenger(userRepo, "Mallory", "mallory@example.com")

	booking, err := svc.Create(context.Background(), passenger.ID, &CreateBookingRequest{RideID: ride.ID.Hex()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Only the booking's passenger may withdraw.
	err = svc.Cancel(context.Background(), booking.ID, stranger.ID)
	if !errors.Is(err, ErrNotBookingOwner) {
		t.Errorf("expected %v, got %v", ErrNotBookingOwner, err)
	}

	err = svc.Cancel(context.Background(), booking.ID, driver.ID)
	if !errors.Is(err, ErrNotBookingOwner) {
		t.Errorf("expected %v, got %v", ErrNotBookingOwner, err)
	}

	// Confirmed seat comes back on withdrawal.
	if err := svc.SetStatus(context.Background(), booking.ID, driver.ID, models.BookingStatusConfirmed); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if err := svc.Cancel(context.Background(), booking.ID, passenger.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	stored := rideRepo.GetRide(ride.ID)
	if stored.AvailableSeats != 3 {
		t.Errorf("expected seat returned, got %d", stored.AvailableSeats)
	}

	// Second withdrawal is rejected.
	err = svc.Cancel(context.Background(), booking.ID, passenger.ID)
	if !errors.Is(err, ErrBookingAlreadyCancelled) {
		t.Errorf("expected %v, got %v", ErrBookingAlreadyCancelled, err)
	}
}

func TestBooking_GetForUser_ResolvesRide(t *testing.T) {
	t.Parallel()

	userRepo, rideRepo, _, svc := newBookingFixture(t)
	_, ride := seedRide(userRepo, rideRepo, 3)
	passenger := seedPassenger(userRepo, "Alice", "alice@example.com")

	if _, err := svc.Create(context.Background(), passenger.ID, &CreateBookingRequest{RideID: ride.ID.Hex()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bookings, err := svc.GetForUser(context.Background(), passenger.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(bookings) != 1 {
		t.Fatalf("expected 1 booking, got %d", len(bookings))
	}
	if bookings[0].Ride == nil {
		t.Fatal("expected ride resolved on booking")
	}
	if bookings[0].Ride.Driver == nil || bookings[0].Ride.Driver.Name != "Driver" {
		t.Error("expected driver summary resolved on ride")
	}
	if bookings[0].Passenger == nil || bookings[0].Passenger.ID != passenger.ID {
		t.Error("expected passenger summary resolved")
	}
}

func TestBooking_GetForRide_DriverOnly(t *testing.T) {
	t.Parallel()

	userRepo, rideRepo, _, svc := newBookingFixture(t)
	driver, ride := seedRide(userRepo, rideRepo, 3)
	alice := seedPassenger(userRepo, "Alice", "alice@example.com")
	bob := seedPassenger(userRepo, "Bob", "bob@example.com")

	for _, p := range []*models.User{alice, bob} {
		if _, err := svc.Create(context.Background(), p.ID, &CreateBookingRequest{RideID: ride.ID.Hex()}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	_, err := svc.GetForRide(context.Background(), ride.ID, alice.ID)
	if !errors.Is(err, ErrNotRideOwner) {
		t.Errorf("expected %v, got %v", ErrNotRideOwner, err)
	}

	bookings, err := svc.GetForRide(context.Background(), ride.ID, driver.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(bookings) != 2 {
		t.Fatalf("expected 2 bookings, got %d", len(bookings))
	}

	// Newest first.
	if bookings[0].Passenger.Name != "Bob" || bookings[1].Passenger.Name != "Alice" {
		t.Errorf("expected newest-first order, got %s then %s",
			bookings[0].Passenger.Name, bookings[1].Passenger.Name)
	}
}
