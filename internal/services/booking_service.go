package services

import (
	"context"
	"errors"

	"carpool/internal/models"
	"carpool/internal/repositories/interfaces"
	"carpool/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingService interface {
	Create(ctx context.Context, passengerID primitive.ObjectID, request *CreateBookingRequest) (*BookingResponse, error)
	SetStatus(ctx context.Context, bookingID, callerID primitive.ObjectID, status models.BookingStatus) error
	Cancel(ctx context.Context, bookingID, callerID primitive.ObjectID) error
	GetForUser(ctx context.Context, userID primitive.ObjectID) ([]*BookingResponse, error)
	GetForRide(ctx context.Context, rideID, callerID primitive.ObjectID) ([]*BookingResponse, error)
}

type CreateBookingRequest struct {
	RideID       string        `json:"ride_id" validate:"required"`
	PickupPoint  *models.Point `json:"pickup_point"`
	DropoffPoint *models.Point `json:"dropoff_point"`
}

type bookingService struct {
	bookingRepo interfaces.BookingRepository
	rideRepo    interfaces.RideRepository
	users       *userResolver
	logger      *logger.Logger
}

func NewBookingService(
	bookingRepo interfaces.BookingRepository,
	rideRepo interfaces.RideRepository,
	userRepo interfaces.UserRepository,
	logger *logger.Logger,
) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		rideRepo:    rideRepo,
		users:       &userResolver{userRepo: userRepo},
		logger:      logger,
	}
}

// Create reserves a pending seat. Preconditions are checked in order and
// each rejection is specific. Seats are not decremented here; that
// happens when the driver confirms.
func (s *bookingService) Create(ctx context.Context, passengerID primitive.ObjectID, request *CreateBookingRequest) (*BookingResponse, error) {
	rideID, err := primitive.ObjectIDFromHex(request.RideID)
	if err != nil {
		// A malformed id is indistinguishable from a missing ride.
		return nil, ErrRideNotFound
	}

	ride, err := s.getRide(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if ride.Status != models.RideStatusScheduled {
		return nil, ErrRideNotBookable
	}

	if ride.Driver == passengerID {
		return nil, ErrOwnRideBooking
	}

	if ride.AvailableSeats < 1 {
		return nil, ErrNoSeatsAvailable
	}

	existing, err := s.bookingRepo.GetByRideAndPassenger(ctx, rideID, passengerID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyBooked
	}

	booking := &models.Booking{
		Ride:         rideID,
		Passenger:    passengerID,
		Status:       models.BookingStatusPending,
		PickupPoint:  request.PickupPoint,
		DropoffPoint: request.DropoffPoint,
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		if errors.Is(err, interfaces.ErrDuplicate) {
			return nil, ErrAlreadyBooked
		}
		s.logger.WithError(err).Error("Failed to create booking")
		return nil, err
	}

	// Mirror the booking into the ride's passenger list. The two writes
	// are independent; a failure here leaves the ledger and the ride out
	// of sync until the driver acts on the booking.
	passenger := &models.Passenger{
		User:         passengerID,
		Status:       models.BookingStatusPending,
		PickupPoint:  request.PickupPoint,
		DropoffPoint: request.DropoffPoint,
	}
	if err := s.rideRepo.AddPassenger(ctx, rideID, passenger); err != nil {
		s.logger.WithError(err).WithRideID(rideID).WithBookingID(booking.ID).
			Error("Booking created but passenger mirror write failed")
		return nil, err
	}

	s.logger.WithBookingID(booking.ID).WithRideID(rideID).WithUserID(passengerID).Info("Booking created")

	return s.toResponse(ctx, booking, ride)
}

// SetStatus lets the ride's driver confirm or cancel a booking. The
// mirrored passenger entry is updated alongside, and the seat count is
// adjusted only on a real transition: into confirmed costs a seat,
// confirmed to cancelled returns one.
func (s *bookingService) SetStatus(ctx context.Context, bookingID, callerID primitive.ObjectID, status models.BookingStatus) error {
	if status != models.BookingStatusConfirmed && status != models.BookingStatusCancelled {
		return ErrInvalidBookingStatus
	}

	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return err
	}

	ride, err := s.getRide(ctx, booking.Ride)
	if err != nil {
		return err
	}

	if ride.Driver != callerID {
		return ErrNotRideOwner
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, status); err != nil {
		return err
	}

	s.syncPassengerEntry(ctx, ride, booking.Passenger, status)

	s.logger.WithBookingID(bookingID).WithRideID(ride.ID).WithField("status", status).Info("Booking status updated")

	return nil
}

// Cancel lets the booking's passenger withdraw. A confirmed seat is
// returned to the ride.
func (s *bookingService) Cancel(ctx context.Context, bookingID, callerID primitive.ObjectID) error {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return err
	}

	if booking.Passenger != callerID {
		return ErrNotBookingOwner
	}

	if booking.Status == models.BookingStatusCancelled {
		return ErrBookingAlreadyCancelled
	}

	ride, err := s.getRide(ctx, booking.Ride)
	if err != nil {
		return err
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, models.BookingStatusCancelled); err != nil {
		return err
	}

	s.syncPassengerEntry(ctx, ride, booking.Passenger, models.BookingStatusCancelled)

	s.logger.WithBookingID(bookingID).WithUserID(callerID).Info("Booking cancelled by passenger")

	return nil
}

// syncPassengerEntry mirrors a booking transition onto the ride document
// and settles the seat count. A missing entry leaves the ride untouched;
// the booking update already landed.
func (s *bookingService) syncPassengerEntry(ctx context.Context, ride *models.Ride, userID primitive.ObjectID, status models.BookingStatus) {
	idx := ride.FindPassenger(userID)
	if idx < 0 {
		s.logger.WithRideID(ride.ID).WithUserID(userID).
			Warn("No passenger entry found for booking; seat count left unchanged")
		return
	}

	prior := ride.Passengers[idx].Status
	if err := s.rideRepo.UpdatePassengerStatus(ctx, ride.ID, userID, status); err != nil {
		s.logger.WithError(err).WithRideID(ride.ID).Error("Failed to sync passenger entry")
		return
	}

	seats := ride.AvailableSeats
	switch {
	case status == models.BookingStatusConfirmed && prior != models.BookingStatusConfirmed:
		seats--
		if seats < 0 {
			seats = 0
		}
	case status == models.BookingStatusCancelled && prior == models.BookingStatusConfirmed:
		seats++
	default:
		return
	}

	if err := s.rideRepo.SetAvailableSeats(ctx, ride.ID, seats); err != nil {
		s.logger.WithError(err).WithRideID(ride.ID).Error("Failed to adjust available seats")
	}
}

func (s *bookingService) GetForUser(ctx context.Context, userID primitive.ObjectID) ([]*BookingResponse, error) {
	bookings, err := s.bookingRepo.GetByPassenger(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]*BookingResponse, 0, len(bookings))
	for _, booking := range bookings {
		ride, err := s.rideRepo.GetByID(ctx, booking.Ride)
		if err != nil {
			if errors.Is(err, interfaces.ErrNotFound) {
				ride = nil
			} else {
				return nil, err
			}
		}

		response, err := s.toResponse(ctx, booking, ride)
		if err != nil {
			return nil, err
		}
		responses = append(responses, response)
	}

	return responses, nil
}

func (s *bookingService) GetForRide(ctx context.Context, rideID, callerID primitive.ObjectID) ([]*BookingResponse, error) {
	ride, err := s.getRide(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if ride.Driver != callerID {
		return nil, ErrNotRideOwner
	}

	bookings, err := s.bookingRepo.GetByRide(ctx, rideID)
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(bookings))
	for _, booking := range bookings {
		ids = append(ids, booking.Passenger)
	}

	users, err := s.users.resolve(ctx, ids)
	if err != nil {
		return nil, err
	}

	responses := make([]*BookingResponse, 0, len(bookings))
	for _, booking := range bookings {
		responses = append(responses, &BookingResponse{
			ID:           booking.ID,
			RideID:       booking.Ride,
			Passenger:    users[booking.Passenger],
			Status:       booking.Status,
			PickupPoint:  booking.PickupPoint,
			DropoffPoint: booking.DropoffPoint,
			CreatedAt:    booking.CreatedAt,
		})
	}

	return responses, nil
}

func (s *bookingService) getBooking(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) getRide(ctx context.Context, id primitive.ObjectID) (*models.Ride, error) {
	ride, err := s.rideRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrRideNotFound
		}
		return nil, err
	}
	return ride, nil
}

func (s *bookingService) toResponse(ctx context.Context, booking *models.Booking, ride *models.Ride) (*BookingResponse, error) {
	ids := []primitive.ObjectID{booking.Passenger}
	if ride != nil {
		ids = append(ids, rideUserIDs([]*models.Ride{ride})...)
	}

	users, err := s.users.resolve(ctx, ids)
	if err != nil {
		return nil, err
	}

	response := &BookingResponse{
		ID:           booking.ID,
		RideID:       booking.Ride,
		Passenger:    users[booking.Passenger],
		Status:       booking.Status,
		PickupPoint:  booking.PickupPoint,
		DropoffPoint: booking.DropoffPoint,
		CreatedAt:    booking.CreatedAt,
	}
	if ride != nil {
		response.Ride = buildRideResponse(ride, users)
	}

	return response, nil
}
