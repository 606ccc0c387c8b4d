package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carpool/internal/models"
	"carpool/internal/repositories/interfaces"
	"carpool/internal/utils"
	"carpool/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RideService interface {
	Create(ctx context.Context, driverID primitive.ObjectID, request *CreateRideRequest) (*RideResponse, error)
	Search(ctx context.Context, filter *interfaces.RideFilter) ([]*RideResponse, int64, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*RideResponse, error)
	Update(ctx context.Context, rideID, callerID primitive.ObjectID, request *UpdateRideRequest) (*RideResponse, error)
	Delete(ctx context.Context, rideID, callerID primitive.ObjectID) error
	SetStatus(ctx context.Context, rideID, callerID primitive.ObjectID, status models.RideStatus) (models.RideStatus, error)
	GetByDriver(ctx context.Context, driverID primitive.ObjectID) ([]*RideResponse, error)
	GetByPassenger(ctx context.Context, userID primitive.ObjectID) ([]*RideResponse, error)
}

type CreateRideRequest struct {
	DepartureLocation    models.Location    `json:"departure_location" validate:"required"`
	DestinationLocation  models.Location    `json:"destination_location" validate:"required"`
	DepartureTime        time.Time          `json:"departure_time" validate:"required"`
	EstimatedArrivalTime time.Time          `json:"estimated_arrival_time" validate:"required"`
	Price                float64            `json:"price" validate:"required"`
	AvailableSeats       int                `json:"available_seats" validate:"required,min=1"`
	Description          string             `json:"description"`
	CarDetails           *models.CarDetails `json:"car_details"`
}

// UpdateRideRequest carries a partial replacement: nil/zero fields are
// skipped. AvailableSeats is a pointer so an explicit zero still lands.
type UpdateRideRequest struct {
	DepartureLocation    *models.Location   `json:"departure_location"`
	DestinationLocation  *models.Location   `json:"destination_location"`
	DepartureTime        *time.Time         `json:"departure_time"`
	EstimatedArrivalTime *time.Time         `json:"estimated_arrival_time"`
	Price                float64            `json:"price"`
	AvailableSeats       *int               `json:"available_seats"`
	Description          string             `json:"description"`
	CarDetails           *models.CarDetails `json:"car_details"`
}

type rideService struct {
	rideRepo interfaces.RideRepository
	users    *userResolver
	logger   *logger.Logger
}

func NewRideService(rideRepo interfaces.RideRepository, userRepo interfaces.UserRepository, logger *logger.Logger) RideService {
	return &rideService{
		rideRepo: rideRepo,
		users:    &userResolver{userRepo: userRepo},
		logger:   logger,
	}
}

func (s *rideService) Create(ctx context.Context, driverID primitive.ObjectID, request *CreateRideRequest) (*RideResponse, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	ride := &models.Ride{
		Driver:               driverID,
		DepartureLocation:    request.DepartureLocation,
		DestinationLocation:  request.DestinationLocation,
		DepartureTime:        request.DepartureTime,
		EstimatedArrivalTime: request.EstimatedArrivalTime,
		Price:                request.Price,
		AvailableSeats:       request.AvailableSeats,
		Description:          request.Description,
		CarDetails:           request.CarDetails,
		Passengers:           []models.Passenger{},
		Status:               models.RideStatusScheduled,
	}

	if err := s.rideRepo.Create(ctx, ride); err != nil {
		s.logger.WithError(err).Error("Failed to create ride")
		return nil, err
	}

	s.logger.WithRideID(ride.ID).WithUserID(driverID).Info("Ride created")

	return s.toResponse(ctx, ride)
}

func (s *rideService) Search(ctx context.Context, filter *interfaces.RideFilter) ([]*RideResponse, int64, error) {
	rides, total, err := s.rideRepo.Search(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses, err := s.toResponses(ctx, rides)
	if err != nil {
		return nil, 0, err
	}

	return responses, total, nil
}

func (s *rideService) GetByID(ctx context.Context, id primitive.ObjectID) (*RideResponse, error) {
	ride, err := s.getRide(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.toResponse(ctx, ride)
}

func (s *rideService) Update(ctx context.Context, rideID, callerID primitive.ObjectID, request *UpdateRideRequest) (*RideResponse, error) {
	ride, err := s.getRide(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if ride.Driver != callerID {
		return nil, ErrNotRideOwner
	}

	if ride.Status != models.RideStatusScheduled {
		return nil, ErrRideNotEditable
	}

	updates := make(map[string]interface{})
	if request.DepartureLocation != nil {
		updates["departure_location"] = request.DepartureLocation
	}
	if request.DestinationLocation != nil {
		updates["destination_location"] = request.DestinationLocation
	}
	if request.DepartureTime != nil && !request.DepartureTime.IsZero() {
		updates["departure_time"] = request.DepartureTime
	}
	if request.EstimatedArrivalTime != nil && !request.EstimatedArrivalTime.IsZero() {
		updates["estimated_arrival_time"] = request.EstimatedArrivalTime
	}
	if request.Price != 0 {
		updates["price"] = request.Price
	}
	if request.AvailableSeats != nil {
		updates["available_seats"] = *request.AvailableSeats
	}
	if request.Description != "" {
		updates["description"] = request.Description
	}
	if request.CarDetails != nil {
		updates["car_details"] = request.CarDetails
	}

	if len(updates) > 0 {
		if err := s.rideRepo.Update(ctx, rideID, updates); err != nil {
			return nil, err
		}
	}

	updated, err := s.getRide(ctx, rideID)
	if err != nil {
		return nil, err
	}

	return s.toResponse(ctx, updated)
}

func (s *rideService) Delete(ctx context.Context, rideID, callerID primitive.ObjectID) error {
	ride, err := s.getRide(ctx, rideID)
	if err != nil {
		return err
	}

	if ride.Driver != callerID {
		return ErrNotRideOwner
	}

	if ride.Status != models.RideStatusScheduled {
		return ErrRideNotDeletable
	}

	if ride.ConfirmedCount() > 0 {
		return ErrRideHasConfirmedPassengers
	}

	if err := s.rideRepo.Delete(ctx, rideID); err != nil {
		return err
	}

	s.logger.WithRideID(rideID).WithUserID(callerID).Info("Ride deleted")

	return nil
}

// SetStatus forces any of the four lifecycle states. No transition graph
// is enforced; the driver can move a ride back to scheduled.
func (s *rideService) SetStatus(ctx context.Context, rideID, callerID primitive.ObjectID, status models.RideStatus) (models.RideStatus, error) {
	if !status.Valid() {
		return "", ErrInvalidRideStatus
	}

	ride, err := s.getRide(ctx, rideID)
	if err != nil {
		return "", err
	}

	if ride.Driver != callerID {
		return "", ErrNotRideOwner
	}

	if err := s.rideRepo.UpdateStatus(ctx, rideID, status); err != nil {
		return "", err
	}

	s.logger.WithRideID(rideID).WithField("status", status).Info("Ride status updated")

	return status, nil
}

func (s *rideService) GetByDriver(ctx context.Context, driverID primitive.ObjectID) ([]*RideResponse, error) {
	rides, err := s.rideRepo.GetByDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}

	return s.toResponses(ctx, rides)
}

func (s *rideService) GetByPassenger(ctx context.Context, userID primitive.ObjectID) ([]*RideResponse, error) {
	rides, err := s.rideRepo.GetByPassenger(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.toResponses(ctx, rides)
}

func (s *rideService) getRide(ctx context.Context, id primitive.ObjectID) (*models.Ride, error) {
	ride, err := s.rideRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrRideNotFound
		}
		return nil, err
	}
	return ride, nil
}

func (s *rideService) toResponse(ctx context.Context, ride *models.Ride) (*RideResponse, error) {
	users, err := s.users.resolve(ctx, rideUserIDs([]*models.Ride{ride}))
	if err != nil {
		return nil, err
	}
	return buildRideResponse(ride, users), nil
}

func (s *rideService) toResponses(ctx context.Context, rides []*models.Ride) ([]*RideResponse, error) {
	users, err := s.users.resolve(ctx, rideUserIDs(rides))
	if err != nil {
		return nil, err
	}

	responses := make([]*RideResponse, 0, len(rides))
	for _, ride := range rides {
		responses = append(responses, buildRideResponse(ride, users))
	}
	return responses, nil
}
