package services

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"carpool/internal/models"
	"carpool/internal/repositories/interfaces"
	"carpool/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestLogger() *logger.Logger {
	log, _ := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Format: "text"})
	log.SetOutput(io.Discard)
	return log
}

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

type mockUserRepository struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User

	RatingWrites int
	LastRating   float64
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[primitive.ObjectID]*models.User)}
}

func (m *mockUserRepository) AddUser(user *models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	m.users[user.ID] = user
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.Email == user.Email {
			return interfaces.ErrDuplicate
		}
	}

	user.ID = primitive.NewObjectID()
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return user, nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, interfaces.ErrNotFound
}

func (m *mockUserRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make(map[primitive.ObjectID]*models.User)
	for _, id := range ids {
		if user, ok := m.users[id]; ok {
			result[id] = user
		}
	}
	return result, nil
}

func (m *mockUserRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok {
		return interfaces.ErrNotFound
	}

	for key, value := range updates {
		switch key {
		case "name":
			user.Name = value.(string)
		case "phone":
			user.Phone = value.(string)
		case "bio":
			user.Bio = value.(string)
		case "profile_picture":
			user.ProfilePicture = value.(string)
		case "is_driver":
			user.IsDriver = value.(bool)
		}
	}
	return nil
}

func (m *mockUserRepository) UpdateRating(ctx context.Context, id primitive.ObjectID, rating float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok {
		return interfaces.ErrNotFound
	}

	user.Rating = rating
	m.RatingWrites++
	m.LastRating = rating
	return nil
}

// ──────────────────────────────────────────────
// MOCK RIDE REPOSITORY
// ──────────────────────────────────────────────

type mockRideRepository struct {
	mu    sync.Mutex
	rides map[primitive.ObjectID]*models.Ride

	SeatWrites int
}

func newMockRideRepository() *mockRideRepository {
	return &mockRideRepository{rides: make(map[primitive.ObjectID]*models.Ride)}
}

func (m *mockRideRepository) AddRide(ride *models.Ride) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ride.ID.IsZero() {
		ride.ID = primitive.NewObjectID()
	}
	m.rides[ride.ID] = ride
}

func (m *mockRideRepository) GetRide(id primitive.ObjectID) *models.Ride {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rides[id]
}

func (m *mockRideRepository) Create(ctx context.Context, ride *models.Ride) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ride.ID = primitive.NewObjectID()
	m.rides[ride.ID] = ride
	return nil
}

func (m *mockRideRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Ride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ride, ok := m.rides[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}

	copied := *ride
	copied.Passengers = append([]models.Passenger(nil), ride.Passengers...)
	return &copied, nil
}

func (m *mockRideRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ride, ok := m.rides[id]
	if !ok {
		return interfaces.ErrNotFound
	}

	for key, value := range updates {
		switch key {
		case "departure_location":
			ride.DepartureLocation = *value.(*models.Location)
		case "destination_location":
			ride.DestinationLocation = *value.(*models.Location)
		case "departure_time":
			ride.DepartureTime = *value.(*time.Time)
		case "estimated_arrival_time":
			ride.EstimatedArrivalTime = *value.(*time.Time)
		case "price":
			ride.Price = value.(float64)
		case "available_seats":
			ride.AvailableSeats = value.(int)
		case "description":
			ride.Description = value.(string)
		case "car_details":
			ride.CarDetails = value.(*models.CarDetails)
		}
	}
	return nil
}

func (m *mockRideRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rides[id]; !ok {
		return interfaces.ErrNotFound
	}
	delete(m.rides, id)
	return nil
}

func (m *mockRideRepository) Search(ctx context.Context, filter *interfaces.RideFilter) ([]*models.Ride, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var rides []*models.Ride
	for _, ride := range m.rides {
		if ride.Status != models.RideStatusScheduled {
			continue
		}
		if filter.DepartureCity != "" && ride.DepartureLocation.City != filter.DepartureCity {
			continue
		}
		if filter.DestinationCity != "" && ride.DestinationLocation.City != filter.DestinationCity {
			continue
		}
		if filter.MinSeats != nil && ride.AvailableSeats < *filter.MinSeats {
			continue
		}
		rides = append(rides, ride)
	}

	sort.Slice(rides, func(i, j int) bool {
		return rides[i].DepartureTime.Before(rides[j].DepartureTime)
	})

	total := int64(len(rides))
	if filter.Skip > 0 {
		if filter.Skip >= len(rides) {
			rides = nil
		} else {
			rides = rides[filter.Skip:]
		}
	}
	if filter.Limit > 0 && len(rides) > filter.Limit {
		rides = rides[:filter.Limit]
	}

	return rides, total, nil
}

func (m *mockRideRepository) GetByDriver(ctx context.Context, driverID primitive.ObjectID) ([]*models.Ride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var rides []*models.Ride
	for _, ride := range m.rides {
		if ride.Driver == driverID {
			rides = append(rides, ride)
		}
	}
	return rides, nil
}

func (m *mockRideRepository) GetByPassenger(ctx context.Context, userID primitive.ObjectID) ([]*models.Ride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var rides []*models.Ride
	for _, ride := range m.rides {
		for i := range ride.Passengers {
			if ride.Passengers[i].User == userID {
				rides = append(rides, ride)
				break
			}
		}
	}
	return rides, nil
}

func (m *mockRideRepository) AddPassenger(ctx context.Context, rideID primitive.ObjectID, passenger *models.Passenger) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ride, ok := m.rides[rideID]
	if !ok {
		return interfaces.ErrNotFound
	}

	ride.Passengers = append(ride.Passengers, *passenger)
	return nil
}

func (m *mockRideRepository) UpdatePassengerStatus(ctx context.Context, rideID, userID primitive.ObjectID, status models.BookingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ride, ok := m.rides[rideID]
	if !ok {
		return interfaces.ErrNotFound
	}

	for i := range ride.Passengers {
		if ride.Passengers[i].User == userID {
			ride.Passengers[i].Status = status
			return nil
		}
	}
	return interfaces.ErrNotFound
}

func (m *mockRideRepository) SetAvailableSeats(ctx context.Context, rideID primitive.ObjectID, seats int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ride, ok := m.rides[rideID]
	if !ok {
		return interfaces.ErrNotFound
	}

	ride.AvailableSeats = seats
	m.SeatWrites++
	return nil
}

func (m *mockRideRepository) UpdateStatus(ctx context.Context, rideID primitive.ObjectID, status models.RideStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ride, ok := m.rides[rideID]
	if !ok {
		return interfaces.ErrNotFound
	}

	ride.Status = status
	return nil
}

// ──────────────────────────────────────────────
// MOCK BOOKING REPOSITORY
// ──────────────────────────────────────────────

type mockBookingRepository struct {
	mu       sync.Mutex
	bookings map[primitive.ObjectID]*models.Booking
	order    []primitive.ObjectID
}

func newMockBookingRepository() *mockBookingRepository {
	return &mockBookingRepository{bookings: make(map[primitive.ObjectID]*models.Booking)}
}

func (m *mockBookingRepository) CountBookings() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.bookings)
}

func (m *mockBookingRepository) GetBooking(id primitive.ObjectID) *models.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bookings[id]
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.bookings {
		if existing.Ride == booking.Ride && existing.Passenger == booking.Passenger {
			return interfaces.ErrDuplicate
		}
	}

	booking.ID = primitive.NewObjectID()
	booking.CreatedAt = time.Now()
	m.bookings[booking.ID] = booking
	m.order = append(m.order, booking.ID)
	return nil
}

func (m *mockBookingRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	booking, ok := m.bookings[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}

	copied := *booking
	return &copied, nil
}

func (m *mockBookingRepository) GetByRideAndPassenger(ctx context.Context, rideID, passengerID primitive.ObjectID) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, booking := range m.bookings {
		if booking.Ride == rideID && booking.Passenger == passengerID {
			return booking, nil
		}
	}
	return nil, nil
}

func (m *mockBookingRepository) GetByPassenger(ctx context.Context, passengerID primitive.ObjectID) ([]*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var bookings []*models.Booking
	for i := len(m.order) - 1; i >= 0; i-- {
		booking := m.bookings[m.order[i]]
		if booking != nil && booking.Passenger == passengerID {
			bookings = append(bookings, booking)
		}
	}
	return bookings, nil
}

func (m *mockBookingRepository) GetByRide(ctx context.Context, rideID primitive.ObjectID) ([]*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var bookings []*models.Booking
	for i := len(m.order) - 1; i >= 0; i-- {
		booking := m.bookings[m.order[i]]
		if booking != nil && booking.Ride == rideID {
			bookings = append(bookings, booking)
		}
	}
	return bookings, nil
}

func (m *mockBookingRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.BookingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	booking, ok := m.bookings[id]
	if !ok {
		return interfaces.ErrNotFound
	}

	booking.Status = status
	return nil
}

// ──────────────────────────────────────────────
// MOCK REVIEW REPOSITORY
// ──────────────────────────────────────────────

type mockReviewRepository struct {
	mu      sync.Mutex
	reviews []*models.Review
}

func newMockReviewRepository() *mockReviewRepository {
	return &mockReviewRepository{}
}

func (m *mockReviewRepository) CountReviews() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.reviews)
}

func (m *mockReviewRepository) Create(ctx context.Context, review *models.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.reviews {
		if existing.Ride == review.Ride && existing.Reviewer == review.Reviewer && existing.Reviewee == review.Reviewee {
			return interfaces.ErrDuplicate
		}
	}

	review.ID = primitive.NewObjectID()
	review.CreatedAt = time.Now()
	m.reviews = append(m.reviews, review)
	return nil
}

func (m *mockReviewRepository) Exists(ctx context.Context, rideID, reviewerID, revieweeID primitive.ObjectID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, review := range m.reviews {
		if review.Ride == rideID && review.Reviewer == reviewerID && review.Reviewee == revieweeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockReviewRepository) GetByReviewee(ctx context.Context, revieweeID primitive.ObjectID) ([]*models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var reviews []*models.Review
	for i := len(m.reviews) - 1; i >= 0; i-- {
		if m.reviews[i].Reviewee == revieweeID {
			reviews = append(reviews, m.reviews[i])
		}
	}
	return reviews, nil
}

func (m *mockReviewRepository) GetByRide(ctx context.Context, rideID primitive.ObjectID) ([]*models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var reviews []*models.Review
	for i := len(m.reviews) - 1; i >= 0; i-- {
		if m.reviews[i].Ride == rideID {
			reviews = append(reviews, m.reviews[i])
		}
	}
	return reviews, nil
}

func (m *mockReviewRepository) GetAverageRating(ctx context.Context, revieweeID primitive.ObjectID) (float64, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var sum float64
	var count int64
	for _, review := range m.reviews {
		if review.Reviewee == revieweeID {
			sum += float64(review.Rating)
			count++
		}
	}

	if count == 0 {
		return 0, 0, nil
	}
	return sum / float64(count), count, nil
}
