package services

import "errors"

var (
	// ErrUserNotFound is returned when the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken is returned when registering with an existing email.
	ErrEmailTaken = errors.New("user already exists")

	// ErrInvalidCredentials is returned on login with a bad email or password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrRideNotFound is returned when the referenced ride does not exist.
	ErrRideNotFound = errors.New("ride not found")

	// ErrNotRideOwner is returned when a caller manages a ride they do not own.
	ErrNotRideOwner = errors.New("user not authorized")

	// ErrRideNotEditable is returned when updating a ride that is no longer scheduled.
	ErrRideNotEditable = errors.New("cannot update a ride that is already in progress, completed, or cancelled")

	// ErrRideNotDeletable is returned when deleting a ride that is no longer scheduled.
	ErrRideNotDeletable = errors.New("cannot delete a ride that is already in progress or completed")

	// ErrRideHasConfirmedPassengers is returned when deleting a ride with confirmed seats.
	ErrRideHasConfirmedPassengers = errors.New("cannot delete a ride with confirmed passengers")

	// ErrInvalidRideStatus is returned when an unknown ride status is requested.
	ErrInvalidRideStatus = errors.New("invalid status")

	// ErrRideNotBookable is returned when booking a ride that is not scheduled.
	ErrRideNotBookable = errors.New("this ride is no longer available for booking")

	// ErrOwnRideBooking is returned when a driver books their own ride.
	ErrOwnRideBooking = errors.New("you cannot book your own ride")

	// ErrNoSeatsAvailable is returned when a ride has no free seats left.
	ErrNoSeatsAvailable = errors.New("no seats available on this ride")

	// ErrAlreadyBooked is returned when the caller already holds a booking for the ride.
	ErrAlreadyBooked = errors.New("you have already booked this ride")

	// ErrBookingNotFound is returned when the referenced booking does not exist.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrNotBookingOwner is returned when a passenger cancels a booking they do not own.
	ErrNotBookingOwner = errors.New("user not authorized")

	// ErrInvalidBookingStatus is returned when the requested status is not confirmed/cancelled.
	ErrInvalidBookingStatus = errors.New("invalid status")

	// ErrBookingAlreadyCancelled is returned when cancelling a cancelled booking.
	ErrBookingAlreadyCancelled = errors.New("booking is already cancelled")

	// ErrRideNotCompleted is returned when reviewing a ride that is not completed.
	ErrRideNotCompleted = errors.New("can only review completed rides")

	// ErrReviewerNotParticipant is returned when the caller was not a confirmed
	// participant of the reviewed ride.
	ErrReviewerNotParticipant = errors.New("user not authorized to review this ride")

	// ErrRevieweeNotParticipant is returned when the reviewee was not a confirmed
	// participant of the reviewed ride.
	ErrRevieweeNotParticipant = errors.New("can only review users who were part of the ride")

	// ErrSelfReview is returned when a user reviews themselves.
	ErrSelfReview = errors.New("cannot review yourself")

	// ErrDuplicateReview is returned when the (ride, reviewer, reviewee) triple
	// already has a review.
	ErrDuplicateReview = errors.New("review already exists")
)
