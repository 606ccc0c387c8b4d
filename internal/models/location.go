package models

// Coordinates are stored as provided by the client. The server never
// geocodes; rides created without coordinates carry zero values.
type Coordinates struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

// Location is a full trip endpoint: city for search, address for display.
type Location struct {
	City        string      `json:"city" bson:"city" validate:"required"`
	Address     string      `json:"address" bson:"address" validate:"required"`
	Coordinates Coordinates `json:"coordinates" bson:"coordinates"`
}

// Point is an optional pickup/dropoff override attached to a booking.
type Point struct {
	Address     string      `json:"address" bson:"address"`
	Coordinates Coordinates `json:"coordinates" bson:"coordinates"`
}
