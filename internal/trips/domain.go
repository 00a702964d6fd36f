package trips

import "time"

// Trip is a single haul event by a driver and vehicle on a date.
type Trip struct {
	ID             int64     `json:"id"`
	Date           time.Time `json:"date"`
	MaterialType   string    `json:"material_type"`
	FromLocation   string    `json:"from_location"`
	ToLocation     string    `json:"to_location"`
	DriverID       int64     `json:"driver_id"`
	DriverName     string    `json:"driver_name"`
	VehicleID      int64     `json:"vehicle_id"`
	VehiclePlateNo string    `json:"vehicle_plate_no"`
	InvoiceID      *int64    `json:"invoice_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateTripInput carries fields for logging a trip.
type CreateTripInput struct {
	Date         time.Time
	MaterialType string
	FromLocation string
	ToLocation   string
	DriverID     int64
	VehicleID    int64
}

// ListTripsRequest filters trip listings.
type ListTripsRequest struct {
	DriverID  int64
	VehicleID int64
	InvoiceID int64
	Unbilled  bool
	FromDate  time.Time
	ToDate    time.Time
	Limit     int
	Offset    int
}
