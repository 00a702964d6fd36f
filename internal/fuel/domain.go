package fuel

import "time"

// DieselRecord is one refuelling event.
type DieselRecord struct {
	ID             int64     `json:"id"`
	Date           time.Time `json:"date"`
	VehicleID      int64     `json:"vehicle_id"`
	VehiclePlateNo string    `json:"vehicle_plate_no"`
	DriverID       int64     `json:"driver_id"`
	DriverName     string    `json:"driver_name"`
	Liters         float64   `json:"liters"`
	Amount         float64   `json:"amount"`
	Station        string    `json:"station"`
	Odometer       int64     `json:"odometer"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateDieselInput carries fields for logging a refuelling.
type CreateDieselInput struct {
	Date      time.Time
	VehicleID int64
	DriverID  int64
	Liters    float64
	Amount    float64
	Station   string
	Odometer  int64
}

// MonthlySummary aggregates a vehicle's fuel spend for one month.
type MonthlySummary struct {
	VehicleID      int64   `json:"vehicle_id"`
	VehiclePlateNo string  `json:"vehicle_plate_no"`
	Month          string  `json:"month"`
	TotalLiters    float64 `json:"total_liters"`
	TotalAmount    float64 `json:"total_amount"`
	FillCount      int64   `json:"fill_count"`
}
