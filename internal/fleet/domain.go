package fleet

import "time"

// Vehicle is a truck in the fleet. Capacity is free-form text as entered by
// the operator ("15 tons", "12m3"); Per Ton pricing parses the leading number
// and treats unparseable values as zero tonnage.
type Vehicle struct {
	ID        int64     `json:"id"`
	PlateNo   string    `json:"plate_no"`
	Make      string    `json:"make"`
	Capacity  string    `json:"capacity"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateVehicleInput carries fields for registering a vehicle.
type CreateVehicleInput struct {
	PlateNo  string
	Make     string
	Capacity string
	Active   bool
}

// Driver is a person who operates fleet vehicles.
type Driver struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	LicenseNo string    `json:"license_no"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateDriverInput carries fields for registering a driver.
type CreateDriverInput struct {
	Name      string
	Phone     string
	LicenseNo string
	Active    bool
}
