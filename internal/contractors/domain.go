package contractors

import "time"

// Contractor is a customer the fleet hauls for.
type Contractor struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	TRN       string    `json:"trn"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateContractorInput carries fields for registering a contractor.
type CreateContractorInput struct {
	Name  string
	Phone string
	TRN   string
}

// Site is a contractor's work location. The LPO number appears on
// statements generated for the site.
type Site struct {
	ID             int64     `json:"id"`
	ContractorID   int64     `json:"contractor_id"`
	ContractorName string    `json:"contractor_name"`
	Name           string    `json:"name"`
	Location       string    `json:"location"`
	LPONo          string    `json:"lpo_no"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateSiteInput carries fields for registering a site.
type CreateSiteInput struct {
	ContractorID int64
	Name         string
	Location     string
	LPONo        string
}
