package models

import "time"

// Property is the public profile of a looked-up address.
type Property struct {
	ID          string
	Address     string
	City        string
	State       string
	Zip         string
	Beds        int
	Baths       int
	Sqft        int
	YearBuilt   int
	EstValue    int64
	Photos      []string
	HealthScore int
	LastUpdated time.Time
}

// PropertyRecord is one maintenance item attributed to a looked-up
// property, as reported by the listing provider.
type PropertyRecord struct {
	ID          string
	Category    string
	Vendor      string
	Description string
	Date        string
	Cost        float64
	Verified    bool
}

// PropertyVendor is a service vendor associated with the property.
type PropertyVendor struct {
	ID       string
	Name     string
	Type     string
	Verified bool
	Rating   float64
}

// PropertyProfile bundles everything an address lookup returns.
type PropertyProfile struct {
	Property     Property
	Records      []PropertyRecord
	Vendors      []PropertyVendor
	SmartSummary string
}
