package services

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/akarpov87/homehistory/internal/common"
	"github.com/akarpov87/homehistory/internal/server/models"
)

// PropertyProvider resolves a street address to a property profile.
type PropertyProvider interface {
	LookupByAddress(ctx context.Context, address string) (*models.PropertyProfile, error)
}

// PropertyService validates lookup requests and delegates to the
// configured provider.
type PropertyService struct {
	provider PropertyProvider
}

// NewPropertyService constructs a PropertyService over the given provider.
func NewPropertyService(p PropertyProvider) *PropertyService {
	return &PropertyService{provider: p}
}

// Lookup resolves an address. An empty address is a bad request.
func (s *PropertyService) Lookup(ctx context.Context, address string) (*models.PropertyProfile, error) {
	if address == "" {
		return nil, fmt.Errorf("%w: address is required", common.ErrBadRequest)
	}
	return s.provider.LookupByAddress(ctx, address)
}

// StubPropertyProvider derives a deterministic profile from the address
// itself, so repeated lookups of the same address agree. It stands in
// for a real listing-data integration.
type StubPropertyProvider struct{}

func addressSeed(address string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(address))
	return h.Sum32()
}

// LookupByAddress implements PropertyProvider.
func (StubPropertyProvider) LookupByAddress(_ context.Context, address string) (*models.PropertyProfile, error) {
	seed := addressSeed(address)

	cities := []struct {
		city, state, zip string
	}{
		{"Austin", "TX", "78704"},
		{"Denver", "CO", "80211"},
		{"Nashville", "TN", "37209"},
	}
	c := cities[seed%uint32(len(cities))]

	beds := 3 + int(seed%3)
	baths := 2 + int(seed%2)
	sqft := 1600 + int(seed%1400)
	healthScore := 70 + int(seed%25)

	property := models.Property{
		ID:          fmt.Sprintf("prop_%d", seed),
		Address:     address,
		City:        c.city,
		State:       c.state,
		Zip:         c.zip,
		Beds:        beds,
		Baths:       baths,
		Sqft:        sqft,
		YearBuilt:   1980 + int(seed%30),
		EstValue:    350_000 + int64(seed%450_000),
		Photos:      []string{},
		HealthScore: healthScore,
		LastUpdated: time.Now(),
	}

	recs := []models.PropertyRecord{
		{
			ID:          fmt.Sprintf("r_%d_roof", seed),
			Category:    "Roof Repair",
			Vendor:      "Lone Star Roofing",
			Description: "Replaced damaged shingles and flashing",
			Date:        "2023-07-14",
			Cost:        4200,
			Verified:    true,
		},
		{
			ID:          fmt.Sprintf("r_%d_hvac", seed),
			Category:    "HVAC",
			Vendor:      "ChillRight Heating",
			Description: "Annual service and filter change",
			Date:        "2024-05-10",
			Cost:        250,
			Verified:    true,
		},
		{
			ID:          fmt.Sprintf("r_%d_plumb", seed),
			Category:    "Plumbing",
			Vendor:      "AquaFix Plumbing",
			Description: "Repaired minor pipe leak in kitchen",
			Date:        "2023-02-20",
			Cost:        450,
			Verified:    false,
		},
	}

	vendors := []models.PropertyVendor{
		{ID: "v1", Name: "Lone Star Roofing", Type: "Roofing", Verified: true, Rating: 5},
		{ID: "v2", Name: "BuildPro Renovations", Type: "Remodel", Verified: true, Rating: 4.5},
		{ID: "v3", Name: "AquaFix Plumbing", Type: "Plumbing", Verified: false, Rating: 3.5},
	}

	summary := fmt.Sprintf(
		"This %d bed / %d bath, %d sqft home in %s, %s shows strong upkeep with recent HVAC and roof work. Verified records and a health score of %d/100 support a market-ready profile.",
		beds, baths, sqft, c.city, c.state, healthScore)

	return &models.PropertyProfile{
		Property:     property,
		Records:      recs,
		Vendors:      vendors,
		SmartSummary: summary,
	}, nil
}
