package httpapi

import (
	"net/http"
	"time"

	"github.com/akarpov87/homehistory/internal/server/models"
)

type propertyLookupRequest struct {
	Address string `json:"address"`
}

type propertyDTO struct {
	ID          string    `json:"id"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	State       string    `json:"state"`
	Zip         string    `json:"zip"`
	Beds        int       `json:"beds"`
	Baths       int       `json:"baths"`
	Sqft        int       `json:"sqft"`
	YearBuilt   int       `json:"yearBuilt"`
	EstValue    int64     `json:"estValue"`
	Photos      []string  `json:"photos"`
	HealthScore int       `json:"healthScore"`
	LastUpdated time.Time `json:"lastUpdated"`
}

type propertyRecordDTO struct {
	ID          string  `json:"id"`
	Category    string  `json:"category"`
	Vendor      string  `json:"vendor"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	Cost        float64 `json:"cost"`
	Verified    bool    `json:"verified"`
}

type propertyVendorDTO struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Verified bool    `json:"verified"`
	Rating   float64 `json:"rating"`
}

type propertyProfileDTO struct {
	Property     propertyDTO         `json:"property"`
	Records      []propertyRecordDTO `json:"records"`
	Vendors      []propertyVendorDTO `json:"vendors"`
	SmartSummary string              `json:"smartSummary"`
}

func toPropertyProfileDTO(p *models.PropertyProfile) propertyProfileDTO {
	out := propertyProfileDTO{
		Property: propertyDTO{
			ID:          p.Property.ID,
			Address:     p.Property.Address,
			City:        p.Property.City,
			State:       p.Property.State,
			Zip:         p.Property.Zip,
			Beds:        p.Property.Beds,
			Baths:       p.Property.Baths,
			Sqft:        p.Property.Sqft,
			YearBuilt:   p.Property.YearBuilt,
			EstValue:    p.Property.EstValue,
			Photos:      p.Property.Photos,
			HealthScore: p.Property.HealthScore,
			LastUpdated: p.Property.LastUpdated,
		},
		Records:      make([]propertyRecordDTO, 0, len(p.Records)),
		Vendors:      make([]propertyVendorDTO, 0, len(p.Vendors)),
		SmartSummary: p.SmartSummary,
	}
	for _, r := range p.Records {
		out.Records = append(out.Records, propertyRecordDTO{
			ID: r.ID, Category: r.Category, Vendor: r.Vendor,
			Description: r.Description, Date: r.Date, Cost: r.Cost, Verified: r.Verified,
		})
	}
	for _, v := range p.Vendors {
		out.Vendors = append(out.Vendors, propertyVendorDTO{
			ID: v.ID, Name: v.Name, Type: v.Type, Verified: v.Verified, Rating: v.Rating,
		})
	}
	return out
}

func (s *Server) handlePropertyLookup(w http.ResponseWriter, r *http.Request) {
	var req propertyLookupRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	profile, err := s.property.Lookup(r.Context(), req.Address)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPropertyProfileDTO(profile))
}
