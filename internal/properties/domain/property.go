// Package domain provides snapshot types for the properties bounded
// context. Listings are managed externally; the decisioning core only reads
// them.
package domain

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// PropertyStatus is the sales availability of a listing.
type PropertyStatus string

const (
	StatusAvailable        PropertyStatus = "available"
	StatusUnderNegotiation PropertyStatus = "under_negotiation"
	StatusSold             PropertyStatus = "sold"
	StatusBlocked          PropertyStatus = "blocked"
)

// PropertyType buckets listings by construction.
type PropertyType string

const (
	TypeApartment  PropertyType = "apartment"
	TypeVilla      PropertyType = "villa"
	TypePlot       PropertyType = "plot"
	TypeCommercial PropertyType = "commercial"
	TypeOther      PropertyType = "other"
)

// Property is a read snapshot of a listing.
type Property struct {
	ID            uuid.UUID
	Title         string
	City          string
	Area          string
	PropertyType  PropertyType
	Configuration string // bedroom count encoded, e.g. "2BHK"
	Price         int64
	Status        PropertyStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Bedrooms parses the bedroom count from a configuration string such as
// "2BHK" or "3 BHK". Returns 0 when no leading number is present.
func (p Property) Bedrooms() int {
	digits := 0
	for digits < len(p.Configuration) && p.Configuration[digits] >= '0' && p.Configuration[digits] <= '9' {
		digits++
	}
	if digits == 0 {
		return 0
	}
	n, err := strconv.Atoi(p.Configuration[:digits])
	if err != nil {
		return 0
	}
	return n
}
