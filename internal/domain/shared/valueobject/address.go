package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Address is a value object representing a postal address
// It is immutable - all operations return new Address instances
type Address struct {
	line1      string
	line2      string
	city       string
	region     string
	postalCode string
	country    string
}

// AddressOption is a functional option for configuring Address
type AddressOption func(*Address)

// WithLine2 sets the secondary address line (suite, apartment)
func WithLine2(line2 string) AddressOption {
	return func(a *Address) {
		a.line2 = strings.TrimSpace(line2)
	}
}

// WithPostalCode sets the postal code for the address
func WithPostalCode(postalCode string) AddressOption {
	return func(a *Address) {
		a.postalCode = strings.TrimSpace(postalCode)
	}
}

// WithCountry sets the ISO 3166-1 alpha-2 country code
func WithCountry(country string) AddressOption {
	return func(a *Address) {
		a.country = strings.ToUpper(strings.TrimSpace(country))
	}
}

// NewAddress creates a new Address with the required fields
// Line1, city, and region are required; the rest are optional
func NewAddress(line1, city, region string, opts ...AddressOption) (Address, error) {
	line1 = strings.TrimSpace(line1)
	city = strings.TrimSpace(city)
	region = strings.TrimSpace(region)

	if line1 == "" {
		return Address{}, fmt.Errorf("address line1 cannot be empty")
	}
	if len(line1) > 200 {
		return Address{}, fmt.Errorf("address line1 cannot exceed 200 characters")
	}
	if city == "" {
		return Address{}, fmt.Errorf("city cannot be empty")
	}
	if len(city) > 100 {
		return Address{}, fmt.Errorf("city cannot exceed 100 characters")
	}
	if len(region) > 100 {
		return Address{}, fmt.Errorf("region cannot exceed 100 characters")
	}

	addr := Address{
		line1:   line1,
		city:    city,
		region:  region,
		country: "US",
	}

	for _, opt := range opts {
		opt(&addr)
	}

	if len(addr.line2) > 200 {
		return Address{}, fmt.Errorf("address line2 cannot exceed 200 characters")
	}
	if len(addr.postalCode) > 20 {
		return Address{}, fmt.Errorf("postal code cannot exceed 20 characters")
	}
	if addr.country != "" && len(addr.country) != 2 {
		return Address{}, fmt.Errorf("country must be a 2-letter ISO code")
	}

	return addr, nil
}

// MustNewAddress creates a new Address, panics on error
func MustNewAddress(line1, city, region string, opts ...AddressOption) Address {
	addr, err := NewAddress(line1, city, region, opts...)
	if err != nil {
		panic(err)
	}
	return addr
}

// EmptyAddress returns an empty address (for optional address fields)
func EmptyAddress() Address {
	return Address{}
}

// Line1 returns the primary address line
func (a Address) Line1() string {
	return a.line1
}

// Line2 returns the secondary address line
func (a Address) Line2() string {
	return a.line2
}

// City returns the city
func (a Address) City() string {
	return a.city
}

// Region returns the state or province
func (a Address) Region() string {
	return a.region
}

// PostalCode returns the postal code
func (a Address) PostalCode() string {
	return a.postalCode
}

// Country returns the country code
func (a Address) Country() string {
	return a.country
}

// IsEmpty returns true if the address has no content
func (a Address) IsEmpty() bool {
	return a.line1 == "" && a.city == ""
}

// Equals returns true if all fields match
func (a Address) Equals(other Address) bool {
	return a == other
}

// String returns a single-line representation
func (a Address) String() string {
	parts := make([]string, 0, 6)
	for _, p := range []string{a.line1, a.line2, a.city, a.region, a.postalCode, a.country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// addressJSON is the wire representation of Address
type addressJSON struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	Region     string `json:"region,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

// MarshalJSON implements json.Marshaler
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(addressJSON{
		Line1:      a.line1,
		Line2:      a.line2,
		City:       a.city,
		Region:     a.region,
		PostalCode: a.postalCode,
		Country:    a.country,
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (a *Address) UnmarshalJSON(data []byte) error {
	var aj addressJSON
	if err := json.Unmarshal(data, &aj); err != nil {
		return err
	}
	a.line1 = aj.Line1
	a.line2 = aj.Line2
	a.city = aj.City
	a.region = aj.Region
	a.postalCode = aj.PostalCode
	a.country = aj.Country
	return nil
}

// Value implements driver.Valuer for database storage (stored as JSONB)
func (a Address) Value() (driver.Value, error) {
	b, err := a.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for database retrieval
func (a *Address) Scan(value interface{}) error {
	if value == nil {
		*a = Address{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Address", value)
	}
	return a.UnmarshalJSON(data)
}
