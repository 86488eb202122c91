// package models defines the data model for the hookx marketplace client
package models

import (
	"fmt"
	"math"
	"net/url"
	"strings"
)

// KeyValueStore is the durable key-value storage shared by the cart and setup state.
//
// Writes overwrite the previous value for a key (last write wins); there is no merge.
type KeyValueStore interface {
	Get(key string) (value string, ok bool, err error) // Get returns the stored value and whether the key exists
	Set(key, value string) error                       // Set stores value under key, replacing any previous value
	Remove(key string) error                           // Remove deletes key; removing a missing key is not an error
}

// LicenseType is the kind of rights a buyer acquires for a hook.
type LicenseType string

const (
	NonExclusive LicenseType = "non_exclusive"
	Exclusive    LicenseType = "exclusive"
)

// Valid reports whether l is a known license type.
func (l LicenseType) Valid() bool {
	return l == NonExclusive || l == Exclusive
}

func (l LicenseType) String() string { return string(l) }

// Label returns a human-readable name for display.
func (l LicenseType) Label() string {
	switch l {
	case NonExclusive:
		return "Non-exclusive"
	case Exclusive:
		return "Exclusive"
	default:
		return string(l)
	}
}

// ParseLicenseType accepts the persisted names as well as hyphenated or upper-case variants.
func ParseLicenseType(s string) (LicenseType, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	l := LicenseType(normalized)
	if !l.Valid() {
		return "", fmt.Errorf("unknown license type %q (want %s or %s)", s, NonExclusive, Exclusive)
	}
	return l, nil
}

// CartKey identifies a cart line. A cart holds at most one item per key.
type CartKey struct {
	HookID      string
	LicenseType LicenseType
}

func (k CartKey) String() string {
	return k.HookID + "/" + string(k.LicenseType)
}

// CartItem is one purchasable license selection.
type CartItem struct {
	HookID      string      `json:"hookId" yaml:"hookId"`
	HookTitle   string      `json:"hookTitle" yaml:"hookTitle"`
	ArtistName  string      `json:"artistName" yaml:"artistName"`
	Price       float64     `json:"price" yaml:"price"`
	LicenseType LicenseType `json:"licenseType" yaml:"licenseType"`
	SellerID    string      `json:"sellerId" yaml:"sellerId"`
	ImageURL    string      `json:"imageUrl,omitempty" yaml:"imageUrl,omitempty"`
}

// Key returns the identity of the item within a cart.
func (i CartItem) Key() CartKey {
	return CartKey{HookID: i.HookID, LicenseType: i.LicenseType}
}

// Validate checks the fields that identity and pricing depend on.
// Display strings are not validated.
func (i CartItem) Validate() error {
	if i.HookID == "" {
		return fmt.Errorf("hook id is required")
	}
	if !i.LicenseType.Valid() {
		return fmt.Errorf("invalid license type %q", i.LicenseType)
	}
	if math.IsNaN(i.Price) || math.IsInf(i.Price, 0) || i.Price < 0 {
		return fmt.Errorf("price must be a non-negative number, got %v", i.Price)
	}
	return nil
}

// BackendConfig holds the coordinates of the backing service.
type BackendConfig struct {
	URL     string `json:"url"`
	AnonKey string `json:"anonKey"`
}

// Validate requires an absolute http(s) url and a non-empty key.
func (c BackendConfig) Validate() error {
	if strings.TrimSpace(c.AnonKey) == "" {
		return fmt.Errorf("anon key is required")
	}
	u, err := url.Parse(strings.TrimSpace(c.URL))
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("url must be an absolute http(s) url, got %q", c.URL)
	}
	return nil
}

// IsZero reports whether neither coordinate is set.
func (c BackendConfig) IsZero() bool {
	return c.URL == "" && c.AnonKey == ""
}

// MaskedKey returns the anon key with all but the last four characters hidden.
func (c BackendConfig) MaskedKey() string {
	if len(c.AnonKey) <= 4 {
		return strings.Repeat("*", len(c.AnonKey))
	}
	return strings.Repeat("*", len(c.AnonKey)-4) + c.AnonKey[len(c.AnonKey)-4:]
}
