// Package models defines the domain entities for the pantry tracker.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxIngredientNameLength is the maximum allowed length for ingredient names.
const MaxIngredientNameLength = 60

// MaxGroupNameLength is the maximum allowed length for pantry group names.
const MaxGroupNameLength = 50

// JoinCodeLength is the length of generated group join codes.
const JoinCodeLength = 6

// User represents a Telegram user.
type User struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Ingredient is one tracked pantry item. ExpiresAt is the parsed expiry date
// when one could be derived at insert time; ExpiryRaw always preserves what
// the user typed so reclassification can re-parse it.
type Ingredient struct {
	ID          int
	UserID      int64
	GroupID     *int
	Name        string
	Quantity    string
	Category    string
	ExpiryRaw   string
	ExpiresAt   *time.Time
	ImageFileID string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Vendor is a local shop users can order from. PromptPayID is stored as
// entered by the vendor; it is normalized at payment time and may turn out
// to be invalid.
type Vendor struct {
	ID              int
	Name            string
	City            string
	PromptPayID     string
	DeliveryBaseFee decimal.Decimal
	DeliveryPerKm   decimal.Decimal
	Lat             float64
	Lng             float64
	CreatedAt       time.Time
}

// PantryGroup is a shared household pantry.
type PantryGroup struct {
	ID        int
	Name      string
	JoinCode  string
	HostID    int64
	CreatedAt time.Time
}

// GroupMember links a user to a pantry group.
type GroupMember struct {
	ID       int
	GroupID  int
	UserID   int64
	IsHost   bool
	JoinedAt time.Time
}

// Order statuses.
const (
	OrderStatusPending = "pending"
	OrderStatusPaid    = "paid"
)

// Order is a purchase from a vendor awaiting PromptPay payment.
type Order struct {
	ID          int
	UserID      int64
	VendorID    int
	Amount      decimal.Decimal
	DeliveryFee decimal.Decimal
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Total returns the amount plus delivery fee.
func (o *Order) Total() decimal.Decimal {
	return o.Amount.Add(o.DeliveryFee)
}
