package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentCash          PaymentMethod = "Cash"
	PaymentCreditCard    PaymentMethod = "Credit Card"
	PaymentDigitalWallet PaymentMethod = "Digital Wallet"
	PaymentUnknown       PaymentMethod = "Unknown"
	PaymentError         PaymentMethod = "Error"
)

const (
	LocationInStore  Location = "In-store"
	LocationTakeaway Location = "Takeaway"
	LocationUnknown  Location = "Unknown"
	LocationError    Location = "Error"
)

type (
	// PaymentMethod is a closed categorical set. Values outside the known
	// methods are classified as Unknown; rows flagged as data-entry errors
	// keep the explicit Error category.
	PaymentMethod string

	// Location is the sales channel of a transaction.
	Location string

	Date struct {
		time.Time
	}

	// Transaction is a single cleaned sales record.
	Transaction struct {
		ID        string
		Item      string
		Quantity  int
		UnitPrice decimal.Decimal
		Total     decimal.Decimal
		Payment   PaymentMethod
		Location  Location
		Date      Date
	}
)

var (
	ErrEmptyID          = errors.New("empty transaction id")
	ErrEmptyItem        = errors.New("empty item")
	ErrInvalidQuantity  = errors.New("invalid quantity")
	ErrInvalidUnitPrice = errors.New("invalid unit price")
	ErrInconsistentSum  = errors.New("total does not equal quantity times unit price")
	ErrInvalidPayment   = errors.New("payment method outside known set")
	ErrInvalidLocation  = errors.New("location outside known set")
	ErrInvalidDate      = errors.New("invalid transaction date")
)

// KnownPaymentMethods lists every value the payment_method column may carry
// after cleaning, sentinels included.
func KnownPaymentMethods() []PaymentMethod {
	return []PaymentMethod{PaymentCash, PaymentCreditCard, PaymentDigitalWallet, PaymentUnknown, PaymentError}
}

// KnownLocations lists every value the location column may carry after
// cleaning, sentinels included.
func KnownLocations() []Location {
	return []Location{LocationInStore, LocationTakeaway, LocationUnknown, LocationError}
}

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCash, PaymentCreditCard, PaymentDigitalWallet, PaymentUnknown, PaymentError:
		return true
	}
	return false
}

func (l Location) Valid() bool {
	switch l {
	case LocationInStore, LocationTakeaway, LocationUnknown, LocationError:
		return true
	}
	return false
}

// NewDate creates a Date from year, month, day at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Key returns the canonical YYYY-MM-DD form used in files and SQL.
func (d Date) Key() string {
	return d.Format("2006-01-02")
}

// Validate checks every invariant the cleaning pass is supposed to enforce.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(t.Item) == "" {
		return ErrEmptyItem
	}
	if t.Quantity < 1 {
		return ErrInvalidQuantity
	}
	if !t.UnitPrice.IsPositive() {
		return ErrInvalidUnitPrice
	}
	if !t.Total.Equal(t.UnitPrice.Mul(decimal.NewFromInt(int64(t.Quantity)))) {
		return ErrInconsistentSum
	}
	if !t.Payment.Valid() {
		return ErrInvalidPayment
	}
	if !t.Location.Valid() {
		return ErrInvalidLocation
	}
	return t.Date.Validate()
}

// TotalCents converts the transaction total to integer cents.
func (t Transaction) TotalCents() int64 {
	return t.Total.Shift(2).IntPart()
}

// UnitPriceCents converts the unit price to integer cents.
func (t Transaction) UnitPriceCents() int64 {
	return t.UnitPrice.Shift(2).IntPart()
}
