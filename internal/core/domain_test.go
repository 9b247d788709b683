package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func price(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func validTransaction() Transaction {
	return Transaction{
		ID:        "TXN_100",
		Item:      "Coffee",
		Quantity:  2,
		UnitPrice: price("2.50"),
		Total:     price("5.00"),
		Payment:   PaymentCash,
		Location:  LocationInStore,
		Date:      NewDate(2023, 4, 1),
	}
}

func TestTransactionValidate(t *testing.T) {
	if err := validTransaction().Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Transaction)
		want   error
	}{
		{"empty id", func(tx *Transaction) { tx.ID = "  " }, ErrEmptyID},
		{"empty item", func(tx *Transaction) { tx.Item = "" }, ErrEmptyItem},
		{"zero quantity", func(tx *Transaction) { tx.Quantity = 0 }, ErrInvalidQuantity},
		{"negative price", func(tx *Transaction) { tx.UnitPrice = price("-1") }, ErrInvalidUnitPrice},
		{"total mismatch", func(tx *Transaction) { tx.Total = price("5.01") }, ErrInconsistentSum},
		{"payment outside set", func(tx *Transaction) { tx.Payment = "Cheque" }, ErrInvalidPayment},
		{"location outside set", func(tx *Transaction) { tx.Location = "Drive-through" }, ErrInvalidLocation},
		{"zero date", func(tx *Transaction) { tx.Date = Date{Time: time.Time{}} }, ErrInvalidDate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := validTransaction()
			tc.mutate(&tx)
			if err := tx.Validate(); err != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestTransactionValidateAcceptsSentinels(t *testing.T) {
	tx := validTransaction()
	tx.Payment = PaymentUnknown
	tx.Location = LocationError
	if err := tx.Validate(); err != nil {
		t.Fatalf("sentinel categories must validate, got %v", err)
	}
}

func TestTotalCents(t *testing.T) {
	tx := validTransaction()
	if got := tx.TotalCents(); got != 500 {
		t.Fatalf("expected 500 cents, got %d", got)
	}
	if got := tx.UnitPriceCents(); got != 250 {
		t.Fatalf("expected 250 cents, got %d", got)
	}
}

func TestDateKey(t *testing.T) {
	d := NewDate(2023, 4, 9)
	if d.Key() != "2023-04-09" {
		t.Fatalf("unexpected key %q", d.Key())
	}
}
