package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"cafesales/internal/core"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	if !errors.Is(err, ErrLoad) {
		t.Fatalf("expected ErrLoad, got %v", err)
	}
}

func TestLoadRawHeaderAliases(t *testing.T) {
	path := writeFile(t, t.TempDir(), "raw.csv",
		"Transaction ID,Item,Quantity,Price Per Unit,Total Spent,Payment Method,Location,Transaction Date\n"+
			"TXN_1,Coffee,2,2.00,4.00,Cash,Takeaway,2023-01-15\n"+
			"TXN_2,Salad,1,5.00,,CASH ,In-store,2023-01-16\n")

	records, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].TransactionID != "TXN_1" || records[0].UnitPrice != "2.00" {
		t.Errorf("header aliases mismapped: %+v", records[0])
	}
	if records[1].TotalSpent != "" {
		t.Errorf("expected empty total, got %q", records[1].TotalSpent)
	}
}

func TestLoadPadsShortRows(t *testing.T) {
	path := writeFile(t, t.TempDir(), "ragged.csv",
		"Transaction ID,Item,Quantity,Price Per Unit,Total Spent,Payment Method,Location,Transaction Date\n"+
			"TXN_1,Coffee,2\n")

	records, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Quantity != "2" || records[0].PaymentMethod != "" {
		t.Errorf("short row not padded: %+v", records[0])
	}
}

func TestLoadRejectsUnrecognizableHeader(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.csv", "a,b,c\n1,2,3\n")
	if _, err := Load(path); !errors.Is(err, ErrLoad) {
		t.Fatalf("expected ErrLoad, got %v", err)
	}
}

func sample() []core.Transaction {
	p := func(s string) decimal.Decimal { d, _ := decimal.NewFromString(s); return d }
	return []core.Transaction{
		{
			ID: "TXN_1", Item: "Coffee", Quantity: 2,
			UnitPrice: p("2.00"), Total: p("4.00"),
			Payment: core.PaymentCash, Location: core.LocationTakeaway,
			Date: core.NewDate(2023, 1, 15),
		},
		{
			ID: "TXN_2", Item: "Salad", Quantity: 1,
			UnitPrice: p("5.00"), Total: p("5.00"),
			Payment: core.PaymentUnknown, Location: core.LocationInStore,
			Date: core.NewDate(2023, 1, 16),
		},
	}
}

func TestSaveLoadCleanedRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cleaned", "sales.csv")
	want := sample()

	if err := Save(path, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := LoadCleaned(path)
	if err != nil {
		t.Fatalf("load cleaned: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(got))
	}
	for i := range want {
		a, b := want[i], got[i]
		if a.ID != b.ID || a.Item != b.Item || a.Quantity != b.Quantity ||
			!a.UnitPrice.Equal(b.UnitPrice) || !a.Total.Equal(b.Total) ||
			a.Payment != b.Payment || a.Location != b.Location || a.Date.Key() != b.Date.Key() {
			t.Errorf("row %d changed in round trip:\nsaved:  %+v\nloaded: %+v", i, a, b)
		}
	}
}

func TestLoadCleanedRejectsBrokenInvariant(t *testing.T) {
	path := writeFile(t, t.TempDir(), "broken.csv",
		"id,item,quantity,unit_price,total_sale,payment_method,location,transaction_date,weekday,month\n"+
			"TXN_1,Coffee,2,2.00,5.00,Cash,Takeaway,2023-01-15,Sunday,January\n")
	if _, err := LoadCleaned(path); !errors.Is(err, ErrLoad) {
		t.Fatalf("expected ErrLoad for inconsistent total, got %v", err)
	}
}

func TestParseDate(t *testing.T) {
	good := []string{"2023-01-15", "2023-01-15 13:45:00", "2023/01/15", "01/15/2023"}
	for _, s := range good {
		d, err := ParseDate(s)
		if err != nil {
			t.Errorf("ParseDate(%q): %v", s, err)
			continue
		}
		if d.Key() != "2023-01-15" {
			t.Errorf("ParseDate(%q) = %s", s, d.Key())
		}
	}
	for _, s := range []string{"", "yesterday", "2023-13-40"} {
		if _, err := ParseDate(s); err == nil {
			t.Errorf("ParseDate(%q) should fail", s)
		}
	}
}
