package service

import (
	"bytes"
	"testing"

	"github.com/mesaposte/mesa-api/internal/domain/entity"
)

func TestFormatReceiptRendersEveryBlock(t *testing.T) {
	r := &entity.Receipt{
		Header: entity.ReceiptHeader{
			StoreName: "Mesa Cantina",
			Address:   "12 Harbor St",
			Phone:     "555-0142",
			TaxID:     "TX-9981",
		},
		Number: "SALE-A1B2C3D4",
		Date:   "2026-08-31 19:45",
		Label:  "Table 4",
		Items: []entity.ReceiptItem{
			{Name: "Burger", Quantity: 2, UnitPrice: "10.00", Total: "20.00"},
			{Name: "Fries", Quantity: 1, UnitPrice: "4.00", Total: "4.00", Paid: true},
		},
		Total: "24.00",
		Paid:  "4.00",
		Due:   "20.00",
		Split: &entity.ReceiptSplit{
			TotalShares:     4,
			RemainingShares: 3,
			ShareAmount:     "6.67",
		},
		Footer: "See you soon",
	}

	out := FormatReceipt(r)

	for _, want := range []string{
		"Mesa Cantina",
		"12 Harbor St",
		"Tax ID: TX-9981",
		"SALE-A1B2C3D4",
		"Table 4",
		"Burger",
		"@ 10.00 each",
		"Fries *",
		"TOTAL:",
		"24.00",
		"Due:",
		"Split 4 ways, 3 to pay",
		"Per share:",
		"See you soon",
	} {
		if !bytes.Contains(out, []byte(want)) {
			t.Fatalf("receipt missing %q", want)
		}
	}

	// ESC/POS partial cut terminates the document.
	if !bytes.Contains(out, []byte{0x1D, 0x56}) {
		t.Fatalf("expected a cut command at the end of the document")
	}
}

func TestFormatReceiptDefaultsFooter(t *testing.T) {
	r := &entity.Receipt{
		Header: entity.ReceiptHeader{StoreName: "Mesa Cantina"},
		Number: "TEST-001",
		Date:   "2026-08-31 19:45",
		Total:  "0.00",
	}

	out := FormatReceipt(r)
	if !bytes.Contains(out, []byte("Thank you for your visit!")) {
		t.Fatalf("expected default footer")
	}
}
