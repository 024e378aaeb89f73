package entity

// ReceiptHeader holds the company header printed at the top of a receipt.
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	TaxID     string `json:"tax_id,omitempty"`
}

// ReceiptItem represents a single line item on a receipt.
type ReceiptItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice string  `json:"unit_price"`
	Total     string  `json:"total"`
	Paid      bool    `json:"paid,omitempty"`
}

// ReceiptSplit summarizes the split state printed on a tab receipt.
type ReceiptSplit struct {
	TotalShares     int    `json:"total_shares"`
	RemainingShares int    `json:"remaining_shares"`
	ShareAmount     string `json:"share_amount"`
}

// Receipt is a value object representing a printable document. It is not a
// database entity on its own; it is composed from account or sale data at
// enqueue time and carried as the print job payload.
type Receipt struct {
	Header   ReceiptHeader `json:"header"`
	Number   string        `json:"number"`
	Date     string        `json:"date"`
	Label    string        `json:"label,omitempty"`
	Cashier  string        `json:"cashier,omitempty"`
	Items    []ReceiptItem `json:"items"`
	Total    string        `json:"total"`
	Paid     string        `json:"paid,omitempty"`
	Due      string        `json:"due,omitempty"`
	Split    *ReceiptSplit `json:"split,omitempty"`
	Footer   string        `json:"footer,omitempty"`
}
