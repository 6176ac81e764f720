package models

import "time"

// Item represents a stocked, priced inventory unit
type Item struct {
	ID            int64     `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	TotalPrice    float64   `db:"total_price" json:"price"`
	Quantity      int       `db:"quantity" json:"quantity"`
	UnitPrice     float64   `db:"unit_price" json:"unitPrice"`
	IsAvailable   bool      `db:"is_available" json:"isAvailable"`
	Consumed      bool      `db:"consumed" json:"consumed"`
	InvoiceNumber string    `db:"invoice_number" json:"invoiceNumber"`
	Message       string    `db:"message" json:"message"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}

// Form represents a recorded withdrawal of an item by a shop/room.
// Item name and unit price are snapshots taken at submission time; ItemID
// is a weak reference kept for traceability and is never resolved back.
type Form struct {
	ID          int64     `db:"id" json:"id"`
	Shop        string    `db:"shop" json:"shop"`
	Room        int       `db:"room" json:"room"`
	Item        string    `db:"item" json:"item"`
	Price       float64   `db:"price" json:"price"`
	Quantity    int       `db:"quantity" json:"quantity"`
	TotalPrice  float64   `db:"total_price" json:"totalPrice"`
	IsAvailable bool      `db:"is_available" json:"isAvailable"`
	Message     string    `db:"message" json:"message"`
	ItemID      int64     `db:"item_id" json:"itemId"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// Firm represents a vendor purchase record, independent of items and forms
type Firm struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Quantity     int       `db:"quantity" json:"quantity"`
	PricePerUnit float64   `db:"price_per_unit" json:"pricePerUnit"`
	TotalPrice   float64   `db:"total_price" json:"totalPrice"`
	Vender       string    `db:"vender" json:"vender"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// ConsumedRecord is a ledger entry derived from an item flagged consumed.
// At most one record exists per ItemID; the sync never rewrites one.
type ConsumedRecord struct {
	ID            int64     `db:"id" json:"id"`
	ItemID        int64     `db:"item_id" json:"itemId"`
	ItemName      string    `db:"item_name" json:"itemName"`
	Price         float64   `db:"price" json:"price"`
	Quantity      int       `db:"quantity" json:"quantity"`
	InvoiceNumber string    `db:"invoice_number" json:"invoiceNumber"`
	Message       string    `db:"message" json:"message"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}
