package models

import "time"

// Event types
const (
	EventTypeItemCreated      = "ITEM_CREATED"
	EventTypeItemUpdated      = "ITEM_UPDATED"
	EventTypeItemDeleted      = "ITEM_DELETED"
	EventTypeItemConsumed     = "ITEM_CONSUMED"
	EventTypeStockWithdrawn   = "STOCK_WITHDRAWN"
	EventTypeStockRestored    = "STOCK_RESTORED"
	EventTypeConsumedRecorded = "CONSUMED_RECORDED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// ItemEvent published when an item is created, updated or deleted
type ItemEvent struct {
	BaseEvent
	ItemID      int64   `json:"item_id"`
	Name        string  `json:"name"`
	Quantity    int     `json:"quantity"`
	TotalPrice  float64 `json:"total_price"`
	IsAvailable bool    `json:"is_available"`
}

// ItemConsumedEvent published when an item update flips consumed to true
type ItemConsumedEvent struct {
	BaseEvent
	ItemID int64  `json:"item_id"`
	Name   string `json:"name"`
}

// StockWithdrawnEvent published after a form submission commits
type StockWithdrawnEvent struct {
	BaseEvent
	FormID    int64   `json:"form_id"`
	ItemID    int64   `json:"item_id"`
	ItemName  string  `json:"item_name"`
	Shop      string  `json:"shop"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
	Remaining int     `json:"remaining"`
}

// StockRestoredEvent published when a form deletion opts into restocking
type StockRestoredEvent struct {
	BaseEvent
	FormID    int64 `json:"form_id"`
	ItemID    int64 `json:"item_id"`
	Quantity  int   `json:"quantity"`
	Remaining int   `json:"remaining"`
}

// ConsumedRecordedEvent published when the ledger gains a new record
type ConsumedRecordedEvent struct {
	BaseEvent
	RecordID int64  `json:"record_id"`
	ItemID   int64  `json:"item_id"`
	ItemName string `json:"item_name"`
}
