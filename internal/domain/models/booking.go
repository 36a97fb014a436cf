package models

import "time"

// Booking is a single dated financial transaction from the ledger.
// Amount is signed: revenue accounts book positive, expense accounts negative,
// but the engine derives direction from the account, not from the sign.
type Booking struct {
	EventID      string    `json:"event_id,omitempty"`
	BookedAt     time.Time `json:"booked_at"`
	Amount       float64   `json:"amount"`
	Account      int       `json:"account"`
	Counterparty string    `json:"counterparty,omitempty"`
	Description  string    `json:"description,omitempty"`
}

// Direction marks which side of the cashflow a category contributes to.
type Direction string

const (
	DirectionInflow  Direction = "inflow"
	DirectionOutflow Direction = "outflow"
)

// AccountCategory is the categorizer's verdict for an account number.
type AccountCategory struct {
	Name      string    `json:"name"`
	Direction Direction `json:"direction"`
	Color     string    `json:"color"`
	Range     string    `json:"range"` // e.g. "6000-6199"
}
