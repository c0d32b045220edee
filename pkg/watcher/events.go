package watcher

import (
	"evmscan/pkg/models"
	"evmscan/pkg/route"
)

// EventType defines the type of event being broadcast.
type EventType string

const (
	EventNavigated           EventType = "navigated"
	EventBalanceUpdated      EventType = "balance_updated"
	EventTransactionsUpdated EventType = "transactions_updated"
	EventDetailUpdated       EventType = "detail_updated"
)

// Event is a fetch result tagged with the navigation it belongs to.
type Event struct {
	Type       EventType
	Generation uint64
	Route      route.Route
	Data       interface{}
}

// BalanceData carries the raw wei balance. Err is passed through for the view to degrade.
type BalanceData struct {
	Wei string
	Err error
}

type TransactionsData struct {
	Transactions []models.Transaction
	Err          error
}

// DetailData carries the merged record; nil Detail with nil Err means not found.
type DetailData struct {
	Detail *models.TransactionDetail
	Err    error
}

// Subscriber is a channel that receives events.
type Subscriber chan Event
