package events

import (
	"github.com/agriplan/procure/pkg/domain/entities"
)

const (
	OrderDraftedEvent   = "order.drafted"
	InvoiceAppliedEvent = "order.invoice_applied"
	PriceRecordedEvent  = "ledger.price_recorded"
)

type OrderDrafted struct {
	Order      entities.Order `json:"order"`
	BidEventID string         `json:"bid_event_id"`
}

type InvoiceApplied struct {
	OrderID       string                   `json:"order_id"`
	InvoiceNumber string                   `json:"invoice_number"`
	Order         entities.Order           `json:"order"`
	Received      []entities.InventoryItem `json:"received"`
}

type PriceRecorded struct {
	Entry entities.PriceLedgerEntry `json:"entry"`
}

func NewOrderDraftedEvent(order entities.Order) Event {
	return NewEvent(OrderDraftedEvent, order.ID, OrderDrafted{
		Order:      order,
		BidEventID: order.BidEventID,
	})
}

func NewInvoiceAppliedEvent(order entities.Order, invoiceNumber string, received []entities.InventoryItem) Event {
	return NewEvent(InvoiceAppliedEvent, order.ID, InvoiceApplied{
		OrderID:       order.ID,
		InvoiceNumber: invoiceNumber,
		Order:         order,
		Received:      received,
	})
}

func NewPriceRecordedEvent(orderID string, entry entities.PriceLedgerEntry) Event {
	return NewEvent(PriceRecordedEvent, orderID, PriceRecorded{Entry: entry})
}
