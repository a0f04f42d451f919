package entities

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewOrder(t *testing.T) {
	order, err := NewOrder("ORDER-1", "ORD-2026-001", "V-HELENA", 2026)
	if err != nil {
		t.Fatalf("Failed to create order: %v", err)
	}

	if order.Status != OrderDraft {
		t.Errorf("Expected draft status, got %v", order.Status)
	}
	if order.PaymentStatus != PaymentUnpaid {
		t.Errorf("Expected unpaid, got %v", order.PaymentStatus)
	}
	if order.Version != 0 {
		t.Errorf("Expected version 0, got %d", order.Version)
	}
}

func TestNewOrder_Validation(t *testing.T) {
	tests := []struct {
		name        string
		id          string
		orderNumber string
		vendorID    string
		seasonYear  int
	}{
		{name: "empty_id", orderNumber: "ORD-2026-001", vendorID: "V-1", seasonYear: 2026},
		{name: "empty_order_number", id: "ORDER-1", vendorID: "V-1", seasonYear: 2026},
		{name: "empty_vendor", id: "ORDER-1", orderNumber: "ORD-2026-001", seasonYear: 2026},
		{name: "zero_season_year", id: "ORDER-1", orderNumber: "ORD-2026-001", vendorID: "V-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewOrder(tt.id, tt.orderNumber, tt.vendorID, tt.seasonYear); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestOrder_CloneIsDeep(t *testing.T) {
	order, err := NewOrder("ORDER-1", "ORD-2026-001", "V-HELENA", 2026)
	if err != nil {
		t.Fatalf("Failed to create order: %v", err)
	}
	order.Lines = []OrderLineItem{
		{ID: "OL-1", ProductID: "P-UREA", OrderedQty: decimal.NewFromInt(100), Status: LinePending},
	}

	clone := order.Clone()
	clone.Lines[0].ReceivedQty = decimal.NewFromInt(40)
	clone.Lines[0].Status = LinePartial
	clone.Status = OrderPartial

	if !order.Lines[0].ReceivedQty.IsZero() {
		t.Errorf("Clone mutation leaked into original line: %s", order.Lines[0].ReceivedQty)
	}
	if order.Status != OrderDraft {
		t.Errorf("Clone mutation leaked into original status: %v", order.Status)
	}
}

func TestOrder_LineByID(t *testing.T) {
	order, err := NewOrder("ORDER-1", "ORD-2026-001", "V-HELENA", 2026)
	if err != nil {
		t.Fatalf("Failed to create order: %v", err)
	}
	order.Lines = []OrderLineItem{
		{ID: "OL-1", ProductID: "P-UREA"},
		{ID: "OL-2", ProductID: "P-AMS"},
	}

	line, err := order.LineByID("OL-2")
	if err != nil {
		t.Fatalf("Failed to find line: %v", err)
	}
	if line.ProductID != "P-AMS" {
		t.Errorf("Expected P-AMS, got %s", line.ProductID)
	}

	// The returned pointer aliases the order's own line
	line.ReceivedQty = decimal.NewFromInt(5)
	if !order.Lines[1].ReceivedQty.Equal(decimal.NewFromInt(5)) {
		t.Error("LineByID must return a pointer into the order")
	}

	if _, err := order.LineByID("OL-MISSING"); err == nil {
		t.Error("Expected error for missing line")
	}
}

func TestParseOrderStatus(t *testing.T) {
	tests := []struct {
		input    string
		expected OrderStatus
		wantErr  bool
	}{
		{input: "draft", expected: OrderDraft},
		{input: "ordered", expected: OrderOrdered},
		{input: "partial", expected: OrderPartial},
		{input: "complete", expected: OrderComplete},
		{input: "shipped", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			status, err := ParseOrderStatus(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if status != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, status)
			}
			if status.String() != tt.input {
				t.Errorf("Round trip failed: %v -> %s", status, status.String())
			}
		})
	}
}
