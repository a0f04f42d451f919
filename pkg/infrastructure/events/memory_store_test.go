package events

import (
	"testing"
)

func TestAppendEventAssignsVersionsPerStream(t *testing.T) {
	store := NewInMemoryEventStore()

	if err := store.AppendEvent("ORDER-1", NewEvent("order.drafted", "ORDER-1", nil)); err != nil {
		t.Fatalf("Failed to append event: %v", err)
	}
	if err := store.AppendEvent("ORDER-1", NewEvent("invoice.applied", "ORDER-1", nil)); err != nil {
		t.Fatalf("Failed to append event: %v", err)
	}
	if err := store.AppendEvent("ORDER-2", NewEvent("order.drafted", "ORDER-2", nil)); err != nil {
		t.Fatalf("Failed to append event: %v", err)
	}

	stream, err := store.ReadEvents("ORDER-1", 0)
	if err != nil {
		t.Fatalf("Failed to read stream: %v", err)
	}
	if len(stream) != 2 {
		t.Fatalf("Expected 2 events in ORDER-1, got %d", len(stream))
	}
	if stream[0].Version() != 1 || stream[1].Version() != 2 {
		t.Errorf("Expected versions 1,2 got %d,%d", stream[0].Version(), stream[1].Version())
	}

	other, err := store.ReadEvents("ORDER-2", 0)
	if err != nil {
		t.Fatalf("Failed to read stream: %v", err)
	}
	if len(other) != 1 || other[0].Version() != 1 {
		t.Errorf("Expected ORDER-2 to version independently, got %+v", other)
	}
}

func TestReadEventsFromVersion(t *testing.T) {
	store := NewInMemoryEventStore()
	for _, eventType := range []string{"order.drafted", "invoice.applied", "price.recorded"} {
		if err := store.AppendEvent("ORDER-1", NewEvent(eventType, "ORDER-1", nil)); err != nil {
			t.Fatalf("Failed to append event: %v", err)
		}
	}

	tail, err := store.ReadEvents("ORDER-1", 2)
	if err != nil {
		t.Fatalf("Failed to read stream: %v", err)
	}
	if len(tail) != 2 {
		t.Fatalf("Expected 2 events from version 2, got %d", len(tail))
	}
	if tail[0].Type() != "invoice.applied" || tail[1].Type() != "price.recorded" {
		t.Errorf("Unexpected tail events: %s, %s", tail[0].Type(), tail[1].Type())
	}
}

func TestReadAllEventsFromPosition(t *testing.T) {
	store := NewInMemoryEventStore()
	if err := store.AppendEvent("ORDER-1", NewEvent("order.drafted", "ORDER-1", nil)); err != nil {
		t.Fatalf("Failed to append event: %v", err)
	}
	if err := store.AppendEvent("ORDER-2", NewEvent("order.drafted", "ORDER-2", nil)); err != nil {
		t.Fatalf("Failed to append event: %v", err)
	}

	all, err := store.ReadAllEvents(0)
	if err != nil {
		t.Fatalf("Failed to read all events: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(all))
	}
	if all[0].StreamID() != "ORDER-1" || all[1].StreamID() != "ORDER-2" {
		t.Errorf("Expected global order ORDER-1 then ORDER-2, got %s, %s", all[0].StreamID(), all[1].StreamID())
	}

	tail, err := store.ReadAllEvents(1)
	if err != nil {
		t.Fatalf("Failed to read all events: %v", err)
	}
	if len(tail) != 1 || tail[0].StreamID() != "ORDER-2" {
		t.Errorf("Expected only ORDER-2 from position 1, got %+v", tail)
	}

	past, err := store.ReadAllEvents(5)
	if err != nil {
		t.Fatalf("Failed to read all events: %v", err)
	}
	if past != nil {
		t.Errorf("Expected nil past the end, got %+v", past)
	}
}
