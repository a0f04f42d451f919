package events

import (
	"sync"
)

// InMemoryEventStore keeps event streams in memory
type InMemoryEventStore struct {
	streams   map[string][]Event
	allEvents []Event
	mutex     sync.RWMutex
}

// NewInMemoryEventStore creates an empty event store
func NewInMemoryEventStore() *InMemoryEventStore {
	return &InMemoryEventStore{
		streams: make(map[string][]Event),
	}
}

// Verify interface compliance
var _ EventStore = (*InMemoryEventStore)(nil)

// AppendEvent appends an event to a stream, assigning the next version
func (s *InMemoryEventStore) AppendEvent(streamID string, event Event) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	versioned := BaseEvent{
		EventType:    event.Type(),
		Stream:       streamID,
		EventData:    event.Data(),
		EventTime:    event.Timestamp(),
		EventVersion: len(s.streams[streamID]) + 1,
	}

	s.streams[streamID] = append(s.streams[streamID], versioned)
	s.allEvents = append(s.allEvents, versioned)

	return nil
}

// ReadEvents returns a stream's events at or above fromVersion
func (s *InMemoryEventStore) ReadEvents(streamID string, fromVersion int) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var result []Event
	for _, event := range s.streams[streamID] {
		if event.Version() >= fromVersion {
			result = append(result, event)
		}
	}
	return result, nil
}

// ReadAllEvents returns every event from the given global position onward
func (s *InMemoryEventStore) ReadAllEvents(fromPosition int) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if fromPosition < 0 || fromPosition >= len(s.allEvents) {
		return nil, nil
	}

	result := make([]Event, len(s.allEvents)-fromPosition)
	copy(result, s.allEvents[fromPosition:])
	return result, nil
}
