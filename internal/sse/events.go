// Package sse implements Server-Sent Events for real-time shopping list updates.
package sse

import (
	"time"

	"github.com/cartlyapp/cartly-server/internal/domain"
)

// SSE replaces the snapshot listeners the mobile client used against its
// previous backend: whenever a list or item changes, the owning user's
// connected devices get the change pushed so every screen stays current.

// EventType represents the type of SSE Event.
type EventType string

const (
	// EventListCreated represents a list creation event.
	EventListCreated EventType = "list.created"
	// EventListUpdated represents a list update event (rename).
	EventListUpdated EventType = "list.updated"
	// EventListCompleted represents a list completion event.
	EventListCompleted EventType = "list.completed"
	// EventListDeleted represents a list deletion event.
	EventListDeleted EventType = "list.deleted"

	// EventItemCreated represents an item creation event.
	EventItemCreated EventType = "item.created"
	// EventItemUpdated represents an item update event, including purchase toggles.
	EventItemUpdated EventType = "item.updated"
	// EventItemDeleted represents an item deletion event.
	EventItemDeleted EventType = "item.deleted"

	// EventHeartbeat represents a connection keepalive event.
	EventHeartbeat EventType = "heartbeat"
)

// Event represents an SSE event to be sent to clients.
// The Data field contains the event payload as a JSON object for direct deserialization.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"` // Event-specific data as JSON object
	Type      EventType `json:"type"`

	// When set, events are only delivered to clients authenticated as this
	// user. Empty string means "broadcast to all" (heartbeats only).
	UserID string `json:"-"` // Not sent to client
}

// ListEventData is the data payload for list events.
type ListEventData struct {
	List *domain.List `json:"list"`
}

// ListDeletedEventData is the data payload for list delete events.
type ListDeletedEventData struct {
	DeletedAt time.Time `json:"deleted_at"`
	ListID    string    `json:"list_id"`
}

// ItemEventData is the data payload for item events.
type ItemEventData struct {
	Item *domain.Item `json:"item"`
}

// ItemDeletedEventData is the data payload for item delete events.
type ItemDeletedEventData struct {
	DeletedAt time.Time `json:"deleted_at"`
	ListID    string    `json:"list_id"`
	ItemID    string    `json:"item_id"`
}

// HeartbeatEventData is the data payload for heartbeat events.
type HeartbeatEventData struct {
	ServerTime time.Time `json:"server_time"`
}

// NewListCreatedEvent creates a list.created event for the list's owner.
func NewListCreatedEvent(list *domain.List) Event {
	return Event{
		Type:      EventListCreated,
		Data:      ListEventData{List: list},
		Timestamp: time.Now(),
		UserID:    list.OwnerID,
	}
}

// NewListUpdatedEvent creates a list.updated event for the list's owner.
func NewListUpdatedEvent(list *domain.List) Event {
	return Event{
		Type:      EventListUpdated,
		Data:      ListEventData{List: list},
		Timestamp: time.Now(),
		UserID:    list.OwnerID,
	}
}

// NewListCompletedEvent creates a list.completed event for the list's owner.
// The payload carries the frozen spend snapshot.
func NewListCompletedEvent(list *domain.List) Event {
	return Event{
		Type:      EventListCompleted,
		Data:      ListEventData{List: list},
		Timestamp: time.Now(),
		UserID:    list.OwnerID,
	}
}

// NewListDeletedEvent creates a list.deleted event for the list's owner.
func NewListDeletedEvent(ownerID, listID string) Event {
	return Event{
		Type: EventListDeleted,
		Data: ListDeletedEventData{
			ListID:    listID,
			DeletedAt: time.Now(),
		},
		Timestamp: time.Now(),
		UserID:    ownerID,
	}
}

// NewItemCreatedEvent creates an item.created event for the item's owner.
func NewItemCreatedEvent(item *domain.Item) Event {
	return Event{
		Type:      EventItemCreated,
		Data:      ItemEventData{Item: item},
		Timestamp: time.Now(),
		UserID:    item.OwnerID,
	}
}

// NewItemUpdatedEvent creates an item.updated event for the item's owner.
func NewItemUpdatedEvent(item *domain.Item) Event {
	return Event{
		Type:      EventItemUpdated,
		Data:      ItemEventData{Item: item},
		Timestamp: time.Now(),
		UserID:    item.OwnerID,
	}
}

// NewItemDeletedEvent creates an item.deleted event for the item's owner.
func NewItemDeletedEvent(ownerID, listID, itemID string) Event {
	return Event{
		Type: EventItemDeleted,
		Data: ItemDeletedEventData{
			ListID:    listID,
			ItemID:    itemID,
			DeletedAt: time.Now(),
		},
		Timestamp: time.Now(),
		UserID:    ownerID,
	}
}

// NewHeartbeatEvent creates a heartbeat event.
func NewHeartbeatEvent() Event {
	return Event{
		Type: EventHeartbeat,
		Data: HeartbeatEventData{
			ServerTime: time.Now(),
		},
		Timestamp: time.Now(),
	}
}
