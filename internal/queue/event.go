// Package queue defines message payloads exchanged over the message broker.
package queue

import "time"

// CatalogQueue is the durable queue carrying catalog events.
const CatalogQueue = "catalog.events"

// Catalog event types.
const (
    EventSoundUploaded    = "sound.uploaded"
    EventSoundpackCreated = "soundpack.created"
)

// CatalogEvent is published after a sound or soundpack has been stored.
// It carries enough for downstream consumers to audit the write without
// querying the primary database.
type CatalogEvent struct {
    Type       string    `json:"type"`
    EntityID   uint64    `json:"entity_id"`
    Name       string    `json:"name"`                 // sound title or soundpack name
    Tags       []string  `json:"tags"`                 // tags linked successfully
    TagErrors  []string  `json:"tag_errors,omitempty"` // tags that failed to link
    OccurredAt time.Time `json:"occurred_at"`
}
