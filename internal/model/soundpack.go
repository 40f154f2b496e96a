package model

import "time"

// Soundpack is a named grouping of sounds.  The name is unique and compared
// case-sensitively (the column uses a binary collation).  Tags attached to a
// soundpack propagate to every sound uploaded into it.
type Soundpack struct {
    ID            uint64    // soundpacks.id
    Name          string    // soundpacks.name
    Description   *string   // soundpacks.description
    CoverImageURL *string   // soundpacks.cover_image_url
    Tags          []string  // linked hashtag texts
    CreatedAt     time.Time // soundpacks.created_at
}

// EntityType discriminates rows in the entity_hashtags join table.
type EntityType string

const (
    EntitySound     EntityType = "sound"
    EntitySoundpack EntityType = "soundpack"
)

// Hashtag is a canonical, globally deduplicated tag.
type Hashtag struct {
    ID  uint64 // hashtags.id
    Tag string // hashtags.tag (unique, normalized)
}

// Filters lists the values that can populate the soundbank filter controls.
type Filters struct {
    Tags       []string
    Soundpacks []string
}
