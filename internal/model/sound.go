package model

import (
    "path"
    "strconv"
    "strings"
    "time"
)

// Sound represents a row in the `sounds` table together with the soundpack
// and tag data joined in by the listing query.  Nullable columns are
// pointers so that "absent" survives all the way to the JSON boundary.
//
// Fields:
//  ID                   – auto-increment primary key; also the pagination cursor.
//  Title                – display title.
//  Description          – optional free text.
//  FileURL              – canonical playable asset on the media CDN.
//  LosslessURL          – optional secondary lossless asset.
//  FileFormat           – one of the formats in AudioFormats.
//  Duration             – length in seconds.
//  FileSize             – size in bytes.
//  SoundpackID          – optional reference into soundpacks.
//  SoundpackName        – joined soundpacks.name (listing only).
//  SoundpackDescription – joined soundpacks.description (listing only).
//  Tags                 – canonical hashtag texts linked to the sound.
//  CreatedAt            – insertion time.
type Sound struct {
    ID                   uint64
    Title                string
    Description          *string
    FileURL              string
    LosslessURL          *string
    FileFormat           *string
    Duration             *float64
    FileSize             *int64
    SoundpackID          *uint64
    SoundpackName        *string
    SoundpackDescription *string
    Tags                 []string
    CreatedAt            time.Time
}

// AudioFormats lists the accepted values for Sound.FileFormat.
var AudioFormats = map[string]bool{
    "mp3":  true,
    "wav":  true,
    "flac": true,
    "ogg":  true,
    "aac":  true,
    "aiff": true,
}

// NormalizeFormat lowercases a format tag and strips a leading dot.  It
// returns false for formats outside AudioFormats.
func NormalizeFormat(raw string) (string, bool) {
    f := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(raw)), ".")
    if f == "aif" {
        f = "aiff"
    }
    return f, AudioFormats[f]
}

// FormatFromURL guesses the format from the URL's file extension.
func FormatFromURL(u string) (string, bool) {
    if i := strings.IndexAny(u, "?#"); i >= 0 {
        u = u[:i]
    }
    ext := path.Ext(u)
    if ext == "" {
        return "", false
    }
    return NormalizeFormat(ext)
}

// Matches reports whether the sound carries every tag in tags and, when
// soundpack is non-empty, belongs to the soundpack with exactly that name.
// An empty filter matches everything.
func (s Sound) Matches(tags []string, soundpack string) bool {
    if soundpack != "" && (s.SoundpackName == nil || *s.SoundpackName != soundpack) {
        return false
    }
    if len(tags) == 0 {
        return true
    }
    have := make(map[string]bool, len(s.Tags))
    for _, t := range s.Tags {
        have[t] = true
    }
    for _, t := range tags {
        if !have[t] {
            return false
        }
    }
    return true
}

// SoundPage is one page of a cursor-paginated sound listing.
type SoundPage struct {
    Sounds     []Sound
    NextCursor *string
    HasMore    bool
}

// NewSoundPage derives the paging fields for rows fetched with the given
// limit.  A next cursor exists only when the page is full and the last id is
// above 1, since ids start at 1 and nothing can sort below it.
func NewSoundPage(rows []Sound, limit int) SoundPage {
    if rows == nil {
        rows = []Sound{}
    }
    p := SoundPage{Sounds: rows}
    if limit > 0 && len(rows) == limit {
        last := rows[len(rows)-1].ID
        if last > 1 {
            c := strconv.FormatUint(last, 10)
            p.NextCursor = &c
        }
    }
    p.HasMore = p.NextCursor != nil
    return p
}
