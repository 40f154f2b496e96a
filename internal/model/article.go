package model

import "time"

// Article represents a published article (PDF with abstract).  Articles are
// read-only from the application's point of view; they are loaded by
// migrations or by hand.
//
// Fields:
//  ID        – primary key identifier.
//  Slug      – unique URL slug.
//  Title     – article title.
//  Abstract  – optional short summary.
//  Author    – optional author name.
//  PDFURL    – optional link to the PDF on the media CDN.
//  CreatedAt – publication timestamp; listings are newest first.
type Article struct {
    ID        uint64
    Slug      string
    Title     string
    Abstract  *string
    Author    *string
    PDFURL    *string
    CreatedAt time.Time
}
