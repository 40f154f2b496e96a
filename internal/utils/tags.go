package utils

import "strings"

// NormalizeTag converts free-text tag input into its canonical slug form:
// lower case, only [a-z0-9-], words joined by single hyphens, no leading or
// trailing hyphen.  Whitespace-only or fully stripped input yields "" and
// callers must drop it before persisting.  NormalizeTag(NormalizeTag(s)) ==
// NormalizeTag(s) for every s.
func NormalizeTag(raw string) string {
    var b strings.Builder
    b.Grow(len(raw))
    for _, r := range strings.ToLower(raw) {
        switch {
        case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
            b.WriteRune(r)
        case r == '-', r == ' ', r == '\t', r == '\n', r == '\r', r == '\v', r == '\f':
            b.WriteByte('-')
        }
    }
    parts := strings.FieldsFunc(b.String(), func(r rune) bool { return r == '-' })
    return strings.Join(parts, "-")
}

// ProcessTagList splits a comma separated string, normalizes each piece and
// drops empty results.  Order is kept and duplicates are not removed.
func ProcessTagList(raw string) []string {
    if strings.TrimSpace(raw) == "" {
        return []string{}
    }
    return NormalizeTags(strings.Split(raw, ","))
}

// NormalizeTags normalizes every element of raw and drops empty results.
func NormalizeTags(raw []string) []string {
    out := make([]string, 0, len(raw))
    for _, t := range raw {
        if n := NormalizeTag(t); n != "" {
            out = append(out, n)
        }
    }
    return out
}

// MergeTags concatenates tag lists keeping the first occurrence of each tag.
func MergeTags(lists ...[]string) []string {
    seen := map[string]bool{}
    out := []string{}
    for _, l := range lists {
        for _, t := range l {
            if t == "" || seen[t] {
                continue
            }
            seen[t] = true
            out = append(out, t)
        }
    }
    return out
}
