package domain

import "time"

// Entry represents a single saved item in the catalog
type Entry struct {
	ID      string
	Title   string
	URL     string // optional, empty for plain notes
	Kind    string
	Tags    []string
	AddedAt time.Time
}

// Known entry kinds
const (
	KindBookmark = "bookmark"
	KindNote     = "note"
	KindFeed     = "feed"
)

// Kinds lists the known entry kinds in display order
var Kinds = []string{KindBookmark, KindNote, KindFeed}

// KindFilter narrows a search to a single entry kind ("" matches all kinds)
type KindFilter string

// Matches reports whether the filter accepts the given kind
func (f KindFilter) Matches(kind string) bool {
	return f == "" || string(f) == kind
}
