package models

import "time"

// Swipe records one account's decision on another's profile.
type Swipe struct {
	ID        int64
	FromEmail string
	ToEmail   string
	Liked     bool
	CreatedAt time.Time
}

// Match is a mutual like between a parent and a nanny. RoomID is the
// canonical chat room identifier for the pair.
type Match struct {
	ID          int64
	RoomID      string
	ParentEmail string
	NannyEmail  string
	CreatedAt   time.Time
}

// MatchWithPreview combines a match with its conversation preview
type MatchWithPreview struct {
	Match
	Preview string
}
