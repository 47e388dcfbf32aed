package models

import "time"

// Message is one chat message within a room. Stored as a structured row,
// not the legacy "sender:text" encoded string.
type Message struct {
	ID        int64
	RoomID    string
	Sender    string
	Body      string
	CreatedAt time.Time
}

// RoomPreview is the last message shown in the conversation list.
type RoomPreview struct {
	RoomID    string
	Body      string
	UpdatedAt time.Time
}
