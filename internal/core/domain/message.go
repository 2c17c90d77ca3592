package domain

import "time"

// Message is a single contact message about a listing. Immutable once created.
type Message struct {
	ID             string    `json:"id"`
	SenderID       string    `json:"senderId"`
	RecipientID    string    `json:"recipientId"`
	ListingID      string    `json:"listingId"`
	Content        string    `json:"content"`
	MeetupLocation string    `json:"meetupLocation,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	Read           bool      `json:"read"`
}
