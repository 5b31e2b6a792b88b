package entity

import "time"

type Chat struct {
	ID           string   `json:"id" firestore:"id"`
	Participants []string `json:"participants" firestore:"participants"`
	BookingID    string   `json:"booking_id,omitempty" firestore:"bookingId,omitempty"`

	LastMessage   string         `json:"last_message,omitempty" firestore:"lastMessage,omitempty"`
	LastMessageAt time.Time      `json:"last_message_at" firestore:"lastMessageAt"`
	UnreadCount   map[string]int `json:"unread_count" firestore:"unreadCount"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

func (c *Chat) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// Message is immutable once sent except for the read flag.
type Message struct {
	ID          string `json:"id" firestore:"id"`
	ChatID      string `json:"chat_id" firestore:"chatId"`
	SenderID    string `json:"sender_id" firestore:"senderId"`
	RecipientID string `json:"recipient_id" firestore:"recipientId"`
	Body        string `json:"body" firestore:"body"`
	Read        bool   `json:"read" firestore:"read"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}
