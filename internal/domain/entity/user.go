package entity

import (
	"time"
)

type User struct {
	ID       string `json:"id" firestore:"id"`
	Email    string `json:"email" firestore:"email"`
	Username string `json:"username" firestore:"username"`
	Phone    string `json:"phone" firestore:"phone"`
	Role     string `json:"role" firestore:"role"`     // customer, performer, admin
	Status   string `json:"status" firestore:"status"` // active, suspended

	FullName string `json:"full_name,omitempty" firestore:"fullName,omitempty"`
	City     string `json:"city,omitempty" firestore:"city,omitempty"`

	AvatarURL string `json:"avatar_url,omitempty" firestore:"avatarURL,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}
