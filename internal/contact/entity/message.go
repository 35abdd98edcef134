package entity

import (
	"errors"
	"time"
)

// ErrMessageNotFound is returned by the store when no message has the id.
var ErrMessageNotFound = errors.New("contact: message not found")

// Message is a contact form submission.
type Message struct {
	ID          string    `json:"id"`
	SenderName  string    `json:"sender_name"`
	SenderEmail string    `json:"sender_email"`
	Subject     string    `json:"subject"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"created_at"`
}

// MessagePage is one page of stored messages.
type MessagePage struct {
	Items []Message
	Total int
}
