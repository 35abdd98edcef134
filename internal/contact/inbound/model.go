package inbound

import (
	"time"

	"github.com/shandysiswandi/gocle/internal/contact/entity"
)

type SubmitMessageRequest struct {
	SenderName  string `json:"sender_name"`
	SenderEmail string `json:"sender_email"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`
}

type ListMessagesRequest struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

type MessageResponse struct {
	ID          string    `json:"id"`
	SenderName  string    `json:"sender_name"`
	SenderEmail string    `json:"sender_email"`
	Subject     string    `json:"subject"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"created_at"`
}

func toMessageResponse(msg entity.Message) MessageResponse {
	return MessageResponse{
		ID:          msg.ID,
		SenderName:  msg.SenderName,
		SenderEmail: msg.SenderEmail,
		Subject:     msg.Subject,
		Body:        msg.Body,
		CreatedAt:   msg.CreatedAt,
	}
}
