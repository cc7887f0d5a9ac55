package domain

import "time"

// ChatMessage is a community chat entry. UserName is resolved from the
// author's live privacy setting when the message is sent and kept as is.
type ChatMessage struct {
	ID       int64     `json:"id" yaml:"id"`
	UserID   int64     `json:"user_id" yaml:"user_id"`
	UserName string    `json:"user_name" yaml:"user_name"`
	Text     string    `json:"text" yaml:"text"`
	SentAt   time.Time `json:"sent_at" yaml:"sent_at"`
}
