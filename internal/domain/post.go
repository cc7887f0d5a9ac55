package domain

import "time"

// AdminPost is an entry on the transparency wall.
type AdminPost struct {
	ID       int64     `json:"id" yaml:"id"`
	Title    string    `json:"title" yaml:"title"`
	Content  string    `json:"content" yaml:"content"`
	MediaURL string    `json:"media_url,omitempty" yaml:"media_url"`
	PostedAt time.Time `json:"posted_at" yaml:"posted_at"`
}
