package model

import (
	"time"
)

type Post struct {
	ID          string       `json:"id"`
	OwnerID     string       `json:"owner_id"` // immutable after creation
	Owner       *UserSummary `json:"owner,omitempty"`
	Title       string       `json:"title"`
	Slug        string       `json:"slug"`
	Description string       `json:"description"`
	Category    string       `json:"category"`
	Image       string       `json:"image"` // media ref, "" = none
	Likes       []string     `json:"likes"` // liker user ids, unique membership
	Comments    []*Comment   `json:"comments,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type Comment struct {
	ID        string       `json:"id"`
	PostID    string       `json:"post_id"`  // immutable
	OwnerID   string       `json:"owner_id"` // immutable
	Owner     *UserSummary `json:"owner,omitempty"`
	Text      string       `json:"text"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
