package model

import (
	"time"
)

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"` // Not exposed
	Role           string    `json:"role"`
	ProfilePhoto   string    `json:"profile_photo"` // media ref, "" = none
	Bio            string    `json:"bio"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// UserSummary is the owner shape embedded in posts and comments.
// Credential fields are never part of it.
type UserSummary struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	ProfilePhoto string `json:"profile_photo"`
}

func (u *User) Summary() *UserSummary {
	return &UserSummary{ID: u.ID, Username: u.Username, ProfilePhoto: u.ProfilePhoto}
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
