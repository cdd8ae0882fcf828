package models

import "time"

// User account. Phone number is the primary login key, but OAuth-first
// accounts may not have one yet; phone and email are each unique when
// present. Password is never serialized to JSON.
type User struct {
	UserID      string    `json:"userid" bson:"userid"`
	Username    string    `json:"username" bson:"username"`
	PhoneNumber string    `json:"phoneNumber,omitempty" bson:"phoneNumber,omitempty"`
	Email       string    `json:"email,omitempty" bson:"email,omitempty"`
	Password    string    `json:"-" bson:"password"`
	Role        []string  `json:"role" bson:"role"`
	Banned      bool      `json:"banned" bson:"banned"`
	AvatarURL   string    `json:"avatarUrl,omitempty" bson:"avatarUrl,omitempty"`
	GoogleID    string    `json:"-" bson:"googleId,omitempty"`
	District    string    `json:"district,omitempty" bson:"district,omitempty"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
	LastLogin   time.Time `json:"lastLogin,omitempty" bson:"lastLogin,omitempty"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	for _, r := range u.Role {
		if r == "admin" {
			return true
		}
	}
	return false
}
