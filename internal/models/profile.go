package models

import "time"

// Profile is user-editable account data stored in Mongo and keyed by auth UID.
// Card-facing fields (name, contacts, theme) live on the Card itself.
type Profile struct {
	UserID      string    `json:"user_id" bson:"user_id"`
	Email       string    `json:"email" bson:"email,omitempty"`
	DisplayName string    `json:"display_name" bson:"display_name,omitempty"`
	PhotoURL    string    `json:"photo_url" bson:"photo_url,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

type UpsertProfileRequest struct {
	DisplayName *string `json:"display_name"`
	PhotoURL    *string `json:"photo_url"`
}
