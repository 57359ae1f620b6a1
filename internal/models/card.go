package models

import (
	"net/mail"
	"net/url"
	"time"
)

// Card is a digital visiting card. The link is derived once at creation
// (card/{cardId}) and never mutated afterwards.
type Card struct {
	CardID   string `json:"card_id" firestore:"cardId"`
	OwnerUID string `json:"owner_uid" firestore:"ownerUid"`
	CardLink string `json:"card_link" firestore:"cardLink"`
	Views    int64  `json:"views" firestore:"views"`

	FullName    string `json:"full_name" firestore:"fullName"`
	Designation string `json:"designation,omitempty" firestore:"designation,omitempty"`
	Company     string `json:"company,omitempty" firestore:"company,omitempty"`
	Bio         string `json:"bio,omitempty" firestore:"bio,omitempty"`
	Phone       string `json:"phone,omitempty" firestore:"phone,omitempty"`
	Email       string `json:"email,omitempty" firestore:"email,omitempty"`
	Website     string `json:"website,omitempty" firestore:"website,omitempty"`
	LinkedIn    string `json:"linkedin,omitempty" firestore:"linkedin,omitempty"`
	Twitter     string `json:"twitter,omitempty" firestore:"twitter,omitempty"`
	Instagram   string `json:"instagram,omitempty" firestore:"instagram,omitempty"`
	Facebook    string `json:"facebook,omitempty" firestore:"facebook,omitempty"`
	Theme       string `json:"theme,omitempty" firestore:"theme,omitempty"`
	Layout      string `json:"layout,omitempty" firestore:"layout,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// CardLinkFor derives the public link path for a card ID.
func CardLinkFor(cardID string) string {
	return "card/" + cardID
}

type CreateCardRequest struct {
	FullName    string `json:"full_name"`
	Designation string `json:"designation"`
	Company     string `json:"company"`
	Bio         string `json:"bio"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Website     string `json:"website"`
	LinkedIn    string `json:"linkedin"`
	Twitter     string `json:"twitter"`
	Instagram   string `json:"instagram"`
	Facebook    string `json:"facebook"`
	Theme       string `json:"theme"`
	Layout      string `json:"layout"`
}

type UpdateCardRequest struct {
	FullName    string `json:"full_name"`
	Designation string `json:"designation"`
	Company     string `json:"company"`
	Bio         string `json:"bio"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Website     string `json:"website"`
	LinkedIn    string `json:"linkedin"`
	Twitter     string `json:"twitter"`
	Instagram   string `json:"instagram"`
	Facebook    string `json:"facebook"`
	Theme       string `json:"theme"`
	Layout      string `json:"layout"`
}

func (r *CreateCardRequest) Validate() map[string]string {
	return validateCardFields(r.FullName, r.Email, map[string]string{
		"website":   r.Website,
		"linkedin":  r.LinkedIn,
		"twitter":   r.Twitter,
		"instagram": r.Instagram,
		"facebook":  r.Facebook,
	})
}

func (r *UpdateCardRequest) Validate() map[string]string {
	return validateCardFields(r.FullName, r.Email, map[string]string{
		"website":   r.Website,
		"linkedin":  r.LinkedIn,
		"twitter":   r.Twitter,
		"instagram": r.Instagram,
		"facebook":  r.Facebook,
	})
}

func validateCardFields(fullName, email string, links map[string]string) map[string]string {
	errors := make(map[string]string)

	if fullName == "" {
		errors["full_name"] = "Full name is required"
	}
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			errors["email"] = "Email address is invalid"
		}
	}
	for field, link := range links {
		if link != "" && !isHTTPURL(link) {
			errors[field] = "Must be an http(s) URL"
		}
	}

	return errors
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
