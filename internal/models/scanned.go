package models

import "time"

// ScannedCard is one entry in a viewer's recently-scanned wallet.
type ScannedCard struct {
	CardLink  string    `json:"card_link" firestore:"cardLink"`
	ScannedAt time.Time `json:"scanned_at" firestore:"scannedAt"`
}

type SaveScannedRequest struct {
	CardLink string `json:"card_link"`
}

func (r *SaveScannedRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.CardLink == "" {
		errors["card_link"] = "Card link is required"
	}
	return errors
}
