package services

import (
	"strings"

	"github.com/nexcard/backend/internal/models"
)

// BuildVCard renders a card as a vCard 3.0 payload suitable for a .vcf
// download. Empty fields are omitted.
func BuildVCard(card *models.Card) string {
	var b strings.Builder

	writeVCardLine(&b, "BEGIN", "VCARD")
	writeVCardLine(&b, "VERSION", "3.0")
	writeVCardLine(&b, "FN", vcardEscape(card.FullName))
	// Simple display-name-only N; the card does not split given/family names.
	writeVCardLine(&b, "N", vcardEscape(card.FullName)+";;;;")
	if card.Designation != "" {
		writeVCardLine(&b, "TITLE", vcardEscape(card.Designation))
	}
	if card.Company != "" {
		writeVCardLine(&b, "ORG", vcardEscape(card.Company))
	}
	if card.Bio != "" {
		writeVCardLine(&b, "NOTE", vcardEscape(card.Bio))
	}
	if card.Phone != "" {
		writeVCardLine(&b, "TEL;TYPE=CELL", vcardEscape(card.Phone))
	}
	if card.Email != "" {
		writeVCardLine(&b, "EMAIL;TYPE=INTERNET", vcardEscape(card.Email))
	}
	if card.Website != "" {
		writeVCardLine(&b, "URL", vcardEscape(card.Website))
	}
	for _, social := range []string{card.LinkedIn, card.Twitter, card.Instagram, card.Facebook} {
		if social != "" {
			writeVCardLine(&b, "URL", vcardEscape(social))
		}
	}
	if !card.UpdatedAt.IsZero() {
		writeVCardLine(&b, "REV", card.UpdatedAt.UTC().Format("20060102T150405Z"))
	}
	writeVCardLine(&b, "END", "VCARD")

	return b.String()
}

func writeVCardLine(b *strings.Builder, key, value string) {
	b.WriteString(key)
	b.WriteString(":")
	b.WriteString(value)
	b.WriteString("\r\n")
}

func vcardEscape(s string) string {
	r := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\r\n", "\\n",
		"\n", "\\n",
	)
	return r.Replace(s)
}
