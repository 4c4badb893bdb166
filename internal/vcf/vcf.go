// Package vcf renders a card as a vCard 3.0 text block. The client renders
// the same block for local download/share, so field order and line format
// must stay byte-stable: full name, title, phones, emails, social URLs,
// other links, terminator.
package vcf

import (
	"sort"
	"strings"

	"github.com/charmcard/charm-backend/internal/models"
)

const (
	// Filename is the suggested download name for the payload.
	Filename = "contact.vcf"
	// ContentType is the media type for the payload.
	ContentType = "text/x-vcard"
)

// Encode renders the card's contact file.
func Encode(card *models.VCard) string {
	var b strings.Builder
	b.WriteString("BEGIN:VCARD\n")
	b.WriteString("VERSION:3.0\n")
	b.WriteString("FN:" + escape(card.Name) + "\n")
	if card.Title != "" {
		b.WriteString("TITLE:" + escape(card.Title) + "\n")
	}
	for _, p := range card.Phones {
		b.WriteString("TEL:" + escape(p) + "\n")
	}
	for _, e := range card.Emails {
		b.WriteString("EMAIL:" + escape(e) + "\n")
	}
	for _, k := range sortedKeys(card.Socials) {
		if url, ok := card.Socials[k].(string); ok && url != "" {
			b.WriteString("URL:" + escape(url) + "\n")
		}
	}
	for _, l := range card.OtherLinks {
		b.WriteString("URL:" + escape(l) + "\n")
	}
	b.WriteString("END:VCARD\n")
	return b.String()
}

// escape quotes the characters vCard 3.0 treats as special in text values.
func escape(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	return s
}

// sortedKeys makes social URL output deterministic regardless of map order.
func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
