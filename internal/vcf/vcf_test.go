package vcf

import (
	"testing"

	"github.com/charmcard/charm-backend/internal/models"
	"gorm.io/datatypes"
)

func TestEncodeFullCard(t *testing.T) {
	card := &models.VCard{
		Name:   "Alice Example",
		Title:  "Staff Engineer",
		Phones: datatypes.JSONSlice[string]{"+15550100", "+15550101"},
		Emails: datatypes.JSONSlice[string]{"alice@example.com"},
		Socials: datatypes.JSONMap{
			"twitter": "https://twitter.com/alice",
			"github":  "https://github.com/alice",
		},
		OtherLinks: datatypes.JSONSlice[string]{"https://alice.dev"},
	}

	want := "BEGIN:VCARD\n" +
		"VERSION:3.0\n" +
		"FN:Alice Example\n" +
		"TITLE:Staff Engineer\n" +
		"TEL:+15550100\n" +
		"TEL:+15550101\n" +
		"EMAIL:alice@example.com\n" +
		"URL:https://github.com/alice\n" +
		"URL:https://twitter.com/alice\n" +
		"URL:https://alice.dev\n" +
		"END:VCARD\n"

	if got := Encode(card); got != want {
		t.Errorf("Encode mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestEncodeMinimalCard(t *testing.T) {
	card := &models.VCard{Name: "Bob"}

	want := "BEGIN:VCARD\nVERSION:3.0\nFN:Bob\nEND:VCARD\n"
	if got := Encode(card); got != want {
		t.Errorf("Encode mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestEncodeEscapesSpecials(t *testing.T) {
	card := &models.VCard{
		Name:  "Doe, Jane; Jr",
		Title: "R&D\nLead",
	}

	want := "BEGIN:VCARD\n" +
		"VERSION:3.0\n" +
		"FN:Doe\\, Jane\\; Jr\n" +
		"TITLE:R&D\\nLead\n" +
		"END:VCARD\n"
	if got := Encode(card); got != want {
		t.Errorf("Encode mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestEncodeSkipsEmptySocialValues(t *testing.T) {
	card := &models.VCard{
		Name:    "Bob",
		Socials: datatypes.JSONMap{"linkedin": "", "github": "https://github.com/bob"},
	}

	want := "BEGIN:VCARD\n" +
		"VERSION:3.0\n" +
		"FN:Bob\n" +
		"URL:https://github.com/bob\n" +
		"END:VCARD\n"
	if got := Encode(card); got != want {
		t.Errorf("Encode mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}
