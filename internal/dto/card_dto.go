package dto

// CardRequest carries the non-file fields of a card create/update. With
// multipart uploads the client sends the JSON columns as string form values,
// which the handler decodes before calling the service.
type CardRequest struct {
	Name       string            `json:"name" form:"name"`
	Title      string            `json:"title" form:"title"`
	Phones     []string          `json:"phones"`
	Emails     []string          `json:"emails"`
	Socials    map[string]string `json:"socials"`
	OtherLinks []string          `json:"other_links"`
}
