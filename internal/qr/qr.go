// Package qr renders the PNG QR code pointing at a card's public view.
package qr

import (
	qrcode "github.com/skip2/go-qrcode"
)

const defaultSize = 256

// CardPNG encodes the public card URL as a PNG image.
func CardPNG(publicBaseURL string, cardID string, size int) ([]byte, error) {
	if size <= 0 {
		size = defaultSize
	}
	return qrcode.Encode(publicBaseURL+"/charm/cards/"+cardID+"/public", qrcode.Medium, size)
}
