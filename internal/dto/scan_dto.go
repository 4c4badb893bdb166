package dto

// TrackRequest is the scanner telemetry posted by the public card view.
// Location is nil when the scanner denied geolocation; city/country may be
// pre-resolved client-side.
type TrackRequest struct {
	Location *GeoPoint `json:"location"`
	City     string    `json:"city"`
	Country  string    `json:"country"`
}

type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
