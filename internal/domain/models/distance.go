package model

import "encoding/json"

type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// DistanceResult is what the distance-matrix service returned for one origin/destination pair.
type DistanceResult struct {
	Text string          `json:"text"`
	Raw  json.RawMessage `json:"raw,omitempty"`
}

type Proximity struct {
	Miles   int    `json:"miles"`
	Display string `json:"display"`
	RawText string `json:"raw_text"`
}
