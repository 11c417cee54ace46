package models

import "encoding/json"

// AdPlatform tags a score entry with the ad platform it targets.
// Unrecognized tags are valid data; entries carrying them route nowhere.
type AdPlatform string

const (
	PlatformFacebook AdPlatform = "Facebook"
	PlatformGoogle   AdPlatform = "Google"
)

// Audience is a named segment the collector has placed the visitor in.
type Audience struct {
	Name       string     `json:"name"`
	EventID    string     `json:"eventId"`
	AdPlatform AdPlatform `json:"adPlatform"`
}

// Bundle is one ordered key/value parameter attached to a campaign.
type Bundle struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Campaign is a promotional event membership with extra bundle parameters.
type Campaign struct {
	Name       string     `json:"name"`
	EventID    string     `json:"eventId"`
	AdPlatform AdPlatform `json:"adPlatform"`
	Bundles    []Bundle   `json:"bundles"`
}

// ScoreResponse is the collector's computed membership result for a visitor.
// Both lists are optional on the wire; absence means empty.
type ScoreResponse struct {
	Audiences []Audience `json:"audiences"`
	Campaigns []Campaign `json:"campaigns"`
}

// Empty reports whether the response carries no memberships at all.
func (s ScoreResponse) Empty() bool {
	return len(s.Audiences) == 0 && len(s.Campaigns) == 0
}

// ScoreRequest is the body of the score refresh PUT.
type ScoreRequest struct {
	Type            string `json:"type"`
	VisitorID       string `json:"visitorID"`
	UserID          string `json:"userID"`
	ID              string `json:"id"`
	DeviceOsVersion string `json:"deviceOsVersion"`
	DeviceType      string `json:"deviceType"`
}

// ParseScore decodes a raw score response body. Empty or malformed input
// yields an empty response and an error the caller may log and drop.
func ParseScore(raw string) (ScoreResponse, error) {
	var resp ScoreResponse
	if raw == "" {
		return resp, nil
	}
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return ScoreResponse{}, err
	}
	return resp, nil
}
