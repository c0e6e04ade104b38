package server

import "github.com/luxmx/lucerna/index"

// SearchResponse is the payload of GET /api/search.
type SearchResponse struct {
	Scope   string      `json:"scope"`
	Query   string      `json:"query"`
	Matches []MatchInfo `json:"matches"`
}

// MatchInfo is one ranked hit. Only the key components relevant to the
// entry's level are populated.
type MatchInfo struct {
	Level           string  `json:"level"`
	ProductID       int64   `json:"product_id,omitempty"`
	VariantID       int64   `json:"variant_id,omitempty"`
	ConfigurationID int64   `json:"configuration_id,omitempty"`
	AccessoryID     int64   `json:"accessory_id,omitempty"`
	Content         string  `json:"content"`
	Score           float64 `json:"score"`
}

func toMatchInfo(m index.Match) MatchInfo {
	return MatchInfo{
		Level:           string(m.Entry.Level),
		ProductID:       m.Entry.Key.ProductID,
		VariantID:       m.Entry.Key.VariantID,
		ConfigurationID: m.Entry.Key.ConfigurationID,
		AccessoryID:     m.Entry.Key.AccessoryID,
		Content:         m.Entry.Content,
		Score:           m.Score,
	}
}

// ErrorResponse is the body of any non-2xx API response.
type ErrorResponse struct {
	Error string `json:"error"`
}
