// internal/workers/catalogue/search-car-models/models.go
package searchcarmodels

type Input struct {
	Query    string   `json:"query,omitempty"`
	BodyType string   `json:"bodyType,omitempty"`
	Fuel     string   `json:"fuel,omitempty"`
	MinPrice *float64 `json:"minPrice,omitempty"`
	MaxPrice *float64 `json:"maxPrice,omitempty"`
	Size     int      `json:"size,omitempty"`
}

type Output struct {
	Results   []SearchResult `json:"results"`
	TotalHits int64          `json:"totalHits"`
	Took      int64          `json:"took"` // milliseconds
}

type SearchResult struct {
	ModelID       string   `json:"modelId"`
	Brand         string   `json:"brand"`
	Model         string   `json:"model"`
	BodyType      string   `json:"bodyType"`
	StartingPrice *float64 `json:"startingPrice"`
	Score         float64  `json:"score"`
}

// modelDocument is the _source of a car_models document.
type modelDocument struct {
	ModelID       string   `json:"model_id"`
	Brand         string   `json:"brand"`
	Model         string   `json:"model"`
	BodyType      string   `json:"body_type"`
	StartingPrice *float64 `json:"starting_price"`
}

type searchResponse struct {
	Took int64 `json:"took"`
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			Score  float64       `json:"_score"`
			Source modelDocument `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}
