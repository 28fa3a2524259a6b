package models

// TokenCount pairs a token with its frequency.
type TokenCount struct {
	Token string `json:"token"`
	Count int    `json:"count"`
}

// OverviewResponse summarises the loaded dataset.
type OverviewResponse struct {
	DatasetID   string       `json:"dataset_id"`
	Records     int          `json:"records"`
	TotalTokens int          `json:"total_tokens"`
	Excluded    []string     `json:"excluded_terms"`
	TopTokens   []TokenCount `json:"top_tokens"`
}

// FrequenciesResponse lists the most frequent tokens.
type FrequenciesResponse struct {
	TotalTokens int          `json:"total_tokens"`
	Tokens      []TokenCount `json:"tokens"`
}

// SentimentShare is one bar of the sentiment distribution chart.
type SentimentShare struct {
	Label      SentimentLabel `json:"label"`
	Name       string         `json:"name"`
	Count      int            `json:"count"`
	Proportion float64        `json:"proportion"`
}

// KeywordResponse contains everything the dashboard shows for a keyword.
// Distribution is null when no post matches.
type KeywordResponse struct {
	Keyword      string           `json:"keyword"`
	State        string           `json:"state"`
	Frequency    int              `json:"frequency"`
	MatchCount   int              `json:"match_count"`
	Distribution []SentimentShare `json:"distribution"`
	Posts        []string         `json:"posts"`
}

// PostsResponse lists posts matching a keyword and a sentiment label.
type PostsResponse struct {
	Keyword   string         `json:"keyword"`
	Sentiment SentimentLabel `json:"sentiment"`
	Posts     []string       `json:"posts"`
}
