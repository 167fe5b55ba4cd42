package models

// TokenPair is returned by login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// LoginResponse bundles the issued tokens with the doctor profile.
type LoginResponse struct {
	TokenPair
	Doctor *Doctor `json:"doctor"`
}

// SuggestionResult is one autocomplete hit.
type SuggestionResult struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	Kind       string `json:"kind"`
	UsageCount int64  `json:"usage_count"`
}

// Page wraps a paginated list response.
type Page[T any] struct {
	Items   []T   `json:"items"`
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
}
