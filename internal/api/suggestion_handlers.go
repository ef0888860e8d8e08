package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/cartlyapp/cartly-server/internal/domain"
)

func (s *Server) registerSuggestionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getSuggestions",
		Method:      http.MethodGet,
		Path:        "/api/v1/suggestions",
		Summary:     "Get suggestions",
		Description: "Returns the most frequently purchased item names for quick adding",
		Tags:        []string{"Suggestions"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetSuggestions)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPurchaseHistory",
		Method:      http.MethodGet,
		Path:        "/api/v1/history",
		Summary:     "Get purchase history",
		Description: "Returns the full purchase history ordered by frequency",
		Tags:        []string{"Suggestions"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetPurchaseHistory)
}

// === DTOs ===

// SuggestionResponse contains one purchase history entry.
type SuggestionResponse struct {
	Name          string    `json:"name" doc:"Item name"`
	Frequency     int       `json:"frequency" doc:"How many times the item was added"`
	LastPrice     float64   `json:"last_price" doc:"Price at the most recent purchase"`
	LastPurchased time.Time `json:"last_purchased" doc:"When the item was last added"`
}

// SuggestionsResponse contains ranked purchase suggestions.
type SuggestionsResponse struct {
	Suggestions []SuggestionResponse `json:"suggestions" doc:"Ranked by frequency, then recency"`
}

// GetSuggestionsInput contains parameters for the suggestions endpoint.
type GetSuggestionsInput struct {
	Authorization string `header:"Authorization"`
	Limit         int    `query:"limit" doc:"Maximum suggestions to return (default 5)"`
}

// SuggestionsOutput wraps the suggestions response for Huma.
type SuggestionsOutput struct {
	Body SuggestionsResponse
}

// GetHistoryInput contains parameters for the history endpoint.
type GetHistoryInput struct {
	Authorization string `header:"Authorization"`
}

// === Handlers ===

func (s *Server) handleGetSuggestions(ctx context.Context, input *GetSuggestionsInput) (*SuggestionsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	records, err := s.services.Suggestion.TopSuggestions(ctx, userID, input.Limit)
	if err != nil {
		return nil, err
	}

	return &SuggestionsOutput{Body: SuggestionsResponse{Suggestions: mapSuggestions(records)}}, nil
}

func (s *Server) handleGetPurchaseHistory(ctx context.Context, input *GetHistoryInput) (*SuggestionsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	records, err := s.services.Suggestion.History(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &SuggestionsOutput{Body: SuggestionsResponse{Suggestions: mapSuggestions(records)}}, nil
}

// === Helpers ===

func mapSuggestions(records []domain.PurchaseRecord) []SuggestionResponse {
	resp := make([]SuggestionResponse, len(records))
	for i, r := range records {
		resp[i] = SuggestionResponse{
			Name:          r.Name,
			Frequency:     r.Frequency,
			LastPrice:     r.LastPrice,
			LastPurchased: r.LastPurchased,
		}
	}
	return resp
}
