package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerStatsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getSpendingStats",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats/spending",
		Summary:     "Spending statistics",
		Description: "Returns daily and per-category spending over completed lists",
		Tags:        []string{"Statistics"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetSpendingStats)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUserStats",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats/profile",
		Summary:     "Profile statistics",
		Description: "Returns headline counters for the profile screen",
		Tags:        []string{"Statistics"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetUserStats)
}

// === DTOs ===

// DailySpendingResponse is the spend total for one calendar day.
type DailySpendingResponse struct {
	Date  time.Time `json:"date" doc:"Calendar day"`
	Label string    `json:"label" doc:"Short chart label (day/month)"`
	Total float64   `json:"total" doc:"Total spent that day"`
}

// CategorySpendingResponse is the spend total for one list category.
type CategorySpendingResponse struct {
	Category string  `json:"category" doc:"List category"`
	Total    float64 `json:"total" doc:"Total spent in this category"`
}

// SpendingStatsResponse contains chart data for the statistics screen.
type SpendingStatsResponse struct {
	Daily      []DailySpendingResponse    `json:"daily" doc:"Per-day totals, oldest first"`
	ByCategory []CategorySpendingResponse `json:"by_category" doc:"Per-category totals, largest first"`
	TotalSpent float64                    `json:"total_spent" doc:"Total over the covered days"`
}

// GetSpendingStatsInput contains parameters for spending statistics.
type GetSpendingStatsInput struct {
	Authorization string `header:"Authorization"`
	Days          int    `query:"days" doc:"Number of recent active days to cover (default 7)"`
}

// SpendingStatsOutput wraps the spending stats response for Huma.
type SpendingStatsOutput struct {
	Body SpendingStatsResponse
}

// UserStatsResponse contains headline counters for the profile screen.
type UserStatsResponse struct {
	TotalLists     int     `json:"total_lists" doc:"Lists ever created"`
	CompletedLists int     `json:"completed_lists" doc:"Lists completed"`
	TotalSpent     float64 `json:"total_spent" doc:"Sum of completion snapshots"`
}

// GetUserStatsInput contains parameters for profile statistics.
type GetUserStatsInput struct {
	Authorization string `header:"Authorization"`
}

// UserStatsOutput wraps the user stats response for Huma.
type UserStatsOutput struct {
	Body UserStatsResponse
}

// === Handlers ===

func (s *Server) handleGetSpendingStats(ctx context.Context, input *GetSpendingStatsInput) (*SpendingStatsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	stats, err := s.services.Stats.SpendingStats(ctx, userID, input.Days)
	if err != nil {
		return nil, err
	}

	daily := make([]DailySpendingResponse, len(stats.Daily))
	for i, d := range stats.Daily {
		daily[i] = DailySpendingResponse{Date: d.Date, Label: d.Label, Total: d.Total}
	}

	byCategory := make([]CategorySpendingResponse, len(stats.ByCategory))
	for i, c := range stats.ByCategory {
		byCategory[i] = CategorySpendingResponse{Category: c.Category, Total: c.Total}
	}

	return &SpendingStatsOutput{
		Body: SpendingStatsResponse{
			Daily:      daily,
			ByCategory: byCategory,
			TotalSpent: stats.TotalSpent,
		},
	}, nil
}

func (s *Server) handleGetUserStats(ctx context.Context, input *GetUserStatsInput) (*UserStatsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	stats, err := s.services.Stats.UserStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &UserStatsOutput{
		Body: UserStatsResponse{
			TotalLists:     stats.TotalLists,
			CompletedLists: stats.CompletedLists,
			TotalSpent:     stats.TotalSpent,
		},
	}, nil
}
