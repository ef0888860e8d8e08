package domain

import (
	"fmt"
	"sort"
	"time"
)

// CategoryUncategorized is the bucket for completed lists without a category.
const CategoryUncategorized = "other"

// DailySpending is the spend total for one calendar day, summed over
// the lists completed that day.
type DailySpending struct {
	Date  time.Time `json:"date"`
	Label string    `json:"label"` // Day/month, e.g. "5/3"
	Total float64   `json:"total"`
}

// CategorySpending is the spend total for one list category.
type CategorySpending struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// SpendingStats is the chart data for the statistics screen.
type SpendingStats struct {
	Daily      []DailySpending    `json:"daily"`
	ByCategory []CategorySpending `json:"by_category"`
	TotalSpent float64            `json:"total_spent"`
}

// UserStats is the headline counters shown on the profile screen.
type UserStats struct {
	TotalLists     int     `json:"total_lists"`
	CompletedLists int     `json:"completed_lists"`
	TotalSpent     float64 `json:"total_spent"`
}

// ComputeSpendingStats builds chart data from a user's lists. Only
// completed lists contribute; open lists have no spend snapshot yet.
// Daily covers the most recent `days` calendar days that had any
// completed list, oldest first.
func ComputeSpendingStats(lists []List, days int) SpendingStats {
	stats := SpendingStats{
		Daily:      []DailySpending{},
		ByCategory: []CategorySpending{},
	}

	byDay := make(map[time.Time]float64)
	byCategory := make(map[string]float64)
	for i := range lists {
		l := &lists[i]
		if !l.Completed || l.CompletedAt == nil {
			continue
		}
		day := startOfDay(*l.CompletedAt)
		byDay[day] += l.TotalSpent
		cat := l.Category
		if cat == "" {
			cat = CategoryUncategorized
		}
		byCategory[cat] += l.TotalSpent
		stats.TotalSpent += l.TotalSpent
	}

	for day, total := range byDay {
		stats.Daily = append(stats.Daily, DailySpending{
			Date:  day,
			Label: fmt.Sprintf("%d/%d", day.Day(), int(day.Month())),
			Total: total,
		})
	}
	sort.Slice(stats.Daily, func(i, j int) bool {
		return stats.Daily[i].Date.Before(stats.Daily[j].Date)
	})
	if days > 0 && len(stats.Daily) > days {
		stats.Daily = stats.Daily[len(stats.Daily)-days:]
	}

	for cat, total := range byCategory {
		stats.ByCategory = append(stats.ByCategory, CategorySpending{Category: cat, Total: total})
	}
	// Largest spend first, name as tiebreak for stable output
	sort.Slice(stats.ByCategory, func(i, j int) bool {
		if stats.ByCategory[i].Total != stats.ByCategory[j].Total {
			return stats.ByCategory[i].Total > stats.ByCategory[j].Total
		}
		return stats.ByCategory[i].Category < stats.ByCategory[j].Category
	})

	return stats
}

// ComputeUserStats sums the profile counters from a user's lists.
func ComputeUserStats(lists []List) UserStats {
	var s UserStats
	s.TotalLists = len(lists)
	for i := range lists {
		if lists[i].Completed {
			s.CompletedLists++
			s.TotalSpent += lists[i].TotalSpent
		}
	}
	return s
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
