package analytics

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"ac-advisor/internal/storage"
)

// DailyStats содержит статистику подборов за день
type DailyStats struct {
	Date              string              `json:"date"`
	TotalCalculations int                 `json:"total_calculations"`
	UniqueUsers       int                 `json:"unique_users"`
	EmptyResults      int                 `json:"empty_results"`
	AverageArea       float64             `json:"average_area"`
	AverageCapacity   float64             `json:"average_capacity"`
	CapacityBuckets   map[int]int         `json:"capacity_buckets"`
	UserStats         map[int64]UserStats `json:"user_stats"`
}

// UserStats содержит статистику по пользователю
type UserStats struct {
	UserID       int64 `json:"user_id"`
	Calculations int   `json:"calculations"`
	EmptyResults int   `json:"empty_results"`
}

// AnalyzeDaily считает статистику подборов за день, в котором лежит targetDate
func AnalyzeDaily(calcs []storage.Calculation, targetDate time.Time) *DailyStats {
	// Нормализуем дату до начала дня
	startOfDay := time.Date(targetDate.Year(), targetDate.Month(), targetDate.Day(), 0, 0, 0, 0, targetDate.Location())
	endOfDay := startOfDay.AddDate(0, 0, 1)

	stats := &DailyStats{
		Date:            startOfDay.Format("2006-01-02"),
		CapacityBuckets: make(map[int]int),
		UserStats:       make(map[int64]UserStats),
	}

	var areaSum, capSum float64
	for _, c := range calcs {
		if c.Timestamp.Before(startOfDay) || !c.Timestamp.Before(endOfDay) {
			continue
		}
		stats.TotalCalculations++
		areaSum += c.Area
		capSum += float64(c.Capacity)
		stats.CapacityBuckets[c.Capacity]++

		us, ok := stats.UserStats[c.UserID]
		if !ok {
			us = UserStats{UserID: c.UserID}
		}
		us.Calculations++
		if c.MatchCount == 0 {
			us.EmptyResults++
			stats.EmptyResults++
		}
		stats.UserStats[c.UserID] = us
	}

	stats.UniqueUsers = len(stats.UserStats)
	if stats.TotalCalculations > 0 {
		stats.AverageArea = areaSum / float64(stats.TotalCalculations)
		stats.AverageCapacity = capSum / float64(stats.TotalCalculations)
	}
	return stats
}

// Summary формирует текстовый отчет для администратора
func (ds *DailyStats) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 Статистика подборов за %s\n\n", ds.Date)
	fmt.Fprintf(&b, "Всего подборов: %d\n", ds.TotalCalculations)
	fmt.Fprintf(&b, "Уникальных пользователей: %d\n", ds.UniqueUsers)
	fmt.Fprintf(&b, "Без подходящих моделей: %d\n", ds.EmptyResults)
	if ds.TotalCalculations == 0 {
		return b.String()
	}
	fmt.Fprintf(&b, "Средняя площадь: %.1f м²\n", ds.AverageArea)
	fmt.Fprintf(&b, "Средняя мощность: %.0f BTU\n", ds.AverageCapacity)

	caps := make([]int, 0, len(ds.CapacityBuckets))
	for c := range ds.CapacityBuckets {
		caps = append(caps, c)
	}
	sort.Ints(caps)
	b.WriteString("\nМощности:\n")
	for _, c := range caps {
		fmt.Fprintf(&b, "- %d BTU: %d\n", c, ds.CapacityBuckets[c])
	}
	return b.String()
}

// ToJSON сериализует статистику в JSON
func (ds *DailyStats) ToJSON() (string, error) {
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
