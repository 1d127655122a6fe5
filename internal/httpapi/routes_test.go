package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ac-advisor/internal/analytics"
	"ac-advisor/internal/storage"
)

type fixedLen int

func (f fixedLen) Len() int { return int(f) }

type fakeLoader struct {
	calcs []storage.Calculation
	err   error
}

func (f fakeLoader) LoadCalculations(context.Context) ([]storage.Calculation, error) {
	return f.calcs, f.err
}

func TestHealth(t *testing.T) {
	s := NewService(fixedLen(12), fixedLen(3), nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var got healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Status != "ok" || got.CatalogModels != 12 || got.ActiveSessions != 3 {
		t.Fatalf("unexpected health: %+v", got)
	}
}

func TestHealth_WrongMethod(t *testing.T) {
	s := NewService(fixedLen(0), fixedLen(0), nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/health", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("want 405, got %d", rec.Code)
	}
}

func TestStats(t *testing.T) {
	day := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	loader := fakeLoader{calcs: []storage.Calculation{
		{Timestamp: day, UserID: 1, Area: 20, Capacity: 7000, MatchCount: 3},
		{Timestamp: day.Add(time.Hour), UserID: 2, Area: 30, Capacity: 11000, MatchCount: 0},
		{Timestamp: day.Add(48 * time.Hour), UserID: 3, Area: 40, Capacity: 14000, MatchCount: 1},
	}}
	s := NewService(fixedLen(0), fixedLen(0), loader)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats?date=2024-01-15", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var got analytics.DailyStats
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Date != "2024-01-15" || got.TotalCalculations != 2 || got.UniqueUsers != 2 || got.EmptyResults != 1 {
		t.Fatalf("unexpected stats: %+v", got)
	}
}

func TestStats_Errors(t *testing.T) {
	cases := []struct {
		name   string
		loader storage.Loader
		url    string
		want   int
	}{
		{"no loader", nil, "/stats", http.StatusServiceUnavailable},
		{"bad date", fakeLoader{}, "/stats?date=15.01.2024", http.StatusBadRequest},
		{"load failure", fakeLoader{err: errors.New("boom")}, "/stats", http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewService(fixedLen(0), fixedLen(0), tc.loader)
			rec := httptest.NewRecorder()
			s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.url, nil))
			if rec.Code != tc.want {
				t.Fatalf("want %d, got %d", tc.want, rec.Code)
			}
		})
	}
}
