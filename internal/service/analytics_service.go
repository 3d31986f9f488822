package service

import (
	"time"

	"reviewroute/internal/models"
)

type analyticsStore interface {
	ListByBusinessIDSince(businessID string, since time.Time) ([]models.Feedback, error)
}

// TrendPoint is one day in the trends chart: average persisted rating and
// submission count for that day.
type TrendPoint struct {
	Date      string  `json:"date"`
	AvgRating float64 `json:"avg_rating"`
	Count     int     `json:"count"`
}

// AnalyticsService computes the dashboard charts from persisted feedback.
// Redirected submissions never reach storage, so they are invisible here.
type AnalyticsService struct {
	feedback analyticsStore

	now func() time.Time
}

func NewAnalyticsService(feedback analyticsStore) *AnalyticsService {
	return &AnalyticsService{feedback: feedback, now: time.Now}
}

// Trends returns a dense day grid covering the last `days` days, oldest first.
// Days without feedback appear with zero count and zero average.
func (s *AnalyticsService) Trends(businessID string, days int) ([]TrendPoint, error) {
	if days <= 0 {
		days = 30
	}
	today := s.today()
	since := today.AddDate(0, 0, -(days - 1))

	list, err := s.feedback.ListByBusinessIDSince(businessID, since)
	if err != nil {
		return nil, &PersistenceError{Op: "load feedback", Err: err}
	}

	type bucket struct {
		total int
		count int
	}
	byDay := make(map[string]*bucket, days)
	for _, f := range list {
		key := f.Date.Format("2006-01-02")
		b, ok := byDay[key]
		if !ok {
			b = &bucket{}
			byDay[key] = b
		}
		b.total += f.Rating
		b.count++
	}

	out := make([]TrendPoint, 0, days)
	for d := since; !d.After(today); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		p := TrendPoint{Date: key}
		if b, ok := byDay[key]; ok && b.count > 0 {
			p.AvgRating = float64(b.total) / float64(b.count)
			p.Count = b.count
		}
		out = append(out, p)
	}
	return out, nil
}

// Heatmap buckets submissions by day of week (Sunday = 0) and hour of day,
// using the record's creation timestamp.
func (s *AnalyticsService) Heatmap(businessID string, days int) ([7][24]int, error) {
	var grid [7][24]int
	if days <= 0 {
		days = 90
	}
	since := s.today().AddDate(0, 0, -(days - 1))

	list, err := s.feedback.ListByBusinessIDSince(businessID, since)
	if err != nil {
		return grid, &PersistenceError{Op: "load feedback", Err: err}
	}
	for _, f := range list {
		grid[int(f.CreatedAt.Weekday())][f.CreatedAt.Hour()]++
	}
	return grid, nil
}

func (s *AnalyticsService) today() time.Time {
	t := s.now()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
