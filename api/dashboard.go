// ABOUTME: Dashboard and chart endpoints of the server API
package api

import (
	"context"
	"net/http"

	"github.com/harperreed/kith/models"
)

// ChartPoint is one bucket of a dashboard chart series.
type ChartPoint struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Stats fetches the server-computed dashboard aggregates.
func (c *Client) Stats(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	if err := c.do(ctx, http.MethodGet, "/dashboard/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// MeetingsChart returns meeting counts bucketed by week.
func (c *Client) MeetingsChart(ctx context.Context) ([]ChartPoint, error) {
	var points []struct {
		Week  string `json:"week"`
		Count int    `json:"count"`
	}
	if err := c.do(ctx, http.MethodGet, "/dashboard/meetings-chart", nil, &points); err != nil {
		return nil, err
	}
	out := make([]ChartPoint, len(points))
	for i, p := range points {
		out[i] = ChartPoint{Label: p.Week, Count: p.Count}
	}
	return out, nil
}

// MediumBreakdown returns meeting counts grouped by medium.
func (c *Client) MediumBreakdown(ctx context.Context) ([]ChartPoint, error) {
	var points []struct {
		Medium string `json:"medium"`
		Count  int    `json:"count"`
	}
	if err := c.do(ctx, http.MethodGet, "/dashboard/medium-breakdown", nil, &points); err != nil {
		return nil, err
	}
	out := make([]ChartPoint, len(points))
	for i, p := range points {
		out[i] = ChartPoint{Label: p.Medium, Count: p.Count}
	}
	return out, nil
}

// ContactsOverTime returns cumulative contact counts bucketed by month.
func (c *Client) ContactsOverTime(ctx context.Context) ([]ChartPoint, error) {
	var points []struct {
		Month string `json:"month"`
		Count int    `json:"count"`
	}
	if err := c.do(ctx, http.MethodGet, "/dashboard/contacts-over-time", nil, &points); err != nil {
		return nil, err
	}
	out := make([]ChartPoint, len(points))
	for i, p := range points {
		out[i] = ChartPoint{Label: p.Month, Count: p.Count}
	}
	return out, nil
}
