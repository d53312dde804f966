package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ourmemories/memoriesbackend/models"
	"github.com/ourmemories/memoriesbackend/policy"
)

func TestAnniversaryTimelineBuckets(t *testing.T) {
	tenDaysAgo := time.Now().AddDate(0, 0, -10)
	h := NewAnniversaryHandler(&fakeAnniversaryRepo{anns: []models.Anniversary{
		{ID: 1, Title: "First date", AnniversaryDate: &tenDaysAgo, ShowInTimeline: true},
		{ID: 2, Title: "Undated", ShowInTimeline: true},
		{ID: 3, Title: "Hidden", AnniversaryDate: &tenDaysAgo, ShowInTimeline: false},
	}}, nil, nil, policy.New(nil), true)

	req := httptest.NewRequest(http.MethodGet, "/api/anniversaries/timeline", nil)
	rec := httptest.NewRecorder()
	h.Timeline(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Count int                             `json:"count"`
		Data  map[string][]models.Anniversary `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Count != 2 {
		t.Errorf("count = %d, want 2 (timeline-disabled entries skipped)", resp.Count)
	}
	if got := len(resp.Data["10"]); got != 1 {
		t.Errorf("bucket 10 has %d entries, want 1", got)
	}
	if got := len(resp.Data["null"]); got != 1 {
		t.Errorf("null bucket has %d entries, want 1", got)
	}
	if _, ok := resp.Data["-10"]; ok {
		t.Error("elapsed-day buckets must not go negative")
	}
}

func TestAnniversaryListSortsByDaysNilLast(t *testing.T) {
	fiveDaysAgo := time.Now().AddDate(0, 0, -5)
	hundredDaysAgo := time.Now().AddDate(0, 0, -100)
	h := NewAnniversaryHandler(&fakeAnniversaryRepo{anns: []models.Anniversary{
		{ID: 1, Title: "Old", AnniversaryDate: &hundredDaysAgo},
		{ID: 2, Title: "Undated"},
		{ID: 3, Title: "Recent", AnniversaryDate: &fiveDaysAgo},
	}}, nil, nil, policy.New(nil), true)

	req := httptest.NewRequest(http.MethodGet, "/api/anniversaries", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	var resp struct {
		Data []models.Anniversary `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Data) != 3 {
		t.Fatalf("got %d anniversaries, want 3", len(resp.Data))
	}
	wantOrder := []string{"Recent", "Old", "Undated"}
	for i, ann := range resp.Data {
		if ann.Title != wantOrder[i] {
			t.Errorf("order[%d] = %s, want %s", i, ann.Title, wantOrder[i])
		}
	}
}
