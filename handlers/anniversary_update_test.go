package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/ourmemories/memoriesbackend/models"
	"github.com/ourmemories/memoriesbackend/policy"
)

// recordingAnnRepo counts Save calls on top of the canned fake.
type recordingAnnRepo struct {
	fakeAnniversaryRepo
	saves int
}

func (r *recordingAnnRepo) Save(ann *models.Anniversary) error {
	r.saves++
	return nil
}

// missingLinkImageRepo reports every referenced image as nonexistent.
type missingLinkImageRepo struct {
	fakeImageRepo
}

func (r *missingLinkImageRepo) ExistingIDs(ids []uint) (int, error) { return 0, nil }

func TestAnniversaryUpdateRejectsBadLinksBeforeSaving(t *testing.T) {
	anns := &recordingAnnRepo{fakeAnniversaryRepo: fakeAnniversaryRepo{anns: []models.Anniversary{
		{ID: 5, Title: "Original", CreatedByID: 1},
	}}}
	h := NewAnniversaryHandler(anns, &missingLinkImageRepo{}, &fakeAlbumRepo{}, policy.New([]string{"cuong@123.com"}), true)

	body := strings.NewReader(`{"title":"New title","images":[999]}`)
	req := httptest.NewRequest(http.MethodPut, "/api/anniversaries/5", body)
	caller := &policy.Identity{UserID: 1, Email: "cuong@123.com", Role: models.RoleViewer}
	ctx := context.WithValue(req.Context(), identityContextKey, caller)

	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("id", "5")
	ctx = context.WithValue(ctx, chi.RouteCtxKey, routeCtx)

	rec := httptest.NewRecorder()
	h.Update(rec, req.WithContext(ctx))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for a nonexistent linked image", rec.Code)
	}
	if anns.saves != 0 {
		t.Errorf("Save was called %d times; a rejected update must persist nothing", anns.saves)
	}
}
