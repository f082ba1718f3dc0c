package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/akozlov/activityhub/internal/common"
	"github.com/akozlov/activityhub/internal/server/models"
	"github.com/akozlov/activityhub/internal/server/repositories/activities"
)

type fakeActivitiesRepo struct {
	createOut *models.Activity
	createErr error

	byIDOut *models.Activity
	byIDErr error

	listOut    []*models.Activity
	listErr    error
	lastFilter activities.ListFilter

	topicsOut []string
	groupsOut []string

	updateErr  error
	lastUpdate *models.Activity

	deleteErr   error
	lastDeleted string
}

func (f *fakeActivitiesRepo) Create(ctx context.Context, a *models.Activity) (*models.Activity, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	a.ID = "a-1"
	return a, nil
}

func (f *fakeActivitiesRepo) GetByID(ctx context.Context, id string) (*models.Activity, error) {
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	return f.byIDOut, nil
}

func (f *fakeActivitiesRepo) List(ctx context.Context, filter activities.ListFilter) ([]*models.Activity, error) {
	f.lastFilter = filter
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}

func (f *fakeActivitiesRepo) Topics(ctx context.Context) ([]string, error) {
	return f.topicsOut, nil
}

func (f *fakeActivitiesRepo) AgeGroups(ctx context.Context) ([]string, error) {
	return f.groupsOut, nil
}

func (f *fakeActivitiesRepo) Update(ctx context.Context, a *models.Activity) error {
	f.lastUpdate = a
	return f.updateErr
}

func (f *fakeActivitiesRepo) Delete(ctx context.Context, id string) error {
	f.lastDeleted = id
	return f.deleteErr
}

func validInput() ActivityInput {
	return ActivityInput{
		Title:     "Chess club",
		Topic:     "Chess",
		AgeGroup:  "8-10",
		Date:      "2026-09-01",
		StartTime: "17:00",
		JoinLink:  "https://meet.google.com/abc-defg-hij",
	}
}

func newActivityService(repo *fakeActivitiesRepo) *ActivityService {
	s := NewActivityService(repo)
	s.now = func() time.Time {
		return time.Date(2026, 8, 28, 12, 30, 0, 0, time.UTC)
	}
	return s
}

// --- List ---

func TestList_PassesCutoffFromClock(t *testing.T) {
	repo := &fakeActivitiesRepo{}
	s := newActivityService(repo)

	if _, err := s.List(context.Background(), "Chess", "8-10"); err != nil {
		t.Fatalf("List error: %v", err)
	}

	want := activities.ListFilter{
		Topic:     "Chess",
		AgeGroup:  "8-10",
		AfterDate: "2026-08-28",
		AfterTime: "12:30",
	}
	if repo.lastFilter != want {
		t.Fatalf("filter mismatch: got %+v, want %+v", repo.lastFilter, want)
	}
}

func TestList_AllSentinelsMeanNoFilter(t *testing.T) {
	repo := &fakeActivitiesRepo{}
	s := newActivityService(repo)

	if _, err := s.List(context.Background(), "All Topics", "All Ages"); err != nil {
		t.Fatalf("List error: %v", err)
	}
	if repo.lastFilter.Topic != "" || repo.lastFilter.AgeGroup != "" {
		t.Fatalf("sentinel values must clear the filter, got %+v", repo.lastFilter)
	}
}

func TestList_RepoError(t *testing.T) {
	repo := &fakeActivitiesRepo{listErr: errors.New("db down")}
	s := newActivityService(repo)

	_, err := s.List(context.Background(), "", "")
	if !errors.Is(err, common.ErrorInternal) {
		t.Fatalf("want common.ErrorInternal, got %v", err)
	}
}

// --- Create ---

func TestCreate_SetsOwner(t *testing.T) {
	repo := &fakeActivitiesRepo{}
	s := newActivityService(repo)

	got, err := s.Create(context.Background(), "org-1", validInput())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.OrganizerID != "org-1" {
		t.Fatalf("expected owner org-1, got %q", got.OrganizerID)
	}
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ActivityInput)
	}{
		{"missing title", func(in *ActivityInput) { in.Title = "" }},
		{"missing topic", func(in *ActivityInput) { in.Topic = "" }},
		{"missing age group", func(in *ActivityInput) { in.AgeGroup = "" }},
		{"bad date", func(in *ActivityInput) { in.Date = "01.09.2026" }},
		{"bad time", func(in *ActivityInput) { in.StartTime = "5pm" }},
		{"not a url", func(in *ActivityInput) { in.JoinLink = "not-a-link" }},
		{"disallowed platform", func(in *ActivityInput) { in.JoinLink = "https://example.com/meet" }},
		{"http on allowed host", func(in *ActivityInput) { in.JoinLink = "http://zoom.us/j/1" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			_, err := newActivityService(&fakeActivitiesRepo{}).Create(context.Background(), "org-1", in)
			if !errors.Is(err, common.ErrorValidation) {
				t.Fatalf("want common.ErrorValidation, got %v", err)
			}
		})
	}
}

func TestCreate_AllowedPlatforms(t *testing.T) {
	for _, link := range []string{
		"https://zoom.us/j/123456",
		"https://meet.google.com/abc-defg-hij",
	} {
		in := validInput()
		in.JoinLink = link
		if _, err := newActivityService(&fakeActivitiesRepo{}).Create(context.Background(), "org-1", in); err != nil {
			t.Fatalf("link %q should be accepted, got %v", link, err)
		}
	}
}

// --- Update / Delete ownership ---

func TestUpdate_NotOwner(t *testing.T) {
	repo := &fakeActivitiesRepo{byIDOut: &models.Activity{ID: "a-1", OrganizerID: "org-2"}}
	s := newActivityService(repo)

	_, err := s.Update(context.Background(), "org-1", "a-1", validInput())
	if !errors.Is(err, common.ErrorForbidden) {
		t.Fatalf("want common.ErrorForbidden, got %v", err)
	}
	if repo.lastUpdate != nil {
		t.Fatalf("repo.Update must not be called for a foreign activity")
	}
}

func TestUpdate_NotFoundBeforeOwnership(t *testing.T) {
	repo := &fakeActivitiesRepo{byIDErr: common.ErrorNotFound}
	s := newActivityService(repo)

	_, err := s.Update(context.Background(), "org-1", "missing", validInput())
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestUpdate_OwnerSucceeds(t *testing.T) {
	repo := &fakeActivitiesRepo{byIDOut: &models.Activity{ID: "a-1", OrganizerID: "org-1", Title: "old"}}
	s := newActivityService(repo)

	got, err := s.Update(context.Background(), "org-1", "a-1", validInput())
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if got.Title != "Chess club" {
		t.Fatalf("expected updated title, got %q", got.Title)
	}
	if repo.lastUpdate == nil || repo.lastUpdate.ID != "a-1" {
		t.Fatalf("expected repo.Update on a-1")
	}
}

func TestDelete_NotOwner(t *testing.T) {
	repo := &fakeActivitiesRepo{byIDOut: &models.Activity{ID: "a-1", OrganizerID: "org-2"}}
	s := newActivityService(repo)

	err := s.Delete(context.Background(), "org-1", "a-1")
	if !errors.Is(err, common.ErrorForbidden) {
		t.Fatalf("want common.ErrorForbidden, got %v", err)
	}
	if repo.lastDeleted != "" {
		t.Fatalf("repo.Delete must not be called for a foreign activity")
	}
}

func TestDelete_OwnerSucceeds(t *testing.T) {
	repo := &fakeActivitiesRepo{byIDOut: &models.Activity{ID: "a-1", OrganizerID: "org-1"}}
	s := newActivityService(repo)

	if err := s.Delete(context.Background(), "org-1", "a-1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if repo.lastDeleted != "a-1" {
		t.Fatalf("expected repo.Delete on a-1, got %q", repo.lastDeleted)
	}
}
