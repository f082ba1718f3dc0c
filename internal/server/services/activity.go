package services

import (
	"context"
	"errors"
	"time"

	"github.com/akozlov/activityhub/internal/common"
	"github.com/akozlov/activityhub/internal/server/models"
	"github.com/akozlov/activityhub/internal/server/repositories/activities"
)

// Clients send these sentinel values for "no filter"; they come from the
// filter dropdowns and are treated the same as an absent parameter.
const (
	allTopics = "All Topics"
	allAges   = "All Ages"
)

// ActivityInput carries the client-supplied activity fields for create
// and update operations.
type ActivityInput struct {
	Title       string
	Description string
	Topic       string
	AgeGroup    string
	Date        string
	StartTime   string
	JoinLink    string
}

type ActivityService struct {
	repo activities.Repository

	// now is a seam for tests; defaults to time.Now.
	now func() time.Time
}

func NewActivityService(repo activities.Repository) *ActivityService {
	return &ActivityService{repo: repo, now: time.Now}
}

// List returns upcoming activities, optionally narrowed by topic and age
// group, ordered by date then start time. Activities whose date and start
// time are already in the past are excluded.
func (s *ActivityService) List(ctx context.Context, topic string, ageGroup string) ([]*models.Activity, error) {
	if topic == allTopics {
		topic = ""
	}
	if ageGroup == allAges {
		ageGroup = ""
	}

	now := s.now()
	result, err := s.repo.List(ctx, activities.ListFilter{
		Topic:     topic,
		AgeGroup:  ageGroup,
		AfterDate: now.Format("2006-01-02"),
		AfterTime: now.Format("15:04"),
	})
	if err != nil {
		return nil, common.ErrorInternal
	}
	return result, nil
}

func (s *ActivityService) Topics(ctx context.Context) ([]string, error) {
	topics, err := s.repo.Topics(ctx)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return topics, nil
}

func (s *ActivityService) AgeGroups(ctx context.Context) ([]string, error) {
	groups, err := s.repo.AgeGroups(ctx)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return groups, nil
}

// Create validates the input and inserts a new activity owned by the
// calling organizer.
func (s *ActivityService) Create(ctx context.Context, organizerID string, input ActivityInput) (*models.Activity, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	activity, err := s.repo.Create(ctx, &models.Activity{
		Title:       input.Title,
		Description: input.Description,
		Topic:       input.Topic,
		AgeGroup:    input.AgeGroup,
		Date:        input.Date,
		StartTime:   input.StartTime,
		JoinLink:    input.JoinLink,
		OrganizerID: organizerID,
	})
	if err != nil {
		return nil, common.ErrorInternal
	}
	return activity, nil
}

// Update mutates an activity after the ownership check. The precedence is
// fixed: existence first (404), then ownership (403), then validation and
// mutation, so "not found" and "found but not yours" stay distinguishable.
func (s *ActivityService) Update(ctx context.Context, organizerID string, id string, input ActivityInput) (*models.Activity, error) {
	activity, err := s.loadOwned(ctx, organizerID, id)
	if err != nil {
		return nil, err
	}

	if err := validateInput(input); err != nil {
		return nil, err
	}

	activity.Title = input.Title
	activity.Description = input.Description
	activity.Topic = input.Topic
	activity.AgeGroup = input.AgeGroup
	activity.Date = input.Date
	activity.StartTime = input.StartTime
	activity.JoinLink = input.JoinLink

	if err := s.repo.Update(ctx, activity); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return activity, nil
}

// Delete removes an activity after the ownership check.
func (s *ActivityService) Delete(ctx context.Context, organizerID string, id string) error {
	if _, err := s.loadOwned(ctx, organizerID, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return common.ErrorInternal
	}
	return nil
}

func (s *ActivityService) loadOwned(ctx context.Context, organizerID string, id string) (*models.Activity, error) {
	activity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	if activity.OrganizerID != organizerID {
		return nil, common.ErrorForbidden
	}

	return activity, nil
}

func validateInput(input ActivityInput) error {
	if input.Title == "" || input.Topic == "" || input.AgeGroup == "" ||
		input.Date == "" || input.StartTime == "" || input.JoinLink == "" {
		return common.ErrorValidation
	}
	if _, err := time.Parse("2006-01-02", input.Date); err != nil {
		return common.ErrorValidation
	}
	if _, err := time.Parse("15:04", input.StartTime); err != nil {
		return common.ErrorValidation
	}
	if !isValidJoinLink(input.JoinLink) {
		return common.ErrorValidation
	}
	return nil
}
