package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akozlov/activityhub/internal/server/models"
	"github.com/akozlov/activityhub/internal/server/services"
)

type activityRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Topic       string `json:"topic"`
	AgeGroup    string `json:"age_group"`
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	JoinLink    string `json:"join_link"`
}

func (r activityRequest) toInput() services.ActivityInput {
	return services.ActivityInput{
		Title:       r.Title,
		Description: r.Description,
		Topic:       r.Topic,
		AgeGroup:    r.AgeGroup,
		Date:        r.Date,
		StartTime:   r.StartTime,
		JoinLink:    r.JoinLink,
	}
}

type activityResponse struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	Description       string `json:"description"`
	Topic             string `json:"topic"`
	AgeGroup          string `json:"age_group"`
	Date              string `json:"date"`
	StartTime         string `json:"start_time"`
	JoinLink          string `json:"join_link"`
	OrganizerID       string `json:"organizer_id"`
	OrganizerUsername string `json:"organizer_username,omitempty"`
}

func toActivityResponse(a *models.Activity) activityResponse {
	return activityResponse{
		ID:                a.ID,
		Title:             a.Title,
		Description:       a.Description,
		Topic:             a.Topic,
		AgeGroup:          a.AgeGroup,
		Date:              a.Date,
		StartTime:         a.StartTime,
		JoinLink:          a.JoinLink,
		OrganizerID:       a.OrganizerID,
		OrganizerUsername: a.OrganizerUsername,
	}
}

func (s *Server) listActivities(c *gin.Context) {
	result, err := s.activities.List(c.Request.Context(), c.Query("topic"), c.Query("age_group"))
	if err != nil {
		s.writeServiceError(c, err)
		return
	}

	out := make([]activityResponse, 0, len(result))
	for _, a := range result {
		out = append(out, toActivityResponse(a))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) listTopics(c *gin.Context) {
	topics, err := s.activities.Topics(c.Request.Context())
	if err != nil {
		s.writeServiceError(c, err)
		return
	}
	if topics == nil {
		topics = []string{}
	}
	c.JSON(http.StatusOK, topics)
}

func (s *Server) listAgeGroups(c *gin.Context) {
	groups, err := s.activities.AgeGroups(c.Request.Context())
	if err != nil {
		s.writeServiceError(c, err)
		return
	}
	if groups == nil {
		groups = []string{}
	}
	c.JSON(http.StatusOK, groups)
}

func (s *Server) createActivity(c *gin.Context) {
	var req activityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	activity, err := s.activities.Create(c.Request.Context(), organizerID(c), req.toInput())
	if err != nil {
		s.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toActivityResponse(activity))
}

func (s *Server) updateActivity(c *gin.Context) {
	var req activityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	activity, err := s.activities.Update(c.Request.Context(), organizerID(c), c.Param("id"), req.toInput())
	if err != nil {
		s.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toActivityResponse(activity))
}

func (s *Server) deleteActivity(c *gin.Context) {
	if err := s.activities.Delete(c.Request.Context(), organizerID(c), c.Param("id")); err != nil {
		s.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "activity deleted"})
}
