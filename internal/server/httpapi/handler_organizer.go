package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akozlov/activityhub/internal/server/models"
	"github.com/akozlov/activityhub/internal/server/services"
)

// profileResponse deliberately omits the password verifier.
type profileResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar,omitempty"`
}

func toProfileResponse(o *models.Organizer) profileResponse {
	return profileResponse{
		ID:       o.ID,
		Username: o.Username,
		Name:     o.Name,
		Email:    o.Email,
		Avatar:   o.Avatar,
	}
}

type profileUpdateRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Avatar   *string `json:"avatar"`
	Password *string `json:"password"`
}

func (s *Server) getProfile(c *gin.Context) {
	organizer, err := s.organizers.GetProfile(c.Request.Context(), organizerID(c))
	if err != nil {
		s.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProfileResponse(organizer))
}

func (s *Server) updateProfile(c *gin.Context) {
	var req profileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	organizer, err := s.organizers.UpdateProfile(c.Request.Context(), organizerID(c), services.ProfileUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Avatar:   req.Avatar,
		Password: req.Password,
	})
	if err != nil {
		s.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProfileResponse(organizer))
}
