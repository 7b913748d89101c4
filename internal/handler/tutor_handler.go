package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coursematch/tutor-api/internal/service"
	"github.com/coursematch/tutor-api/pkg/response"
)

// TutorHandler wires HTTP endpoints to the tutor directory service.
type TutorHandler struct {
	service *service.TutorService
}

// NewTutorHandler creates a new handler.
func NewTutorHandler(svc *service.TutorService) *TutorHandler {
	return &TutorHandler{service: svc}
}

// CourseTutors godoc
// @Summary List tutors for a course
// @Description Returns the public tutor listing for a course. Privacy toggles are applied per viewer; owners see their own hidden fields.
// @Tags Tutors
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id}/tutors [get]
func (h *TutorHandler) CourseTutors(c *gin.Context) {
	listing, err := h.service.CourseTutors(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, listing, nil)
}

// Profile godoc
// @Summary Get tutor profile
// @Description Returns a tutor's public profile. Hidden profiles answer 404 just like unknown users.
// @Tags Tutors
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /tutors/{userId} [get]
func (h *TutorHandler) Profile(c *gin.Context) {
	profile, err := h.service.TutorProfile(c.Request.Context(), c.Param("userId"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, profile, nil)
}
