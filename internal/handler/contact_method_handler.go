package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coursematch/tutor-api/internal/service"
	appErrors "github.com/coursematch/tutor-api/pkg/errors"
	"github.com/coursematch/tutor-api/pkg/response"
)

// ContactMethodHandler wires HTTP endpoints to the contact service.
type ContactMethodHandler struct {
	service *service.ContactService
}

// NewContactMethodHandler creates a new handler.
func NewContactMethodHandler(svc *service.ContactService) *ContactMethodHandler {
	return &ContactMethodHandler{service: svc}
}

// List godoc
// @Summary List own contact methods
// @Description Returns the authenticated user's contact methods, preferred first
// @Tags Contact methods
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /me/contact-methods [get]
func (h *ContactMethodHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	methods, err := h.service.List(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, methods, nil)
}

// Create godoc
// @Summary Add contact method
// @Description Add a contact method. Marking it preferred demotes any other preferred method.
// @Tags Contact methods
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.ContactMethodInput true "Contact method payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /me/contact-methods [post]
func (h *ContactMethodHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var input service.ContactMethodInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid contact method payload"))
		return
	}

	method, err := h.service.Create(c.Request.Context(), claims.UserID, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusCreated, method, nil)
}

// Update godoc
// @Summary Update contact method
// @Description Partially update one of the user's contact methods
// @Tags Contact methods
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Contact method ID"
// @Param payload body service.ContactMethodPatch true "Contact method patch"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /me/contact-methods/{id} [patch]
func (h *ContactMethodHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var patch service.ContactMethodPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid contact method payload"))
		return
	}

	method, err := h.service.Update(c.Request.Context(), claims.UserID, c.Param("id"), patch)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, method, nil)
}

// Delete godoc
// @Summary Delete contact method
// @Description Remove one of the user's contact methods. Removing the preferred one leaves none preferred.
// @Tags Contact methods
// @Produce json
// @Security BearerAuth
// @Param id path string true "Contact method ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /me/contact-methods/{id} [delete]
func (h *ContactMethodHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Delete(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
