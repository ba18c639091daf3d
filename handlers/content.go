package handlers

import (
	"net/http"

	"homestay/models"
	"homestay/services/content"
	"homestay/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContentHandler serves the public site content.
type ContentHandler struct {
	Content content.ContentService
	Logger  *zap.Logger
}

func NewContentHandler(svc content.ContentService, logger *zap.Logger) *ContentHandler {
	return &ContentHandler{Content: svc, Logger: logger}
}

func (h *ContentHandler) CreateEnquiry(c *gin.Context) {
	var in models.EnquiryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, "invalid enquiry", err)
		return
	}
	rec, err := h.Content.CreateEnquiry(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, gin.H{"id": rec.ID})
}

// ListPublished returns the published records of a kind. Enquiries are never public.
func (h *ContentHandler) ListPublished(c *gin.Context) {
	kind := models.ContentKind(c.Param("kind"))
	if kind == models.KindEnquiries {
		utils.JSONError(c, http.StatusNotFound, "not found", "")
		return
	}
	recs, err := h.Content.List(c.Request.Context(), kind, true)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, recs)
}
