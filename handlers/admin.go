package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"homestay/models"
	"homestay/services/booking"
	"homestay/services/content"
	"homestay/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const adminTokenTTL = 12 * time.Hour

// AdminHandler serves the back-office endpoints.
type AdminHandler struct {
	Bookings     booking.BookingService
	Content      content.ContentService
	AdminEmail   string
	PasswordHash string
	Logger       *zap.Logger
}

func NewAdminHandler(bookings booking.BookingService, contentSvc content.ContentService, adminEmail, passwordHash string, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		Bookings:     bookings,
		Content:      contentSvc,
		AdminEmail:   adminEmail,
		PasswordHash: passwordHash,
		Logger:       logger,
	}
}

type adminLoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login exchanges the operator credentials for a 12h admin token.
func (h *AdminHandler) Login(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "email and password are required", err)
		return
	}
	if h.PasswordHash == "" {
		respondError(c, h.Logger, booking.AuthError("admin login is disabled"))
		return
	}
	emailOK := h.AdminEmail == "" || strings.EqualFold(strings.TrimSpace(req.Email), h.AdminEmail)
	if err := bcrypt.CompareHashAndPassword([]byte(h.PasswordHash), []byte(req.Password)); err != nil || !emailOK {
		getLogger(c, h.Logger).Warn("admin login failed", zap.String("ip", c.ClientIP()))
		respondError(c, h.Logger, booking.AuthError("invalid credentials"))
		return
	}

	token, err := utils.GenerateToken(utils.Claims{
		Subject: "admin",
		Email:   req.Email,
		Name:    "Administrator",
		Role:    utils.RoleAdmin,
	}, adminTokenTTL)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"token":      token,
		"expires_at": time.Now().Add(adminTokenTTL).UTC(),
	})
}

func (h *AdminHandler) ListBookings(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	list, err := h.Bookings.ListAllBookings(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

// ReconcileUser runs the sweep for one guest.
func (h *AdminHandler) ReconcileUser(c *gin.Context) {
	n, err := h.Bookings.Reconcile(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"updated": n})
}

func (h *AdminHandler) ListContent(c *gin.Context) {
	recs, err := h.Content.List(c.Request.Context(), models.ContentKind(c.Param("kind")), false)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, recs)
}

func (h *AdminHandler) GetContent(c *gin.Context) {
	rec, err := h.Content.Get(c.Request.Context(), models.ContentKind(c.Param("kind")), c.Param("id"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rec)
}

// SaveContent upserts a record. Multipart requests carry the record as JSON in the "data"
// field and an optional "image" file; plain requests carry the record as the body.
func (h *AdminHandler) SaveContent(c *gin.Context) {
	var rec models.ContentRecord
	img, cleanup, ok := h.bindWithImage(c, &rec)
	if !ok {
		return
	}
	defer cleanup()
	if id := c.Param("id"); id != "" {
		rec.ID = id
	}

	saved, err := h.Content.Save(c.Request.Context(), models.ContentKind(c.Param("kind")), &rec, img)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, saved)
}

func (h *AdminHandler) DeleteContent(c *gin.Context) {
	if err := h.Content.Delete(c.Request.Context(), models.ContentKind(c.Param("kind")), c.Param("id")); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *AdminHandler) ListRooms(c *gin.Context) {
	rooms, err := h.Content.ListRooms(c.Request.Context())
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

func (h *AdminHandler) SaveRoom(c *gin.Context) {
	var room models.Room
	img, cleanup, ok := h.bindWithImage(c, &room)
	if !ok {
		return
	}
	defer cleanup()
	if id := c.Param("id"); id != "" {
		room.ID = id
	}

	saved, err := h.Content.SaveRoom(c.Request.Context(), &room, img)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, saved)
}

func (h *AdminHandler) DeleteRoom(c *gin.Context) {
	if err := h.Content.DeleteRoom(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": true})
}

func noop() {}

// bindWithImage decodes the request into dst and stages an uploaded image in a temp file.
// The returned cleanup removes that file.
func (h *AdminHandler) bindWithImage(c *gin.Context, dst interface{}) (*models.Image, func(), bool) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.ShouldBindJSON(dst); err != nil {
			respondBadRequest(c, "invalid body", err)
			return nil, noop, false
		}
		return nil, noop, true
	}

	if data := c.PostForm("data"); data != "" {
		if err := json.Unmarshal([]byte(data), dst); err != nil {
			respondBadRequest(c, "invalid data field", err)
			return nil, noop, false
		}
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, noop, true
		}
		respondBadRequest(c, "invalid image", err)
		return nil, noop, false
	}

	tempFilePath := filepath.Join(os.TempDir(), uuid.NewString()+filepath.Ext(fileHeader.Filename))
	if err := c.SaveUploadedFile(fileHeader, tempFilePath); err != nil {
		respondError(c, h.Logger, err)
		return nil, noop, false
	}
	cleanup := func() { _ = os.Remove(tempFilePath) }
	return &models.Image{Filename: fileHeader.Filename, Path: tempFilePath}, cleanup, true
}
