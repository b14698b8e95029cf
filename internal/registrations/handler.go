package registrations

import (
	"encoding/json"
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lumen-meetup/backend/internal/models"
	"github.com/lumen-meetup/backend/pkg/response"
)

// SubmitRequest is the body for POST /submit-registration.
type SubmitRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	IsSpeaker  bool   `json:"is_speaker"`
	Topic      string `json:"topic"`
	ProfilePic string `json:"profile_pic"`
}

// Handler handles the registration HTTP endpoints.
type Handler struct {
	store  Store
	logger *zap.Logger
}

// NewHandler creates a registrations handler.
func NewHandler(store Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, logger: logger}
}

// Submit handles POST /submit-registration. Validates the body, inserts the
// registration and returns {"success":true}.
func (h *Handler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		// Unparseable bodies have always surfaced as 500 on this endpoint;
		// kept as-is so existing clients see no change.
		h.logger.Warn("submit body decode failed", zap.Error(err))
		response.Internal(c, "could not read registration")
		return
	}
	if msg := validateSubmit(req); msg != "" {
		response.BadRequest(c, msg)
		return
	}

	reg := &models.Registration{
		Name:      req.Name,
		Email:     req.Email,
		IsSpeaker: req.IsSpeaker,
	}
	// Topic and profile picture are speaker fields; stored null otherwise.
	if req.IsSpeaker {
		topic := req.Topic
		reg.Topic = &topic
		if req.ProfilePic != "" {
			pic := req.ProfilePic
			reg.ProfilePic = &pic
		}
	}

	if err := h.store.Insert(c.Request.Context(), reg); err != nil {
		if errors.Is(err, ErrValidation) {
			response.BadRequest(c, err.Error())
			return
		}
		h.logger.Error("insert registration failed", zap.Error(err), zap.String("email", req.Email))
		response.Internal(c, "failed to save registration")
		return
	}
	response.OK(c, nil)
}

// Speakers handles GET /api/speakers. A store failure degrades to an empty
// list so the page keeps rendering.
func (h *Handler) Speakers(c *gin.Context) {
	speakers, err := h.store.ListSpeakers(c.Request.Context())
	if err != nil {
		h.logger.Warn("list speakers failed", zap.Error(err))
		speakers = nil
	}
	if speakers == nil {
		speakers = []models.Registration{}
	}
	response.OK(c, gin.H{"speakers": speakers})
}

// validateSubmit returns an error message for invalid input, or "" when valid.
// Name and email are checked before any speaker-specific rule.
func validateSubmit(req SubmitRequest) string {
	if req.Name == "" {
		return "name is required"
	}
	if req.Email == "" {
		return "email is required"
	}
	if req.IsSpeaker && req.Topic == "" {
		return "topic required for speakers"
	}
	return ""
}
