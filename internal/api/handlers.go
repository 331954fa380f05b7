package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"tutorgo/internal/models"
	"tutorgo/internal/service/tutor"
)

// Handler wires HTTP routes to the conversation engine.
type Handler struct {
	tutor *tutor.Service
}

// NewHandler constructs a Handler instance.
func NewHandler(service *tutor.Service) *Handler {
	return &Handler{tutor: service}
}

// RegisterRoutes attaches all HTTP routes to the router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	api.POST("/tutorials", h.startTutorial)
	api.GET("/conversations", h.listConversations)
	api.POST("/conversations/:id/messages", h.continueConversation)
	api.GET("/conversations/:id/messages", h.getMessages)
}

type startTutorialRequest struct {
	SessionID string `json:"session_id"`
	Subject   string `json:"subject"`
}

func (h *Handler) startTutorial(c *gin.Context) {
	var req startTutorialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Subject) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subject is required"})
		return
	}
	result, err := h.tutor.StartTutorial(c.Request.Context(), req.SessionID, req.Subject)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, result)
}

type continueRequest struct {
	Content   string `json:"content"`
	InputType string `json:"input_type"`
}

func (h *Handler) continueConversation(c *gin.Context) {
	conversationID, ok := h.conversationID(c)
	if !ok {
		return
	}
	var req continueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
		return
	}
	// Anything other than an explicit evaluation request is treated as a
	// question; the engine may still override the hint.
	inputType := models.InputQuestion
	if req.InputType == string(models.InputEvaluationRequest) {
		inputType = models.InputEvaluationRequest
	}

	result, err := h.tutor.ContinueConversation(c.Request.Context(), conversationID, req.Content, inputType)
	if err != nil {
		if errors.Is(err, tutor.ErrConversationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) getMessages(c *gin.Context) {
	conversationID, ok := h.conversationID(c)
	if !ok {
		return
	}
	if _, err := h.tutor.GetConversation(c.Request.Context(), conversationID); err != nil {
		if errors.Is(err, tutor.ErrConversationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	messages, err := h.tutor.GetHistory(c.Request.Context(), conversationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func (h *Handler) listConversations(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required"})
		return
	}
	conversations, err := h.tutor.ListConversationsBySession(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": conversations})
}

func (h *Handler) conversationID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation id"})
		return 0, false
	}
	return id, true
}
