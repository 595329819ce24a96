package api

import (
	"errors"
	"net/http"

	"clickwin_backend/internal/middleware"
	"clickwin_backend/internal/model"
	"clickwin_backend/internal/repository"
	"clickwin_backend/internal/service"
	"clickwin_backend/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type linkRoutes struct {
	ls service.LinkServiceI
}

func NewLinkRoutes(handler *gin.RouterGroup, ls service.LinkServiceI, authz *middleware.Authorization) {
	r := &linkRoutes{ls: ls}
	h := handler.Group("/links")
	{
		h.GET("/", r.ListLinks)
		h.POST("/visit", r.VisitLink)
		h.POST("/", authz.AdminOnly(), r.CreateLink)
	}
}

func (r *linkRoutes) ListLinks(c *gin.Context) {
	log := logger.Logger()

	links, err := r.ls.ListLinks(c.Request.Context())
	if err != nil {
		log.Error("failed to list links", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list links"})
		return
	}

	out := make([]gin.H, len(links))
	for i, link := range links {
		out[i] = gin.H{
			"index":     link.Index,
			"url":       link.URL,
			"image_url": link.ImageURL,
		}
	}

	c.JSON(http.StatusOK, out)
}

type VisitLinkRequest struct {
	UserID    string `json:"user_id" binding:"required"`
	LinkIndex *int   `json:"link_index" binding:"required"`
}

func (r *linkRoutes) VisitLink(c *gin.Context) {
	log := logger.Logger()

	var req VisitLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}

	result, err := r.ls.VisitLink(c.Request.Context(), userID, *req.LinkIndex)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case errors.Is(err, service.ErrLinkNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "link not found"})
		default:
			log.Error("failed to visit link", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update link"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"coins":         result.Coins,
		"visited_links": visitedLinks(result.VisitedLinks),
	})
}

type CreateLinkRequest struct {
	Index    *int   `json:"index" binding:"required"`
	URL      string `json:"url" binding:"required,url"`
	ImageURL string `json:"image_url"`
}

func (r *linkRoutes) CreateLink(c *gin.Context) {
	log := logger.Logger()

	var req CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	link := &model.Link{
		Index:    *req.Index,
		URL:      req.URL,
		ImageURL: req.ImageURL,
	}

	err := r.ls.CreateLink(c.Request.Context(), link)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "link index already exists"})
			return
		}
		log.Error("failed to create link", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create link"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"index": link.Index,
	})
}
