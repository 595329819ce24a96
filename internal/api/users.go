package api

import (
	"errors"
	"net/http"
	"time"

	"clickwin_backend/internal/repository"
	"clickwin_backend/internal/service"
	"clickwin_backend/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type userRoutes struct {
	us service.UserServiceI
}

func NewUserRoutes(handler *gin.RouterGroup, us service.UserServiceI) {
	r := &userRoutes{us: us}
	h := handler.Group("/users")
	{
		h.POST("/", r.Register)
		h.POST("/login", r.Login)
		h.GET("/:user_id/profile", r.GetProfile)
		h.GET("/:user_id/personal", r.GetPersonal)
	}
}

type RegisterRequest struct {
	Name        string  `json:"name" binding:"required"`
	Phone       string  `json:"phone" binding:"required"`
	Email       string  `json:"email" binding:"required,email"`
	Password    string  `json:"password" binding:"required,min=8"`
	Fingerprint string  `json:"fingerprint"`
	ReferrerID  *string `json:"referrer_id"`
}

type RegisterResponse struct {
	UserID uuid.UUID `json:"user_id"`
	Name   string    `json:"name"`
}

func (r *userRoutes) Register(c *gin.Context) {
	log := logger.Logger()

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	// The registration device fingerprint falls back to the caller's
	// network address when the client sends none.
	fingerprint := req.Fingerprint
	if fingerprint == "" {
		fingerprint = c.ClientIP()
	}

	var referrerID *uuid.UUID
	if req.ReferrerID != nil {
		id, err := uuid.Parse(*req.ReferrerID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid referrer_id"})
			return
		}
		referrerID = &id
	}

	user, err := r.us.Register(c.Request.Context(), service.RegisterInput{
		Name:        req.Name,
		Phone:       req.Phone,
		Email:       req.Email,
		Password:    req.Password,
		Fingerprint: fingerprint,
		ReferrerID:  referrerID,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "email already exists"})
		case errors.Is(err, repository.ErrPhoneTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "mobile number already exists"})
		case errors.Is(err, repository.ErrDeviceTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "already registered on this device/network"})
		case errors.Is(err, repository.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "already registered"})
		default:
			log.Error("failed to register user", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register user"})
		}
		return
	}

	c.JSON(http.StatusCreated, RegisterResponse{
		UserID: user.ID,
		Name:   user.Name,
	})
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (r *userRoutes) Login(c *gin.Context) {
	log := logger.Logger()

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	userID, err := r.us.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		log.Error("failed to log in", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id": userID,
	})
}

type visitedLink struct {
	Index     int       `json:"index"`
	VisitedAt time.Time `json:"visited_at"`
}

func visitedLinks(visits map[int]time.Time) []visitedLink {
	out := make([]visitedLink, 0, len(visits))
	for index, at := range visits {
		out = append(out, visitedLink{Index: index, VisitedAt: at})
	}
	return out
}

func (r *userRoutes) GetProfile(c *gin.Context) {
	log := logger.Logger()

	id, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}

	profile, err := r.us.GetProfile(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		log.Error("failed to get profile", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get user profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":        profile.UserID,
		"name":           profile.Name,
		"coins":          profile.Coins,
		"visited_links":  visitedLinks(profile.VisitedLinks),
		"referral_coins": profile.ReferralCoins,
		"referrals":      profile.Referrals,
	})
}

func (r *userRoutes) GetPersonal(c *gin.Context) {
	log := logger.Logger()

	id, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}

	user, err := r.us.GetUserByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		log.Error("failed to get user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch profile details"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":     user.ID,
		"name":        user.Name,
		"coins":       user.Coins,
		"fingerprint": user.Fingerprint,
	})
}
