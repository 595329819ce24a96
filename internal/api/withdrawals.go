package api

import (
	"errors"
	"net/http"

	"clickwin_backend/internal/ledger"
	"clickwin_backend/internal/model"
	"clickwin_backend/internal/service"
	"clickwin_backend/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type withdrawalRoutes struct {
	ws service.WithdrawalServiceI
}

func NewWithdrawalRoutes(handler *gin.RouterGroup, ws service.WithdrawalServiceI) {
	r := &withdrawalRoutes{ws: ws}
	h := handler.Group("/withdrawals")
	{
		h.POST("/", r.RequestWithdrawal)
		h.GET("/:user_id", r.GetWithdrawalHistory)
	}
}

type WithdrawalRequestBody struct {
	UserID        string `json:"user_id" binding:"required"`
	Amount        int    `json:"amount" binding:"required"`
	PaymentHandle string `json:"payment_handle" binding:"required"`
	Password      string `json:"password" binding:"required"`
}

func withdrawalJSON(request *model.WithdrawalRequest) gin.H {
	return gin.H{
		"request_id":     request.ID,
		"user_id":        request.UserID,
		"user_name":      request.UserName,
		"amount":         request.Amount,
		"payment_handle": request.PaymentHandle,
		"status":         request.Status,
		"created_at":     request.CreatedAt,
	}
}

func (r *withdrawalRoutes) RequestWithdrawal(c *gin.Context) {
	log := logger.Logger()

	var req WithdrawalRequestBody
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

	request, err := r.ws.RequestWithdrawal(c.Request.Context(), userID, req.Amount, req.PaymentHandle, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "password is invalid"})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case errors.Is(err, ledger.ErrInsufficientFunds):
			c.JSON(http.StatusBadRequest, gin.H{"error": "coin is not available"})
		case errors.Is(err, ledger.ErrBelowMinimum):
			c.JSON(http.StatusBadRequest, gin.H{"error": "amount below minimum withdrawal"})
		default:
			log.Error("failed to create withdrawal request", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process withdrawal"})
		}
		return
	}

	c.JSON(http.StatusCreated, withdrawalJSON(request))
}

func (r *withdrawalRoutes) GetWithdrawalHistory(c *gin.Context) {
	log := logger.Logger()

	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}

	requests, err := r.ws.GetWithdrawalHistory(c.Request.Context(), userID)
	if err != nil {
		log.Error("failed to get withdrawal history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch withdrawal history"})
		return
	}

	out := make([]gin.H, len(requests))
	for i, request := range requests {
		out[i] = withdrawalJSON(request)
	}

	c.JSON(http.StatusOK, out)
}
