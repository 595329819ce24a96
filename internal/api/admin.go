package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"clickwin_backend/internal/ledger"
	"clickwin_backend/internal/middleware"
	"clickwin_backend/internal/model"
	"clickwin_backend/internal/service"
	"clickwin_backend/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type adminRoutes struct {
	ws       service.WithdrawalServiceI
	notifier *service.WithdrawalNotifier
}

func NewAdminRoutes(handler *gin.RouterGroup, ws service.WithdrawalServiceI, notifier *service.WithdrawalNotifier, authz *middleware.Authorization) {
	r := &adminRoutes{ws: ws, notifier: notifier}
	h := handler.Group("/admin")
	h.Use(authz.AdminOnly())
	{
		h.GET("/withdrawals", r.ListPendingWithdrawals)
		h.POST("/withdrawals/:request_id", r.ResolveWithdrawal)
		h.GET("/withdrawals/ws", r.WithdrawalFeed)
		h.GET("/statistics", r.GetDailyStatistics)
	}
}

func (r *adminRoutes) ListPendingWithdrawals(c *gin.Context) {
	log := logger.Logger()

	requests, err := r.ws.ListPendingWithdrawals(c.Request.Context())
	if err != nil {
		log.Error("failed to list pending withdrawals", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list pending withdrawals"})
		return
	}

	out := make([]gin.H, len(requests))
	for i, request := range requests {
		out[i] = withdrawalJSON(request)
	}

	c.JSON(http.StatusOK, out)
}

type ResolveWithdrawalRequest struct {
	Decision string `json:"decision" binding:"required"`
}

func (r *adminRoutes) ResolveWithdrawal(c *gin.Context) {
	log := logger.Logger()

	requestID, err := uuid.Parse(c.Param("request_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request_id"})
		return
	}

	var req ResolveWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	request, err := r.ws.ResolveWithdrawal(c.Request.Context(), requestID, ledger.Decision(req.Decision))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRequestNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "withdrawal request not found"})
		case errors.Is(err, ledger.ErrInvalidDecision):
			c.JSON(http.StatusBadRequest, gin.H{"error": "decision must be approve or reject"})
		case errors.Is(err, ledger.ErrInvalidStateTransition):
			c.JSON(http.StatusConflict, gin.H{"error": "withdrawal request already resolved"})
		default:
			log.Error("failed to resolve withdrawal", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve withdrawal"})
		}
		return
	}

	c.JSON(http.StatusOK, withdrawalJSON(request))
}

type feedMessage struct {
	Type    string      `json:"type"`
	Payload feedPayload `json:"payload"`
}

type feedPayload struct {
	RequestID     uuid.UUID `json:"request_id"`
	UserID        uuid.UUID `json:"user_id"`
	UserName      string    `json:"user_name"`
	Amount        int       `json:"amount"`
	PaymentHandle string    `json:"payment_handle"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// WithdrawalFeed streams newly created withdrawal requests to the admin
// panel over a websocket, so pending requests show up without polling.
func (r *adminRoutes) WithdrawalFeed(c *gin.Context) {
	log := logger.Logger()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	feed := r.notifier.Subscribe()
	go r.withdrawalFeedLoop(conn, feed)
}

func (r *adminRoutes) withdrawalFeedLoop(conn *websocket.Conn, feed chan *model.WithdrawalRequest) {
	log := logger.Logger()

	defer func() {
		r.notifier.Unsubscribe(feed)
		conn.Close()
	}()

	for request := range feed {
		out, err := json.Marshal(feedMessage{
			Type: "WITHDRAWAL_REQUEST_CREATED",
			Payload: feedPayload{
				RequestID:     request.ID,
				UserID:        request.UserID,
				UserName:      request.UserName,
				Amount:        request.Amount,
				PaymentHandle: request.PaymentHandle,
				Status:        string(request.Status),
				CreatedAt:     request.CreatedAt,
			},
		})
		if err != nil {
			log.Error("failed to marshal feed message", zap.Error(err))
			continue
		}

		err = conn.WriteMessage(websocket.TextMessage, out)
		if err != nil {
			log.Error("failed to write feed message", zap.Error(err))
			return
		}
	}
}

func (r *adminRoutes) GetDailyStatistics(c *gin.Context) {
	log := logger.Logger()

	days := 30
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid days"})
			return
		}
		days = parsed
	}

	stats, err := r.ws.GetDailyStatistics(c.Request.Context(), days)
	if err != nil {
		log.Error("failed to get daily statistics", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get statistics"})
		return
	}

	out := make([]gin.H, len(stats))
	for i, stat := range stats {
		out[i] = gin.H{
			"day":         stat.Day.Format("2006-01-02"),
			"link_clicks": stat.LinkClicks,
		}
	}

	c.JSON(http.StatusOK, out)
}
