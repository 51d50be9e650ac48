package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/assist-by/relay/internal/domain"
	"github.com/assist-by/relay/internal/trader"
	"github.com/assist-by/relay/pkg/logger"
)

// Server는 웹훅 수신 HTTP 서버를 구현합니다
type Server struct {
	trader *trader.Trader
}

// New는 새로운 웹훅 서버를 생성합니다
func New(t *trader.Trader) *Server {
	return &Server{trader: t}
}

// webhookPayload는 TradingView 웹훅 요청 본문을 정의합니다.
// 기존 설정과의 호환을 위해 action의 별칭 accion도 허용합니다.
type webhookPayload struct {
	Action     string  `json:"action"`
	Accion     string  `json:"accion"`
	Ticker     string  `json:"ticker"`
	Balance    float64 `json:"balance"`
	Quantity   float64 `json:"quantity"`
	EntryPrice float64 `json:"entryPrice"`
	TakeProfit float64 `json:"takeProfit"`
	StopLoss   float64 `json:"stopLoss"`
}

// action은 별칭을 해석한 액션 값을 반환합니다
func (p *webhookPayload) action() string {
	if p.Action != "" {
		return p.Action
	}
	return p.Accion
}

// tradeResponse는 웹훅 처리 결과 응답을 정의합니다
type tradeResponse struct {
	Success  bool     `json:"success"`
	OrderID  int64    `json:"order_id,omitempty"`
	Symbol   string   `json:"symbol,omitempty"`
	Side     string   `json:"side,omitempty"`
	Quantity float64  `json:"quantity,omitempty"`
	Status   string   `json:"status,omitempty"`
	Message  string   `json:"message,omitempty"`
	Error    string   `json:"error,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// Router는 라우팅이 설정된 HTTP 핸들러를 반환합니다
func (s *Server) Router() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/status", s.handleStatus)
	r.POST("/webhook", s.handleWebhook)

	return r
}

// handleWebhook은 TradingView 웹훅 시그널을 수신하여 거래를 실행합니다
func (s *Server) handleWebhook(c *gin.Context) {
	if !strings.HasPrefix(c.ContentType(), "application/json") {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Content-Type must be application/json",
		})
		return
	}

	var payload webhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		logger.Warn("웹훅 본문 파싱 실패", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid JSON payload",
		})
		return
	}

	// 필수 필드 검증
	var missing []string
	if payload.action() == "" {
		missing = append(missing, "action")
	}
	if payload.Ticker == "" {
		missing = append(missing, "ticker")
	}
	if len(missing) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Missing required fields: " + strings.Join(missing, ", "),
		})
		return
	}

	sig := &domain.Signal{
		Action:     payload.action(),
		Ticker:     payload.Ticker,
		Balance:    payload.Balance,
		Quantity:   payload.Quantity,
		EntryPrice: payload.EntryPrice,
		TakeProfit: payload.TakeProfit,
		StopLoss:   payload.StopLoss,
		ReceivedAt: time.Now(),
	}

	logger.Info("웹훅 수신",
		zap.String("action", sig.Action),
		zap.String("ticker", sig.Ticker))

	outcome, err := s.trader.ExecuteTrade(c.Request.Context(), sig)
	if err != nil {
		c.JSON(http.StatusInternalServerError, tradeResponse{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, tradeResponse{
		Success:  true,
		OrderID:  outcome.OrderID,
		Symbol:   outcome.Symbol,
		Side:     string(outcome.Side),
		Quantity: outcome.Quantity,
		Status:   outcome.Status,
		Message:  outcome.Message,
		Warnings: outcome.Warnings,
	})
}

// handleStatus는 서버와 거래소 연결 상태를 반환합니다
func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":          "online",
		"webhook_url":     "/webhook",
		"bingx_connected": s.trader.TestConnectivity(c.Request.Context()),
	})
}
