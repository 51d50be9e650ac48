package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assist-by/relay/internal/config"
	"github.com/assist-by/relay/internal/domain"
	"github.com/assist-by/relay/internal/exchange"
	"github.com/assist-by/relay/internal/position"
	"github.com/assist-by/relay/internal/trader"
)

// fakeExchange는 웹훅 핸들러 테스트용 거래소 스텁입니다
type fakeExchange struct {
	connected bool
	placed    []domain.OrderRequest
}

func (f *fakeExchange) TestConnectivity(ctx context.Context) bool { return f.connected }

func (f *fakeExchange) GetServerTime(ctx context.Context) (time.Time, error) {
	return time.Now(), nil
}

func (f *fakeExchange) GetBalance(ctx context.Context) (map[string]domain.Balance, error) {
	return map[string]domain.Balance{
		"USDT": {Asset: "USDT", Available: 700},
	}, nil
}

func (f *fakeExchange) GetSymbolInfo(ctx context.Context, symbol string) (*domain.SymbolInfo, error) {
	if symbol != "BTC-USDT" {
		return nil, exchange.ErrSymbolNotFound
	}
	return &domain.SymbolInfo{Symbol: symbol, QuantityPrecision: 6, Tradable: true}, nil
}

func (f *fakeExchange) PlaceOrder(ctx context.Context, order domain.OrderRequest) (*domain.OrderResponse, error) {
	f.placed = append(f.placed, order)
	return &domain.OrderResponse{
		OrderID:      1001,
		Symbol:       order.Symbol,
		Status:       domain.StatusNew,
		Side:         order.Side,
		PositionSide: order.PositionSide,
		Type:         order.Type,
		Quantity:     order.Quantity,
		CreateTime:   time.Now(),
	}, nil
}

func (f *fakeExchange) CancelOrder(ctx context.Context, symbol string, orderID int64) error {
	return nil
}

func (f *fakeExchange) ClosePosition(ctx context.Context, symbol string, positionSide domain.PositionSide) error {
	return nil
}

func (f *fakeExchange) AmendTakeProfit(ctx context.Context, symbol string, orderID int64, takeProfit float64) error {
	return nil
}

func newTestServer(fake *fakeExchange) *Server {
	cfg := &config.Config{}
	cfg.BingX.APIKey = "test-api-key"
	cfg.BingX.SecretKey = "test-secret-key"
	cfg.Trading.BalanceDivisor = 7
	cfg.Trading.QuantityPrecision = 6
	cfg.Trading.FundingAsset = "USDT"

	tr := trader.New(cfg, fake, position.NewLedger(fake), nil)
	return New(tr)
}

func postWebhook(t *testing.T, router http.Handler, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleWebhook(t *testing.T) {
	t.Run("정상 시그널은 200과 주문 결과를 반환", func(t *testing.T) {
		fake := &fakeExchange{connected: true}
		router := newTestServer(fake).Router()

		w := postWebhook(t, router, "application/json",
			`{"action": "buy", "ticker": "BTCUSDT"}`)
		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, true, resp["success"])
		assert.Equal(t, "BTC-USDT", resp["symbol"])
		assert.Equal(t, "BUY", resp["side"])
		assert.Equal(t, 100.0, resp["quantity"])
		assert.Len(t, fake.placed, 1)
	})

	t.Run("accion 별칭을 허용", func(t *testing.T) {
		fake := &fakeExchange{connected: true}
		router := newTestServer(fake).Router()

		w := postWebhook(t, router, "application/json",
			`{"accion": "sell", "ticker": "BTC-USDT"}`)
		require.Equal(t, http.StatusOK, w.Code)
		require.Len(t, fake.placed, 1)
		assert.Equal(t, domain.Sell, fake.placed[0].Side)
	})

	t.Run("JSON이 아닌 Content-Type은 400", func(t *testing.T) {
		router := newTestServer(&fakeExchange{connected: true}).Router()

		w := postWebhook(t, router, "text/plain", `action=buy`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("잘못된 JSON 본문은 400", func(t *testing.T) {
		router := newTestServer(&fakeExchange{connected: true}).Router()

		w := postWebhook(t, router, "application/json", `{"action": `)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("필수 필드 누락은 400", func(t *testing.T) {
		router := newTestServer(&fakeExchange{connected: true}).Router()

		w := postWebhook(t, router, "application/json", `{"balance": 700}`)
		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Contains(t, resp["error"], "action")
		assert.Contains(t, resp["error"], "ticker")
	})

	t.Run("거래 실패는 500과 에러 메시지를 반환", func(t *testing.T) {
		fake := &fakeExchange{connected: true}
		router := newTestServer(fake).Router()

		w := postWebhook(t, router, "application/json",
			`{"action": "hold", "ticker": "BTCUSDT"}`)
		require.Equal(t, http.StatusInternalServerError, w.Code)

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, false, resp["success"])
		assert.Contains(t, resp["error"], "InvalidAction:")
		assert.Empty(t, fake.placed)
	})
}

func TestHandleStatus(t *testing.T) {
	t.Run("연결 상태를 포함한 상태 응답", func(t *testing.T) {
		router := newTestServer(&fakeExchange{connected: true}).Router()

		req := httptest.NewRequest(http.MethodGet, "/status", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "online", resp["status"])
		assert.Equal(t, "/webhook", resp["webhook_url"])
		assert.Equal(t, true, resp["bingx_connected"])
	})
}

func TestHealthz(t *testing.T) {
	router := newTestServer(&fakeExchange{connected: true}).Router()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
