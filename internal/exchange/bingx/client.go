// internal/exchange/bingx/client.go
package bingx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/assist-by/relay/internal/domain"
	"github.com/assist-by/relay/internal/exchange"
)

// 기본 엔드포인트
const (
	defaultBaseURL = "https://open-api.bingx.com"

	endpointServerTime    = "/openApi/swap/v2/server/time"
	endpointBalance       = "/openApi/swap/v2/user/balance"
	endpointContracts     = "/openApi/swap/v2/quote/contracts"
	endpointOrder         = "/openApi/swap/v2/trade/order"
	endpointClosePosition = "/openApi/swap/v1/trade/closePosition"
	endpointCancelReplace = "/openApi/swap/v1/trade/cancelReplace"
)

// Client는 BingX 무기한 선물 API 클라이언트를 구현합니다
type Client struct {
	apiKey           string
	secretKey        string
	baseURL          string
	httpClient       *http.Client
	serverTimeOffset int64 // 서버 시간과의 차이를 저장
	mu               sync.RWMutex
}

// ClientOption은 클라이언트 생성 옵션을 정의합니다
type ClientOption func(*Client)

// WithTimeout은 HTTP 클라이언트의 타임아웃을 설정합니다
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithBaseURL은 기본 URL을 설정합니다
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// NewClient는 새로운 BingX API 클라이언트를 생성합니다
func NewClient(apiKey, secretKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:     apiKey,
		secretKey:  secretKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}

	// 옵션 적용
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// apiEnvelope는 모든 BingX 응답의 공통 래퍼입니다
type apiEnvelope struct {
	Code int64           `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// doRequest는 HTTP 요청을 실행하고 응답의 data 필드를 반환합니다
func (c *Client) doRequest(ctx context.Context, method, endpoint string, params map[string]string, needSign bool) (json.RawMessage, error) {
	if params == nil {
		params = map[string]string{}
	}

	// URL 생성
	reqURL, err := url.Parse(c.baseURL + endpoint)
	if err != nil {
		return nil, fmt.Errorf("URL 파싱 실패: %w", err)
	}

	// 서명 추가
	// 서명은 인코딩 전의 정렬된 쿼리 문자열에 대해 계산합니다
	if needSign {
		timestamp := c.getServerTime()
		_, signature := SignedQuery(params, timestamp, c.secretKey)
		values := url.Values{}
		for k, v := range params {
			values.Set(k, v)
		}
		values.Set("timestamp", strconv.FormatInt(timestamp, 10))
		reqURL.RawQuery = values.Encode() + "&signature=" + signature
	} else {
		values := url.Values{}
		for k, v := range params {
			values.Set(k, v)
		}
		reqURL.RawQuery = values.Encode()
	}

	// 요청 생성
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("요청 생성 실패: %w", err)
	}

	// 헤더 설정
	req.Header.Set("Content-Type", "application/json")
	if needSign {
		req.Header.Set("X-BX-APIKEY", c.apiKey)
	}

	// 요청 실행
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API 요청 실패: %w", err)
	}
	defer resp.Body.Close()

	// 응답 읽기
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("응답 읽기 실패: %w", err)
	}

	// 상태 코드 확인
	if resp.StatusCode != http.StatusOK {
		var envelope apiEnvelope
		if err := json.Unmarshal(body, &envelope); err != nil || envelope.Msg == "" {
			return nil, fmt.Errorf("HTTP 에러(%d): %s", resp.StatusCode, string(body))
		}
		return nil, &exchange.APIError{Code: envelope.Code, Message: envelope.Msg}
	}

	// 응답 래퍼 파싱
	var envelope apiEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("응답 파싱 실패: %w", err)
	}

	// 거래소 에러 코드 확인
	if envelope.Code != 0 {
		return nil, &exchange.APIError{Code: envelope.Code, Message: envelope.Msg}
	}

	return envelope.Data, nil
}

// getServerTime은 보정된 현재 서버 시간을 밀리초로 반환합니다
func (c *Client) getServerTime() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Now().UnixMilli() + c.serverTimeOffset
}

// TestConnectivity는 저비용 인증 호출로 거래소 연결을 확인합니다.
// 자격 증명, 네트워크, 응답 코드 중 하나라도 실패하면 false를 반환합니다.
func (c *Client) TestConnectivity(ctx context.Context) bool {
	_, err := c.GetBalance(ctx)
	return err == nil
}

// GetServerTime은 서버 시간을 조회합니다
func (c *Client) GetServerTime(ctx context.Context) (time.Time, error) {
	data, err := c.doRequest(ctx, http.MethodGet, endpointServerTime, nil, false)
	if err != nil {
		return time.Time{}, err
	}

	var result struct {
		ServerTime int64 `json:"serverTime"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return time.Time{}, fmt.Errorf("서버 시간 파싱 실패: %w", err)
	}

	return time.Unix(0, result.ServerTime*int64(time.Millisecond)), nil
}

// SyncTime은 거래소 서버와 시간을 동기화합니다
func (c *Client) SyncTime(ctx context.Context) error {
	serverTime, err := c.GetServerTime(ctx)
	if err != nil {
		return fmt.Errorf("서버 시간 조회 실패: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.serverTimeOffset = serverTime.UnixMilli() - time.Now().UnixMilli()
	return nil
}

// GetBalance는 계정의 자산별 잔고를 조회합니다
func (c *Client) GetBalance(ctx context.Context) (map[string]domain.Balance, error) {
	data, err := c.doRequest(ctx, http.MethodGet, endpointBalance, nil, true)
	if err != nil {
		return nil, fmt.Errorf("잔고 조회 실패: %w", err)
	}

	var assets []struct {
		Asset     string  `json:"asset"`
		Balance   float64 `json:"balance,string"`
		Available float64 `json:"availableMargin,string"`
	}
	if err := json.Unmarshal(data, &assets); err != nil {
		return nil, fmt.Errorf("잔고 응답 파싱 실패: %w", err)
	}

	balances := make(map[string]domain.Balance)
	for _, a := range assets {
		if a.Asset == "" {
			continue
		}
		balances[a.Asset] = domain.Balance{
			Asset:     a.Asset,
			Available: a.Available,
			Locked:    a.Balance - a.Available,
		}
	}

	return balances, nil
}

// GetSymbolInfo는 특정 심볼의 계약 정보를 조회합니다.
// 심볼이 계약 목록에 없으면 ErrSymbolNotFound를 반환합니다.
func (c *Client) GetSymbolInfo(ctx context.Context, symbol string) (*domain.SymbolInfo, error) {
	data, err := c.doRequest(ctx, http.MethodGet, endpointContracts, nil, false)
	if err != nil {
		return nil, fmt.Errorf("계약 목록 조회 실패: %w", err)
	}

	var contracts []struct {
		Symbol            string  `json:"symbol"`
		Asset             string  `json:"asset"`
		Currency          string  `json:"currency"`
		PricePrecision    int     `json:"pricePrecision"`
		QuantityPrecision int     `json:"quantityPrecision"`
		TradeMinQuantity  float64 `json:"tradeMinQuantity"`
		Status            int     `json:"status"`
	}
	if err := json.Unmarshal(data, &contracts); err != nil {
		return nil, fmt.Errorf("계약 목록 파싱 실패: %w", err)
	}

	for _, contract := range contracts {
		if contract.Symbol != symbol {
			continue
		}
		return &domain.SymbolInfo{
			Symbol:            contract.Symbol,
			Asset:             contract.Asset,
			Currency:          contract.Currency,
			PricePrecision:    contract.PricePrecision,
			QuantityPrecision: contract.QuantityPrecision,
			MinQuantity:       contract.TradeMinQuantity,
			Tradable:          contract.Status == 1,
		}, nil
	}

	return nil, fmt.Errorf("%w: %s", exchange.ErrSymbolNotFound, symbol)
}

// bracketLeg는 주문에 첨부하는 조건부 TP/SL 레그 파라미터를 만듭니다
func bracketLeg(orderType domain.OrderType, stopPrice float64) string {
	return fmt.Sprintf(`{"type":"%s","stopPrice":%s,"workingType":"MARK_PRICE"}`,
		orderType, strconv.FormatFloat(stopPrice, 'f', -1, 64))
}

// PlaceOrder는 새로운 주문을 생성합니다.
// TakeProfit/StopLoss가 설정된 경우 조건부 레그를 한 번의 호출로 함께 제출합니다.
func (c *Client) PlaceOrder(ctx context.Context, order domain.OrderRequest) (*domain.OrderResponse, error) {
	params := map[string]string{
		"symbol":   order.Symbol,
		"side":     string(order.Side),
		"quantity": strconv.FormatFloat(order.Quantity, 'f', -1, 64),
	}

	if order.PositionSide != "" {
		params["positionSide"] = string(order.PositionSide)
	}

	switch order.Type {
	case domain.Limit:
		params["type"] = string(domain.Limit)
		params["price"] = strconv.FormatFloat(order.Price, 'f', -1, 64)
	default:
		params["type"] = string(domain.Market)
	}

	if order.TakeProfit > 0 {
		params["takeProfit"] = bracketLeg(domain.TakeProfitMarket, order.TakeProfit)
	}
	if order.StopLoss > 0 {
		params["stopLoss"] = bracketLeg(domain.StopMarket, order.StopLoss)
	}

	data, err := c.doRequest(ctx, http.MethodPost, endpointOrder, params, true)
	if err != nil {
		return nil, fmt.Errorf("주문 실행 실패 [심볼: %s, 타입: %s, 수량: %.8f]: %w",
			order.Symbol, order.Type, order.Quantity, err)
	}

	var result struct {
		Order struct {
			OrderID  int64  `json:"orderId"`
			Symbol   string `json:"symbol"`
			Status   string `json:"status"`
			Side     string `json:"side"`
			Type     string `json:"type"`
			Quantity string `json:"quantity"`
			Price    string `json:"price"`
		} `json:"order"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("주문 응답 파싱 실패: %w", err)
	}
	if result.Order.OrderID == 0 {
		return nil, fmt.Errorf("주문 응답에 주문 ID가 없습니다: %s", string(data))
	}

	status := result.Order.Status
	if status == "" {
		status = domain.StatusNew
	}

	quantity, _ := strconv.ParseFloat(result.Order.Quantity, 64)
	if quantity == 0 {
		quantity = order.Quantity
	}
	price, _ := strconv.ParseFloat(result.Order.Price, 64)

	return &domain.OrderResponse{
		OrderID:      result.Order.OrderID,
		Symbol:       result.Order.Symbol,
		Status:       status,
		Side:         order.Side,
		PositionSide: order.PositionSide,
		Type:         order.Type,
		Quantity:     quantity,
		Price:        price,
		TakeProfit:   order.TakeProfit,
		StopLoss:     order.StopLoss,
		CreateTime:   time.Now(),
	}, nil
}

// CancelOrder는 주문을 취소합니다
func (c *Client) CancelOrder(ctx context.Context, symbol string, orderID int64) error {
	params := map[string]string{
		"symbol":  symbol,
		"orderId": strconv.FormatInt(orderID, 10),
	}

	_, err := c.doRequest(ctx, http.MethodDelete, endpointOrder, params, true)
	if err != nil {
		return fmt.Errorf("주문 취소 실패 [심볼: %s, 주문 ID: %d]: %w", symbol, orderID, err)
	}

	return nil
}

// ClosePosition은 특정 심볼/방향의 포지션을 시장가로 청산합니다
func (c *Client) ClosePosition(ctx context.Context, symbol string, positionSide domain.PositionSide) error {
	params := map[string]string{
		"symbol":       symbol,
		"positionSide": string(positionSide),
	}

	_, err := c.doRequest(ctx, http.MethodPost, endpointClosePosition, params, true)
	if err != nil {
		return fmt.Errorf("포지션 청산 실패 [심볼: %s, 방향: %s]: %w", symbol, positionSide, err)
	}

	return nil
}

// AmendTakeProfit은 기존 주문의 익절 레그를 새 가격으로 교체합니다
func (c *Client) AmendTakeProfit(ctx context.Context, symbol string, orderID int64, takeProfit float64) error {
	params := map[string]string{
		"symbol":            symbol,
		"cancelOrderId":     strconv.FormatInt(orderID, 10),
		"cancelReplaceMode": "STOP_ON_FAILURE",
		"takeProfit":        bracketLeg(domain.TakeProfitMarket, takeProfit),
	}

	_, err := c.doRequest(ctx, http.MethodPost, endpointCancelReplace, params, true)
	if err != nil {
		return fmt.Errorf("익절가 변경 실패 [심볼: %s, 주문 ID: %d]: %w", symbol, orderID, err)
	}

	return nil
}
