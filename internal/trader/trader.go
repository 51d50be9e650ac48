package trader

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/assist-by/relay/internal/config"
	"github.com/assist-by/relay/internal/domain"
	"github.com/assist-by/relay/internal/exchange"
	"github.com/assist-by/relay/internal/notification"
	"github.com/assist-by/relay/internal/position"
	"github.com/assist-by/relay/pkg/logger"
)

// Trader는 수신한 시그널을 거래소 주문으로 변환하는 오케스트레이터입니다.
// 시그널 하나는 하나의 동기 파이프라인으로 처리되며 어떤 단계도
// 자동으로 재시도하지 않습니다.
type Trader struct {
	cfg      *config.Config
	exchange exchange.Exchange
	ledger   *position.Ledger
	notifier notification.Notifier // nil이면 알림 생략
}

// Outcome은 거래 실행 성공 결과를 담습니다
type Outcome struct {
	OrderID  int64
	Symbol   string
	Side     domain.OrderSide
	Quantity float64
	Status   string
	Message  string
	Warnings []string
}

// New는 새로운 트레이더를 생성합니다
func New(cfg *config.Config, ex exchange.Exchange, ledger *position.Ledger, notifier notification.Notifier) *Trader {
	return &Trader{
		cfg:      cfg,
		exchange: ex,
		ledger:   ledger,
		notifier: notifier,
	}
}

// ExecuteTrade는 시그널을 검증하고 주문을 실행합니다.
// 모든 실패는 TradeError로 분류되어 반환되며 첫 실패에서 중단합니다.
func (t *Trader) ExecuteTrade(ctx context.Context, sig *domain.Signal) (*Outcome, error) {
	// 1. 액션 검증
	action := domain.NormalizeAction(sig.Action)
	if !domain.IsValidAction(action) {
		return nil, t.fail(NewTradeError(KindInvalidAction,
			fmt.Errorf("허용되지 않는 액션: %q (BUY 또는 SELL이어야 합니다)", sig.Action)))
	}
	side := domain.OrderSide(action)

	logger.Info("거래 실행 시작",
		zap.String("action", action),
		zap.String("ticker", sig.Ticker))

	// 2. 자격 증명 확인
	if !t.cfg.HasCredentials() {
		return nil, t.fail(NewTradeError(KindNotConfigured,
			fmt.Errorf("API 키가 설정되지 않았습니다. BINGX_API_KEY와 BINGX_SECRET_KEY를 설정하세요")))
	}

	// 3. 거래소 연결 확인
	if !t.exchange.TestConnectivity(ctx) {
		return nil, t.fail(NewTradeError(KindConnectionFailed,
			fmt.Errorf("BingX API 연결에 실패했습니다")))
	}

	// 4. 수량 결정
	quantity, err := t.resolveQuantity(ctx, sig)
	if err != nil {
		return nil, t.fail(err)
	}

	// 5. 심볼 정규화
	if sig.Ticker == "" {
		return nil, t.fail(NewTradeError(KindInvalidSymbol,
			fmt.Errorf("티커가 비어 있습니다")))
	}
	symbol := NormalizeSymbol(sig.Ticker)

	// 6. 심볼 검증
	info, err := t.exchange.GetSymbolInfo(ctx, symbol)
	if err != nil {
		if errors.Is(err, exchange.ErrSymbolNotFound) {
			return nil, t.fail(NewTradeError(KindInvalidSymbol,
				fmt.Errorf("유효하지 않은 거래 쌍: %s: %w", symbol, err)))
		}
		return nil, t.fail(NewTradeError(KindTransportError, err))
	}
	if !info.Tradable {
		return nil, t.fail(NewTradeError(KindInvalidSymbol,
			fmt.Errorf("현재 거래가 중단된 심볼입니다: %s", symbol)))
	}

	// 심볼 정밀도에 맞춰 최종 수량 조정
	if info.QuantityPrecision >= 0 {
		quantity = position.RoundQuantity(quantity, info.QuantityPrecision)
	}
	if quantity <= 0 || (info.MinQuantity > 0 && quantity < info.MinQuantity) {
		return nil, t.fail(NewTradeError(KindInvalidQuantity,
			fmt.Errorf("수량 %s이(가) 최소 주문 수량 미만입니다", formatQuantity(quantity))))
	}

	// 7. 주문 실행: 브라켓 시그널은 원장을 거치고, 그 외에는 시장가 주문
	var (
		resp     *domain.OrderResponse
		warnings []string
	)
	if sig.HasBracket() {
		resp, warnings, err = t.placeBracket(ctx, sig, symbol, side, quantity)
	} else {
		resp, err = t.placeMarket(ctx, symbol, side, quantity)
	}
	if err != nil {
		return nil, t.fail(err)
	}

	// 8. 결과 정규화
	outcome := &Outcome{
		OrderID:  resp.OrderID,
		Symbol:   symbol,
		Side:     side,
		Quantity: quantity,
		Status:   resp.Status,
		Message:  fmt.Sprintf("Executed %s order for %s %s", action, formatQuantity(quantity), symbol),
		Warnings: warnings,
	}

	logger.Info("거래 실행 완료",
		zap.Int64("orderID", outcome.OrderID),
		zap.String("symbol", outcome.Symbol),
		zap.String("side", string(outcome.Side)),
		zap.Float64("quantity", outcome.Quantity),
		zap.String("status", outcome.Status))

	t.notifyTrade(sig, outcome)

	return outcome, nil
}

// resolveQuantity는 주문 수량을 결정합니다.
// 명시적 수량 > 시그널 잔고 > 거래소 잔고 조회 순서로 사용합니다.
func (t *Trader) resolveQuantity(ctx context.Context, sig *domain.Signal) (float64, error) {
	// 명시적 수량
	if sig.Quantity != 0 {
		if sig.Quantity < 0 {
			return 0, NewTradeError(KindInvalidQuantity,
				fmt.Errorf("수량은 0보다 커야 합니다: %v", sig.Quantity))
		}
		return sig.Quantity, nil
	}

	// 시그널이 제공한 잔고
	if sig.Balance != 0 {
		if sig.Balance < 0 {
			return 0, NewTradeError(KindBalanceUnavailable,
				fmt.Errorf("잔고는 0보다 커야 합니다: %v", sig.Balance))
		}
		return t.sizeFromBalance(sig.Balance)
	}

	// 거래소 잔고 조회 (거래마다 새로 조회하며 캐싱하지 않습니다)
	balances, err := t.exchange.GetBalance(ctx)
	if err != nil {
		return 0, NewTradeError(KindTransportError,
			fmt.Errorf("잔고 조회 실패: %w", err))
	}

	funding, ok := balances[t.cfg.Trading.FundingAsset]
	if !ok || funding.Available <= 0 {
		return 0, NewTradeError(KindBalanceUnavailable,
			fmt.Errorf("거래 가능한 %s 잔고가 없습니다", t.cfg.Trading.FundingAsset))
	}

	logger.Info("잔고 기반 수량 계산",
		zap.String("asset", funding.Asset),
		zap.Float64("available", funding.Available),
		zap.Float64("divisor", t.cfg.Trading.BalanceDivisor))

	return t.sizeFromBalance(funding.Available)
}

// sizeFromBalance는 잔고를 분할 계수로 나눠 수량을 계산합니다
func (t *Trader) sizeFromBalance(balance float64) (float64, error) {
	quantity, err := position.ComputeQuantity(balance,
		t.cfg.Trading.BalanceDivisor, t.cfg.Trading.QuantityPrecision)
	if err != nil {
		return 0, NewTradeError(KindBalanceUnavailable, err)
	}
	return quantity, nil
}

// placeMarket은 시장가 주문을 제출합니다
func (t *Trader) placeMarket(ctx context.Context, symbol string, side domain.OrderSide, quantity float64) (*domain.OrderResponse, error) {
	resp, err := t.exchange.PlaceOrder(ctx, domain.OrderRequest{
		Symbol:       symbol,
		Side:         side,
		PositionSide: domain.PositionSideFor(side),
		Type:         domain.Market,
		Quantity:     quantity,
	})
	if err != nil {
		return nil, mapOrderError(err)
	}
	return resp, nil
}

// placeBracket은 지정가 진입과 TP/SL 레그를 원장 경유로 제출합니다
func (t *Trader) placeBracket(ctx context.Context, sig *domain.Signal, symbol string, side domain.OrderSide, quantity float64) (*domain.OrderResponse, []string, error) {
	result, err := t.ledger.Open(ctx, domain.OrderRequest{
		Symbol:       symbol,
		Side:         side,
		PositionSide: domain.PositionSideFor(side),
		Type:         domain.Limit,
		Quantity:     quantity,
		Price:        sig.EntryPrice,
		TakeProfit:   sig.TakeProfit,
		StopLoss:     sig.StopLoss,
	})
	if err != nil {
		return nil, nil, mapOrderError(err)
	}
	return result.Order, result.Warnings, nil
}

// TestConnectivity는 자격 증명과 거래소 연결 상태를 확인합니다
func (t *Trader) TestConnectivity(ctx context.Context) bool {
	return t.cfg.HasCredentials() && t.exchange.TestConnectivity(ctx)
}

// GetAccountInfo는 계정 잔고를 조회합니다
func (t *Trader) GetAccountInfo(ctx context.Context) (map[string]domain.Balance, error) {
	if !t.cfg.HasCredentials() {
		return nil, NewTradeError(KindNotConfigured,
			fmt.Errorf("API 키가 설정되지 않았습니다"))
	}
	return t.exchange.GetBalance(ctx)
}

// fail은 실패를 로깅/알림하고 에러를 그대로 반환합니다
func (t *Trader) fail(err error) error {
	logger.Error("거래 실행 실패",
		zap.String("kind", string(KindOf(err))),
		zap.Error(err))

	if t.notifier != nil {
		if notifyErr := t.notifier.SendError(err); notifyErr != nil {
			logger.Warn("에러 알림 전송 실패", zap.Error(notifyErr))
		}
	}

	return err
}

// notifyTrade는 성공한 거래 정보를 알림으로 전송합니다
func (t *Trader) notifyTrade(sig *domain.Signal, outcome *Outcome) {
	if t.notifier == nil {
		return
	}

	info := notification.TradeInfo{
		Symbol:     outcome.Symbol,
		Side:       string(outcome.Side),
		Quantity:   outcome.Quantity,
		OrderID:    outcome.OrderID,
		Status:     outcome.Status,
		EntryPrice: sig.EntryPrice,
		StopLoss:   sig.StopLoss,
		TakeProfit: sig.TakeProfit,
	}
	if err := t.notifier.SendTradeInfo(info); err != nil {
		logger.Warn("거래 정보 알림 전송 실패", zap.Error(err))
	}
}

// mapOrderError는 주문 단계 에러를 분류합니다.
// 거래소가 코드로 거부한 경우 OrderRejected로, 그 외에는 TransportError로 분류합니다.
func mapOrderError(err error) *TradeError {
	var apiErr *exchange.APIError
	if errors.As(err, &apiErr) {
		return NewTradeError(KindOrderRejected, fmt.Errorf("%s", apiErr.Message))
	}
	return NewTradeError(KindTransportError, err)
}

// formatQuantity는 수량을 불필요한 0 없이 문자열로 변환합니다
func formatQuantity(quantity float64) string {
	return strconv.FormatFloat(quantity, 'f', -1, 64)
}
