package position

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/assist-by/relay/internal/domain"
	"github.com/assist-by/relay/internal/exchange"
	"github.com/assist-by/relay/pkg/logger"
)

// Order는 포지션에 속한 개별 주문을 표현합니다
type Order struct {
	OrderID    int64
	Symbol     string
	Side       domain.OrderSide
	Quantity   float64
	TakeProfit float64
	StopLoss   float64
}

// Position은 같은 방향(LONG/SHORT)의 주문들을 묶은 포지션입니다.
// TakeProfit은 항상 가장 최근에 제출된 멤버 주문의 익절가와 같습니다.
type Position struct {
	Symbol     string
	Side       domain.PositionSide
	TakeProfit float64
	Orders     []Order
}

// OpenResult는 포지션 진입 결과를 담습니다.
// Warnings에는 반대 포지션 정리나 익절가 전파 중 발생한
// 비치명적 실패가 기록됩니다.
type OpenResult struct {
	Order    *domain.OrderResponse
	Warnings []string
}

// Ledger는 방향별로 최대 하나의 열린 포지션을 추적하는 인메모리 원장입니다.
// 모든 변경은 뮤텍스로 직렬화되어 동시 시그널에서도
// "방향당 최대 하나의 포지션" 불변식을 유지합니다.
// 프로세스 재시작 시 상태는 보존되지 않습니다.
type Ledger struct {
	mu       sync.Mutex
	exchange exchange.Exchange
	slots    map[domain.PositionSide]*Position
}

// NewLedger는 새로운 포지션 원장을 생성합니다
func NewLedger(ex exchange.Exchange) *Ledger {
	return &Ledger{
		exchange: ex,
		slots:    make(map[domain.PositionSide]*Position),
	}
}

// Open은 새 주문으로 포지션을 진입/확장합니다.
// 1. 반대 방향 포지션이 있으면 모든 멤버 주문을 최선 노력으로 정리한 뒤 슬롯을 비웁니다.
// 2. 새 주문을 거래소에 제출합니다. 실패 시 원장은 변경되지 않습니다.
// 3. 같은 방향 포지션이 있으면 주문을 추가하고 익절가를 마지막 값으로 통합하여
//    이미 열린 멤버 주문들에 전파합니다. 없으면 새 포지션을 생성합니다.
func (l *Ledger) Open(ctx context.Context, order domain.OrderRequest) (*OpenResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var warnings []string

	// 1. 반대 방향 포지션 정리
	opposite := order.PositionSide.Opposite()
	if existing, ok := l.slots[opposite]; ok {
		warnings = append(warnings, l.closeLocked(ctx, existing)...)
		delete(l.slots, opposite)
	}

	// 2. 새 주문 제출
	resp, err := l.exchange.PlaceOrder(ctx, order)
	if err != nil {
		return nil, NewLedgerError(order.Symbol, "place_order", err)
	}

	member := Order{
		OrderID:    resp.OrderID,
		Symbol:     resp.Symbol,
		Side:       order.Side,
		Quantity:   resp.Quantity,
		TakeProfit: order.TakeProfit,
		StopLoss:   order.StopLoss,
	}

	// 3. 슬롯 갱신
	pos, ok := l.slots[order.PositionSide]
	if !ok {
		l.slots[order.PositionSide] = &Position{
			Symbol:     order.Symbol,
			Side:       order.PositionSide,
			TakeProfit: order.TakeProfit,
			Orders:     []Order{member},
		}
		return &OpenResult{Order: resp, Warnings: warnings}, nil
	}

	// 익절가 통합: 마지막으로 제출된 값이 이깁니다
	if order.TakeProfit > 0 {
		for i := range pos.Orders {
			prev := &pos.Orders[i]
			if err := l.exchange.AmendTakeProfit(ctx, prev.Symbol, prev.OrderID, order.TakeProfit); err != nil {
				warning := fmt.Sprintf("익절가 전파 실패 (주문 ID: %d): %v", prev.OrderID, err)
				logger.Warn("익절가 전파 실패",
					zap.Int64("orderID", prev.OrderID),
					zap.Float64("takeProfit", order.TakeProfit),
					zap.Error(err))
				warnings = append(warnings, warning)
			}
			prev.TakeProfit = order.TakeProfit
		}
		pos.TakeProfit = order.TakeProfit
	}

	pos.Orders = append(pos.Orders, member)

	return &OpenResult{Order: resp, Warnings: warnings}, nil
}

// closeLocked는 포지션의 모든 멤버 주문을 취소하고 해당 방향을 청산합니다.
// 개별 실패는 치명적이지 않으며 경고 목록으로 수집됩니다.
// 호출자가 뮤텍스를 보유해야 합니다.
func (l *Ledger) closeLocked(ctx context.Context, pos *Position) []string {
	var warnings []string

	for _, member := range pos.Orders {
		if err := l.exchange.CancelOrder(ctx, member.Symbol, member.OrderID); err != nil {
			warning := fmt.Sprintf("반대 포지션 주문 취소 실패 (주문 ID: %d): %v", member.OrderID, err)
			logger.Warn("반대 포지션 주문 취소 실패",
				zap.String("symbol", member.Symbol),
				zap.Int64("orderID", member.OrderID),
				zap.Error(err))
			warnings = append(warnings, warning)
		}
	}

	if err := l.exchange.ClosePosition(ctx, pos.Symbol, pos.Side); err != nil {
		warning := fmt.Sprintf("반대 포지션 청산 실패 (%s %s): %v", pos.Symbol, pos.Side, err)
		logger.Warn("반대 포지션 청산 실패",
			zap.String("symbol", pos.Symbol),
			zap.String("side", string(pos.Side)),
			zap.Error(err))
		warnings = append(warnings, warning)
	}

	return warnings
}

// CloseSide는 특정 방향의 포지션을 청산하고 슬롯을 비웁니다.
// 포지션이 없으면 ErrPositionNotFound를 반환합니다.
func (l *Ledger) CloseSide(ctx context.Context, side domain.PositionSide) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	pos, ok := l.slots[side]
	if !ok {
		return nil, NewLedgerError("", "close_side", ErrPositionNotFound)
	}

	warnings := l.closeLocked(ctx, pos)
	delete(l.slots, side)
	return warnings, nil
}

// Active는 특정 방향의 열린 포지션 사본을 반환합니다. 없으면 nil입니다.
func (l *Ledger) Active(side domain.PositionSide) *Position {
	l.mu.Lock()
	defer l.mu.Unlock()

	pos, ok := l.slots[side]
	if !ok {
		return nil
	}

	copied := &Position{
		Symbol:     pos.Symbol,
		Side:       pos.Side,
		TakeProfit: pos.TakeProfit,
		Orders:     make([]Order, len(pos.Orders)),
	}
	copy(copied.Orders, pos.Orders)
	return copied
}
