package position

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assist-by/relay/internal/domain"
)

// fakeExchange는 테스트용 거래소 구현입니다
type fakeExchange struct {
	mu          sync.Mutex
	nextOrderID int64
	placed      []domain.OrderRequest
	canceled    []int64
	closedSides []domain.PositionSide
	amended     map[int64]float64

	placeErr  error
	cancelErr error
	closeErr  error
	amendErr  error
}

func newFakeExchange() *fakeExchange {
	return &fakeExchange{amended: make(map[int64]float64)}
}

func (f *fakeExchange) TestConnectivity(ctx context.Context) bool { return true }

func (f *fakeExchange) GetServerTime(ctx context.Context) (time.Time, error) {
	return time.Now(), nil
}

func (f *fakeExchange) GetBalance(ctx context.Context) (map[string]domain.Balance, error) {
	return map[string]domain.Balance{
		"USDT": {Asset: "USDT", Available: 700},
	}, nil
}

func (f *fakeExchange) GetSymbolInfo(ctx context.Context, symbol string) (*domain.SymbolInfo, error) {
	return &domain.SymbolInfo{Symbol: symbol, QuantityPrecision: 6, Tradable: true}, nil
}

func (f *fakeExchange) PlaceOrder(ctx context.Context, order domain.OrderRequest) (*domain.OrderResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.placeErr != nil {
		return nil, f.placeErr
	}

	f.nextOrderID++
	f.placed = append(f.placed, order)
	return &domain.OrderResponse{
		OrderID:      f.nextOrderID,
		Symbol:       order.Symbol,
		Status:       domain.StatusNew,
		Side:         order.Side,
		PositionSide: order.PositionSide,
		Type:         order.Type,
		Quantity:     order.Quantity,
		Price:        order.Price,
		TakeProfit:   order.TakeProfit,
		StopLoss:     order.StopLoss,
		CreateTime:   time.Now(),
	}, nil
}

func (f *fakeExchange) CancelOrder(ctx context.Context, symbol string, orderID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.canceled = append(f.canceled, orderID)
	return nil
}

func (f *fakeExchange) ClosePosition(ctx context.Context, symbol string, positionSide domain.PositionSide) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closeErr != nil {
		return f.closeErr
	}
	f.closedSides = append(f.closedSides, positionSide)
	return nil
}

func (f *fakeExchange) AmendTakeProfit(ctx context.Context, symbol string, orderID int64, takeProfit float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.amendErr != nil {
		return f.amendErr
	}
	f.amended[orderID] = takeProfit
	return nil
}

// bracketOrder는 테스트용 브라켓 주문 요청을 생성합니다
func bracketOrder(side domain.OrderSide, takeProfit float64) domain.OrderRequest {
	return domain.OrderRequest{
		Symbol:       "BTC-USDT",
		Side:         side,
		PositionSide: domain.PositionSideFor(side),
		Type:         domain.Limit,
		Quantity:     1,
		Price:        50000,
		TakeProfit:   takeProfit,
		StopLoss:     48000,
	}
}

func TestLedger_Open(t *testing.T) {
	ctx := context.Background()

	t.Run("첫 진입은 새 포지션을 생성", func(t *testing.T) {
		fake := newFakeExchange()
		ledger := NewLedger(fake)

		result, err := ledger.Open(ctx, bracketOrder(domain.Buy, 55000))
		require.NoError(t, err)
		assert.Empty(t, result.Warnings)

		pos := ledger.Active(domain.LongPosition)
		require.NotNil(t, pos)
		assert.Len(t, pos.Orders, 1)
		assert.Equal(t, 55000.0, pos.TakeProfit)
		assert.Nil(t, ledger.Active(domain.ShortPosition))
	})

	t.Run("같은 방향 추가 진입은 익절가를 통합", func(t *testing.T) {
		fake := newFakeExchange()
		ledger := NewLedger(fake)

		_, err := ledger.Open(ctx, bracketOrder(domain.Buy, 55000))
		require.NoError(t, err)
		_, err = ledger.Open(ctx, bracketOrder(domain.Buy, 57000))
		require.NoError(t, err)

		pos := ledger.Active(domain.LongPosition)
		require.NotNil(t, pos)
		require.Len(t, pos.Orders, 2)

		// 모든 멤버 주문이 마지막 익절가를 보고해야 합니다
		assert.Equal(t, 57000.0, pos.TakeProfit)
		for _, order := range pos.Orders {
			assert.Equal(t, 57000.0, order.TakeProfit)
		}

		// 이미 열려 있던 첫 주문에만 익절가 변경이 전파됩니다
		assert.Equal(t, map[int64]float64{1: 57000}, fake.amended)
	})

	t.Run("반대 방향 진입은 기존 포지션을 먼저 정리", func(t *testing.T) {
		fake := newFakeExchange()
		ledger := NewLedger(fake)

		_, err := ledger.Open(ctx, bracketOrder(domain.Buy, 55000))
		require.NoError(t, err)
		_, err = ledger.Open(ctx, bracketOrder(domain.Buy, 56000))
		require.NoError(t, err)

		result, err := ledger.Open(ctx, bracketOrder(domain.Sell, 45000))
		require.NoError(t, err)
		assert.Empty(t, result.Warnings)

		// LONG 슬롯은 비워지고 멤버 주문은 모두 취소됩니다
		assert.Nil(t, ledger.Active(domain.LongPosition))
		assert.ElementsMatch(t, []int64{1, 2}, fake.canceled)
		assert.Equal(t, []domain.PositionSide{domain.LongPosition}, fake.closedSides)

		short := ledger.Active(domain.ShortPosition)
		require.NotNil(t, short)
		assert.Len(t, short.Orders, 1)
	})

	t.Run("반대 포지션 정리 실패는 새 진입을 막지 않음", func(t *testing.T) {
		fake := newFakeExchange()
		ledger := NewLedger(fake)

		_, err := ledger.Open(ctx, bracketOrder(domain.Buy, 55000))
		require.NoError(t, err)

		fake.cancelErr = assert.AnError
		fake.closeErr = assert.AnError

		result, err := ledger.Open(ctx, bracketOrder(domain.Sell, 45000))
		require.NoError(t, err)

		// 정리 실패는 경고로 수집되고 슬롯은 비워집니다
		assert.Len(t, result.Warnings, 2)
		assert.Nil(t, ledger.Active(domain.LongPosition))
		assert.NotNil(t, ledger.Active(domain.ShortPosition))
	})

	t.Run("주문 실패 시 원장은 변경되지 않음", func(t *testing.T) {
		fake := newFakeExchange()
		ledger := NewLedger(fake)

		fake.placeErr = assert.AnError

		_, err := ledger.Open(ctx, bracketOrder(domain.Buy, 55000))
		require.Error(t, err)

		var ledgerErr *LedgerError
		require.ErrorAs(t, err, &ledgerErr)
		assert.Equal(t, "place_order", ledgerErr.Op)
		assert.Nil(t, ledger.Active(domain.LongPosition))
	})

	t.Run("익절가 전파 실패는 경고로 수집", func(t *testing.T) {
		fake := newFakeExchange()
		ledger := NewLedger(fake)

		_, err := ledger.Open(ctx, bracketOrder(domain.Buy, 55000))
		require.NoError(t, err)

		fake.amendErr = assert.AnError

		result, err := ledger.Open(ctx, bracketOrder(domain.Buy, 57000))
		require.NoError(t, err)
		assert.Len(t, result.Warnings, 1)

		// 전파 실패와 무관하게 원장의 익절가는 최신 값을 유지합니다
		pos := ledger.Active(domain.LongPosition)
		require.NotNil(t, pos)
		assert.Equal(t, 57000.0, pos.TakeProfit)
	})
}

// TestLedger_SingleSideInvariant는 어떤 시그널 순서에서도
// 한 시점에 한 방향만 포지션을 보유하는 불변식을 검증합니다
func TestLedger_SingleSideInvariant(t *testing.T) {
	ctx := context.Background()
	fake := newFakeExchange()
	ledger := NewLedger(fake)

	sequence := []struct {
		side domain.OrderSide
		tp   float64
	}{
		{domain.Buy, 55000},
		{domain.Buy, 56000},
		{domain.Sell, 45000},
		{domain.Sell, 44000},
		{domain.Buy, 58000},
		{domain.Sell, 43000},
	}

	for _, step := range sequence {
		_, err := ledger.Open(ctx, bracketOrder(step.side, step.tp))
		require.NoError(t, err)

		long := ledger.Active(domain.LongPosition)
		short := ledger.Active(domain.ShortPosition)
		assert.False(t, long != nil && short != nil,
			"LONG과 SHORT 포지션이 동시에 존재하면 안 됩니다")

		target := domain.PositionSideFor(step.side)
		assert.NotNil(t, ledger.Active(target))
		assert.Nil(t, ledger.Active(target.Opposite()))
	}
}

func TestLedger_CloseSide(t *testing.T) {
	ctx := context.Background()

	t.Run("포지션 청산 후 슬롯이 비워짐", func(t *testing.T) {
		fake := newFakeExchange()
		ledger := NewLedger(fake)

		_, err := ledger.Open(ctx, bracketOrder(domain.Buy, 55000))
		require.NoError(t, err)

		warnings, err := ledger.CloseSide(ctx, domain.LongPosition)
		require.NoError(t, err)
		assert.Empty(t, warnings)
		assert.Nil(t, ledger.Active(domain.LongPosition))
	})

	t.Run("포지션이 없으면 에러", func(t *testing.T) {
		ledger := NewLedger(newFakeExchange())

		_, err := ledger.CloseSide(ctx, domain.ShortPosition)
		assert.ErrorIs(t, err, ErrPositionNotFound)
	})
}
