// internal/exchange/exchange.go
package exchange

import (
	"context"
	"time"

	"github.com/assist-by/relay/internal/domain"
)

// Exchange는 거래소와의 상호작용을 위한 인터페이스입니다.
type Exchange interface {
	// 연결/시간
	TestConnectivity(ctx context.Context) bool
	GetServerTime(ctx context.Context) (time.Time, error)

	// 계정/시장 데이터 조회
	GetBalance(ctx context.Context) (map[string]domain.Balance, error)
	GetSymbolInfo(ctx context.Context, symbol string) (*domain.SymbolInfo, error)

	// 거래 기능
	PlaceOrder(ctx context.Context, order domain.OrderRequest) (*domain.OrderResponse, error)
	CancelOrder(ctx context.Context, symbol string, orderID int64) error
	ClosePosition(ctx context.Context, symbol string, positionSide domain.PositionSide) error
	AmendTakeProfit(ctx context.Context, symbol string, orderID int64, takeProfit float64) error
}
