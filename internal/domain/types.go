package domain

// OrderSide는 주문 방향을 정의합니다
type OrderSide string

const (
	Buy  OrderSide = "BUY"
	Sell OrderSide = "SELL"
)

// PositionSide는 포지션 방향을 정의합니다
type PositionSide string

const (
	LongPosition  PositionSide = "LONG"
	ShortPosition PositionSide = "SHORT"
)

// Opposite는 반대쪽 포지션 방향을 반환합니다
func (p PositionSide) Opposite() PositionSide {
	if p == LongPosition {
		return ShortPosition
	}
	return LongPosition
}

// PositionSideFor는 주문 방향에 대응하는 포지션 방향을 반환합니다
func PositionSideFor(side OrderSide) PositionSide {
	if side == Buy {
		return LongPosition
	}
	return ShortPosition
}

// ExitSideFor는 포지션 청산을 위한 주문 방향을 반환합니다
func ExitSideFor(positionSide PositionSide) OrderSide {
	if positionSide == LongPosition {
		return Sell
	}
	return Buy
}

// OrderType은 주문 유형을 정의합니다
type OrderType string

const (
	Market           OrderType = "MARKET"
	Limit            OrderType = "LIMIT"
	StopMarket       OrderType = "STOP_MARKET"
	TakeProfitMarket OrderType = "TAKE_PROFIT_MARKET"
)

// OrderStatus는 주문 상태 값을 정의합니다
const (
	StatusNew      = "NEW"
	StatusFilled   = "FILLED"
	StatusCanceled = "CANCELED"
)
