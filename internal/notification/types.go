package notification

// 임베드 색상 상수
const (
	ColorSuccess = 0x00FF00 // 녹색
	ColorError   = 0xFF0000 // 빨간색
	ColorInfo    = 0x0099FF // 파란색
)

// Notifier는 알림 전송 인터페이스를 정의합니다
type Notifier interface {
	// SendTradeInfo는 거래 실행 정보를 전송합니다
	SendTradeInfo(info TradeInfo) error

	// SendError는 에러 알림을 전송합니다
	SendError(err error) error
}

// TradeInfo는 거래 실행 정보를 정의합니다
type TradeInfo struct {
	Symbol     string  // 심볼 (예: BTC-USDT)
	Side       string  // "BUY" or "SELL"
	Quantity   float64 // 주문 수량
	OrderID    int64   // 거래소 주문 ID
	Status     string  // 주문 상태
	EntryPrice float64 // 진입가 (지정가 주문 시)
	StopLoss   float64 // 손절가
	TakeProfit float64 // 익절가
}

// GetColorForSide는 주문 방향에 따른 색상을 반환합니다
func GetColorForSide(side string) int {
	switch side {
	case "BUY":
		return ColorSuccess
	case "SELL":
		return ColorError
	default:
		return ColorInfo
	}
}
