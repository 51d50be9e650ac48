package domain

import (
	"strings"
	"time"
)

// Signal은 차트/알림 플랫폼에서 수신한 거래 시그널을 표현합니다.
// 수신 후에는 변경하지 않습니다.
type Signal struct {
	Action     string    // BUY 또는 SELL (수신 시 대문자로 정규화)
	Ticker     string    // 거래 쌍 (예: BTC-USDT)
	Balance    float64   // 선택: 외부에서 제공한 잔고 (0이면 미지정)
	Quantity   float64   // 선택: 명시적 주문 수량 (0이면 잔고 기반 계산)
	EntryPrice float64   // 선택: 진입 지정가
	TakeProfit float64   // 선택: 익절가
	StopLoss   float64   // 선택: 손절가
	ReceivedAt time.Time // 수신 시간
}

// NormalizeAction은 액션 문자열을 대문자로 정규화합니다
func NormalizeAction(action string) string {
	return strings.ToUpper(strings.TrimSpace(action))
}

// IsValidAction은 액션이 BUY 또는 SELL인지 확인합니다
func IsValidAction(action string) bool {
	return action == string(Buy) || action == string(Sell)
}

// Side는 시그널의 주문 방향을 반환합니다
func (s *Signal) Side() OrderSide {
	return OrderSide(s.Action)
}

// HasBracket은 시그널이 브라켓(지정가 진입 + TP/SL) 주문 정보를
// 모두 포함하는지 확인합니다
func (s *Signal) HasBracket() bool {
	return s.EntryPrice > 0 && s.TakeProfit > 0 && s.StopLoss > 0
}
