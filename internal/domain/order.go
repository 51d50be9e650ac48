package domain

import "time"

// OrderRequest는 주문 요청 정보를 표현합니다
type OrderRequest struct {
	Symbol       string       // 심볼 (예: BTC-USDT)
	Side         OrderSide    // 매수/매도
	PositionSide PositionSide // 롱/숏 포지션
	Type         OrderType    // 주문 유형 (시장가, 지정가 등)
	Quantity     float64      // 수량
	Price        float64      // 지정가 (Limit 주문 시)
	TakeProfit   float64      // 익절가 (브라켓 주문 시)
	StopLoss     float64      // 손절가 (브라켓 주문 시)
}

// OrderResponse는 주문 응답을 표현합니다
type OrderResponse struct {
	OrderID      int64        // 주문 ID
	Symbol       string       // 심볼
	Status       string       // 주문 상태
	Side         OrderSide    // 매수/매도
	PositionSide PositionSide // 롱/숏 포지션
	Type         OrderType    // 주문 유형
	Quantity     float64      // 주문 수량
	Price        float64      // 주문 가격
	TakeProfit   float64      // 익절가
	StopLoss     float64      // 손절가
	CreateTime   time.Time    // 주문 생성 시간
}

// SymbolInfo는 심볼의 거래 정보를 나타냅니다
type SymbolInfo struct {
	Symbol            string  // 심볼 이름 (예: BTC-USDT)
	Asset             string  // 기초 자산 (예: BTC)
	Currency          string  // 결제 자산 (예: USDT)
	PricePrecision    int     // 가격 소수점 자릿수
	QuantityPrecision int     // 수량 소수점 자릿수
	MinQuantity       float64 // 최소 주문 수량
	Tradable          bool    // 거래 가능 여부
}
