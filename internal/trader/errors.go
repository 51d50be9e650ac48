package trader

import (
	"errors"
	"fmt"
)

// ErrorKind는 거래 실행 실패의 분류를 정의합니다.
// 코드 값은 호출자에게 그대로 노출되는 안정적인 식별자입니다.
type ErrorKind string

const (
	KindInvalidAction      ErrorKind = "InvalidAction"
	KindInvalidQuantity    ErrorKind = "InvalidQuantity"
	KindInvalidSymbol      ErrorKind = "InvalidSymbol"
	KindNotConfigured      ErrorKind = "NotConfigured"
	KindConnectionFailed   ErrorKind = "ConnectionFailed"
	KindBalanceUnavailable ErrorKind = "BalanceUnavailable"
	KindOrderRejected      ErrorKind = "OrderRejected"
	KindTransportError     ErrorKind = "TransportError"
)

// TradeError는 거래 실행 실패를 분류와 함께 표현합니다.
// 거래소가 거부한 경우 내부 에러에 거래소 메시지가 그대로 보존됩니다.
type TradeError struct {
	Kind ErrorKind
	Err  error
}

// Error는 error 인터페이스를 구현합니다
func (e *TradeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

// Unwrap은 내부 에러를 반환합니다 (errors.Is/As 지원을 위함)
func (e *TradeError) Unwrap() error {
	return e.Err
}

// NewTradeError는 새로운 TradeError를 생성합니다
func NewTradeError(kind ErrorKind, err error) *TradeError {
	return &TradeError{Kind: kind, Err: err}
}

// KindOf는 에러에서 분류를 추출합니다.
// TradeError가 아니면 TransportError로 간주합니다.
func KindOf(err error) ErrorKind {
	var tradeErr *TradeError
	if errors.As(err, &tradeErr) {
		return tradeErr.Kind
	}
	return KindTransportError
}
