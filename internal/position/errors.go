package position

import "fmt"

// Error 타입들은 포지션 관리 중 발생할 수 있는 에러를 정의합니다
var (
	ErrInvalidBalance    = fmt.Errorf("잔고는 0보다 커야 합니다")
	ErrInvalidDivisor    = fmt.Errorf("분할 계수는 0보다 커야 합니다")
	ErrPositionNotFound  = fmt.Errorf("해당 방향에 포지션이 존재하지 않습니다")
	ErrOrderPlacementFail = fmt.Errorf("주문 생성에 실패했습니다")
)

// LedgerError는 포지션 원장 조작 에러를 확장한 구조체입니다
type LedgerError struct {
	Symbol string
	Op     string
	Err    error
}

// Error는 error 인터페이스를 구현합니다
func (e *LedgerError) Error() string {
	if e.Symbol != "" {
		return fmt.Sprintf("포지션 원장 에러 [%s, 작업: %s]: %v", e.Symbol, e.Op, e.Err)
	}
	return fmt.Sprintf("포지션 원장 에러 [작업: %s]: %v", e.Op, e.Err)
}

// Unwrap은 내부 에러를 반환합니다 (errors.Is/As 지원을 위함)
func (e *LedgerError) Unwrap() error {
	return e.Err
}

// NewLedgerError는 새로운 LedgerError를 생성합니다
func NewLedgerError(symbol, op string, err error) *LedgerError {
	return &LedgerError{
		Symbol: symbol,
		Op:     op,
		Err:    err,
	}
}
