package exchange

import "fmt"

// ErrSymbolNotFound는 요청한 심볼이 거래소 계약 목록에 없음을 나타냅니다
var ErrSymbolNotFound = fmt.Errorf("심볼 정보를 찾을 수 없습니다")

// APIError는 거래소가 거부한 요청의 에러 코드와 메시지를 담습니다.
// 메시지는 거래소 응답을 그대로 보존합니다.
type APIError struct {
	Code    int64
	Message string
}

// Error는 error 인터페이스를 구현합니다
func (e *APIError) Error() string {
	return fmt.Sprintf("거래소 API 에러(코드: %d): %s", e.Code, e.Message)
}
