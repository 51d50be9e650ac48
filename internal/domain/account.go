package domain

// Balance는 계정 잔고 정보를 표현합니다.
// 거래마다 새로 조회하는 스냅샷이며 캐싱하지 않습니다.
type Balance struct {
	Asset     string  // 자산 심볼 (예: USDT)
	Available float64 // 사용 가능한 잔고
	Locked    float64 // 주문 등에 잠긴 잔고
}
