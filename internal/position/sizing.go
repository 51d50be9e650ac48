package position

import (
	"github.com/shopspring/decimal"
)

// ComputeQuantity는 잔고를 분할 계수로 나눠 주문 수량을 계산합니다.
// 수량은 precision 소수점 자릿수로 은행가 반올림(half-to-even)합니다.
// 잔고가 0 이하이면 ErrInvalidBalance를 반환합니다.
func ComputeQuantity(balance, divisor float64, precision int) (float64, error) {
	if balance <= 0 {
		return 0, ErrInvalidBalance
	}
	if divisor <= 0 {
		return 0, ErrInvalidDivisor
	}

	quantity := decimal.NewFromFloat(balance).
		Div(decimal.NewFromFloat(divisor)).
		RoundBank(int32(precision))

	result, _ := quantity.Float64()
	return result, nil
}

// RoundQuantity는 수량을 지정한 소수점 자릿수로 은행가 반올림합니다.
// 심볼 정보가 자체 정밀도를 제공할 때 최종 수량 조정에 사용합니다.
func RoundQuantity(quantity float64, precision int) float64 {
	result, _ := decimal.NewFromFloat(quantity).
		RoundBank(int32(precision)).
		Float64()
	return result
}
