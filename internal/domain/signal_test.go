package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAction(t *testing.T) {
	tests := []struct {
		name     string
		action   string
		expected string
		valid    bool
	}{
		{"소문자 buy", "buy", "BUY", true},
		{"대문자 SELL", "SELL", "SELL", true},
		{"혼합 케이스", "Buy", "BUY", true},
		{"공백 포함", "  sell  ", "SELL", true},
		{"허용되지 않는 액션", "hold", "HOLD", false},
		{"빈 문자열", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			normalized := NormalizeAction(tt.action)
			assert.Equal(t, tt.expected, normalized)
			assert.Equal(t, tt.valid, IsValidAction(normalized))
		})
	}
}

func TestSignalHasBracket(t *testing.T) {
	tests := []struct {
		name     string
		signal   Signal
		expected bool
	}{
		{
			name: "진입가와 TP/SL이 모두 있으면 브라켓",
			signal: Signal{
				EntryPrice: 50000,
				TakeProfit: 55000,
				StopLoss:   48000,
			},
			expected: true,
		},
		{
			name:     "가격 정보가 없으면 시장가",
			signal:   Signal{},
			expected: false,
		},
		{
			name: "손절가가 빠지면 시장가",
			signal: Signal{
				EntryPrice: 50000,
				TakeProfit: 55000,
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.signal.HasBracket())
		})
	}
}

func TestPositionSides(t *testing.T) {
	assert.Equal(t, LongPosition, PositionSideFor(Buy))
	assert.Equal(t, ShortPosition, PositionSideFor(Sell))
	assert.Equal(t, ShortPosition, LongPosition.Opposite())
	assert.Equal(t, LongPosition, ShortPosition.Opposite())
	assert.Equal(t, Sell, ExitSideFor(LongPosition))
	assert.Equal(t, Buy, ExitSideFor(ShortPosition))
}
