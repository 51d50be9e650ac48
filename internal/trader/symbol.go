package trader

import "strings"

// 하이픈 누락 시 분리 기준이 되는 결제 자산들
var quoteAssets = []string{"USDT", "USDC", "BUSD"}

// NormalizeSymbol은 티커를 BingX 무기한 계약 심볼 형식(BASE-QUOTE)으로
// 정규화합니다. 예: "btc/usdt", "BTC_USDT", "BTCUSDT" -> "BTC-USDT".
// 정규화 규칙은 이 경계에서만 적용합니다.
func NormalizeSymbol(ticker string) string {
	symbol := strings.ToUpper(strings.TrimSpace(ticker))
	symbol = strings.ReplaceAll(symbol, "/", "-")
	symbol = strings.ReplaceAll(symbol, "_", "-")

	// 구분자가 없으면 알려진 결제 자산 앞에 하이픈을 삽입합니다
	if !strings.Contains(symbol, "-") {
		for _, quote := range quoteAssets {
			if strings.HasSuffix(symbol, quote) && len(symbol) > len(quote) {
				symbol = symbol[:len(symbol)-len(quote)] + "-" + quote
				break
			}
		}
	}

	return symbol
}
