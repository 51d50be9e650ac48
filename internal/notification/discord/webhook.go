package discord

import (
	"fmt"
	"time"

	"github.com/assist-by/relay/internal/notification"
)

// SendTradeInfo는 거래 실행 정보를 전송합니다
func (c *Client) SendTradeInfo(info notification.TradeInfo) error {
	description := fmt.Sprintf("**방향**: %s\n**수량**: %.8f\n**주문 ID**: %d\n**상태**: %s",
		info.Side, info.Quantity, info.OrderID, info.Status)

	if info.EntryPrice > 0 {
		description += fmt.Sprintf("\n**진입가**: $%.2f", info.EntryPrice)
	}
	if info.StopLoss > 0 {
		description += fmt.Sprintf("\n**손절가**: $%.2f", info.StopLoss)
	}
	if info.TakeProfit > 0 {
		description += fmt.Sprintf("\n**목표가**: $%.2f", info.TakeProfit)
	}

	embed := NewEmbed().
		SetTitle(fmt.Sprintf("거래 실행: %s", info.Symbol)).
		SetDescription(description).
		SetColor(notification.GetColorForSide(info.Side)).
		SetFooter("Assist by Trading Bot 🤖").
		SetTimestamp(time.Now())

	msg := WebhookMessage{
		Embeds: []Embed{*embed},
	}

	return c.sendToWebhook(c.tradeWebhook, msg)
}

// SendError는 에러 알림을 전송합니다
func (c *Client) SendError(err error) error {
	embed := NewEmbed().
		SetTitle("에러 발생").
		SetDescription(fmt.Sprintf("```%v```", err)).
		SetColor(notification.ColorError).
		SetFooter("Assist by Trading Bot 🤖").
		SetTimestamp(time.Now())

	msg := WebhookMessage{
		Embeds: []Embed{*embed},
	}

	return c.sendToWebhook(c.errorWebhook, msg)
}
