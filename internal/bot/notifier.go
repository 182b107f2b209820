package bot

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mango082888-bit/tg-stock-monitor/internal/models"
	"github.com/mango082888-bit/tg-stock-monitor/internal/monitor"
	"github.com/mango082888-bit/tg-stock-monitor/internal/store"
)

// TelegramNotifier fans stock transition events out to every bound target
// chat. Targets are independent: one failed delivery is logged and the rest
// still go out.
type TelegramNotifier struct {
	api   *tgbotapi.BotAPI
	store *store.Store
}

func NewNotifier(api *tgbotapi.BotAPI, st *store.Store) *TelegramNotifier {
	return &TelegramNotifier{api: api, store: st}
}

func (n *TelegramNotifier) Notify(ev monitor.Event) {
	text := formatEvent(ev)
	for _, t := range n.store.Targets() {
		msg := tgbotapi.NewMessage(t.ChatID, text)
		msg.ParseMode = "Markdown"
		msg.DisableWebPagePreview = true
		if _, err := n.api.Send(msg); err != nil {
			log.Printf("Notify %s (%d) failed: %v", t.Title, t.ChatID, err)
		}
	}
}

func formatEvent(ev monitor.Event) string {
	tag := "#Restock"
	status := "✅ In stock"
	if !ev.Restock {
		tag = "#OutOfStock"
		status = "❌ Out of stock"
	}

	p := ev.Product
	specsLine := ""
	if p.Specs != "" {
		specsLine = fmt.Sprintf("⚙️ %s\n", p.Specs)
	}
	couponLine := ""
	if p.Coupon != "" {
		couponLine = fmt.Sprintf("🎫 Coupon: `%s`\n", p.Coupon)
	}

	return fmt.Sprintf(
		"#StockMonitor %s\n\n*%s*\n%s\n💰 %s\n%s%s\n🔗 [Order now](%s)\n\n%s %s",
		tag, p.Merchant, p.Name, p.Price, specsLine, couponLine, p.URL,
		ev.Time.Format(models.TimeFormat), status,
	)
}
