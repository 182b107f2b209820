package bot

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mango082888-bit/tg-stock-monitor/internal/models"
	"github.com/mango082888-bit/tg-stock-monitor/internal/monitor"
	"github.com/mango082888-bit/tg-stock-monitor/internal/store"
)

func stockGlyph(inStock bool) string {
	if inStock {
		return "✅"
	}
	return "❌"
}

// SetupCommands runs the command loop until the updates channel closes.
// Everything except /start and /help is restricted to the configured admin.
func SetupCommands(api *tgbotapi.BotAPI, st *store.Store, mon *monitor.Monitor, parser monitor.Parser, adminID int64) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := api.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil || update.Message.From == nil || update.Message.Text == "" {
			continue
		}

		parts := strings.Fields(update.Message.Text)
		if len(parts) == 0 {
			continue
		}
		command := strings.ToLower(parts[0])
		// Strip @botname on group commands.
		if idx := strings.Index(command, "@"); idx > 0 {
			command = command[:idx]
		}

		isPublic := command == "/start" || command == "/help"
		if !isPublic && update.Message.From.ID != adminID {
			reply(api, update.Message.Chat.ID, "⛔ You are not authorized to use this bot.")
			continue
		}

		switch command {
		case "/start", "/help":
			handleHelp(api, update.Message.Chat.ID)
		case "/add":
			handleAdd(api, update.Message, st, parser)
		case "/list":
			handleList(api, update.Message.Chat.ID, st)
		case "/remove":
			handleRemove(api, update.Message, st)
		case "/check":
			handleCheck(api, update.Message, mon)
		case "/bind":
			handleBind(api, update.Message, st)
		case "/targets":
			handleTargets(api, update.Message.Chat.ID, st)
		case "/unbind":
			handleUnbind(api, update.Message, st)
		case "/interval":
			handleInterval(api, update.Message, mon)
		case "/status":
			handleStatus(api, update.Message.Chat.ID, st, mon)
		default:
			reply(api, update.Message.Chat.ID, "Unknown command. Use /help to see available commands.")
		}
	}
}

func reply(api *tgbotapi.BotAPI, chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := api.Send(msg); err != nil {
		log.Printf("Send to %d failed: %v", chatID, err)
	}
}

func handleHelp(api *tgbotapi.BotAPI, chatID int64) {
	helpText := `🤖 <b>Stock Monitor Bot</b>

<b>Commands:</b>

<b>/add &lt;url&gt; [coupon]</b> - Track a product page
Example: /add https://shop.example.com/store/basic-vps CODE20

<b>/list</b> - List tracked products
<b>/remove &lt;id&gt;</b> - Stop tracking a product
<b>/check &lt;id&gt;</b> - Check a product right now

<b>/bind</b> - Send notifications to this chat
<b>/targets</b> - List notification targets
<b>/unbind &lt;n&gt;</b> - Remove notification target n

<b>/interval &lt;seconds&gt;</b> - Set check interval (30/60/120/300)
<b>/status</b> - Monitor status

<b>/help</b> - Show this message
`

	msg := tgbotapi.NewMessage(chatID, helpText)
	msg.ParseMode = "HTML"
	if _, err := api.Send(msg); err != nil {
		log.Printf("Send help failed: %v", err)
		msg.ParseMode = ""
		api.Send(msg)
	}
}

func handleAdd(api *tgbotapi.BotAPI, message *tgbotapi.Message, st *store.Store, parser monitor.Parser) {
	parts := strings.Fields(message.Text)
	if len(parts) < 2 {
		reply(api, message.Chat.ID, "❌ Usage: /add <url> [coupon]")
		return
	}
	url := parts[1]
	coupon := ""
	if len(parts) > 2 {
		coupon = parts[2]
	}

	reply(api, message.Chat.ID, "🔍 Parsing...")

	recs, err := parser.ParseProduct(context.Background(), url)
	if err != nil || len(recs) == 0 {
		log.Printf("Add failed for %s: %v", url, err)
		reply(api, message.Chat.ID, "❌ Could not parse that page.")
		return
	}

	// Multi-product results (category or region expansion) are tracked as
	// one product per record, each under its own URL.
	var added []models.Product
	for _, rec := range recs {
		productURL := url
		if rec.URL != "" {
			productURL = rec.URL
		}
		added = append(added, st.AddProduct(productURL, coupon, rec, message.Time()))
	}

	if len(added) == 1 {
		p := added[0]
		couponText := coupon
		if couponText == "" {
			couponText = "none"
		}
		reply(api, message.Chat.ID, fmt.Sprintf(
			"✅ Added\n\n🏪 %s\n📦 %s\n💰 %s\n🎫 %s\n📊 %s\n🔢 ID: %d",
			p.Merchant, p.Name, p.Price, couponText, stockGlyph(p.InStock), p.ID,
		))
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✅ Added %d products\n\n", len(added))
	for _, p := range added {
		fmt.Fprintf(&b, "%d %s %s - %s\n", p.ID, stockGlyph(p.InStock), p.Name, p.Price)
	}
	reply(api, message.Chat.ID, b.String())
}

func handleList(api *tgbotapi.BotAPI, chatID int64, st *store.Store) {
	products := st.Products()
	if len(products) == 0 {
		reply(api, chatID, "📭 No products tracked. Use /add <url> to start.")
		return
	}

	var b strings.Builder
	b.WriteString("📋 Tracked products\n\n")
	for _, p := range products {
		coupon := ""
		if p.Coupon != "" {
			coupon = " 🎫" + p.Coupon
		}
		fmt.Fprintf(&b, "%d %s %s\n   %s%s\n   💰 %s\n\n", p.ID, stockGlyph(p.InStock), p.Merchant, p.Name, coupon, p.Price)
	}
	reply(api, chatID, b.String())
}

func handleRemove(api *tgbotapi.BotAPI, message *tgbotapi.Message, st *store.Store) {
	id, ok := parseIDArg(api, message)
	if !ok {
		return
	}
	p, ok := st.RemoveProduct(id)
	if !ok {
		reply(api, message.Chat.ID, fmt.Sprintf("❌ Product %d not found.", id))
		return
	}
	reply(api, message.Chat.ID, fmt.Sprintf("✅ Removed: %s", p.Name))
}

func handleCheck(api *tgbotapi.BotAPI, message *tgbotapi.Message, mon *monitor.Monitor) {
	id, ok := parseIDArg(api, message)
	if !ok {
		return
	}

	reply(api, message.Chat.ID, "🔍 Checking...")

	p, err := mon.CheckNow(context.Background(), id)
	if err != nil {
		log.Printf("Manual check %d failed: %v", id, err)
		reply(api, message.Chat.ID, "❌ Check failed.")
		return
	}
	reply(api, message.Chat.ID, fmt.Sprintf(
		"📊 Check result\n\nProduct: %s\nPrice: %s\nStatus: %s",
		p.Name, p.Price, stockGlyph(p.InStock),
	))
}

func handleBind(api *tgbotapi.BotAPI, message *tgbotapi.Message, st *store.Store) {
	chat := message.Chat
	title := chat.Title
	if title == "" {
		title = strings.TrimSpace(chat.FirstName + " " + chat.LastName)
	}
	if title == "" {
		title = strconv.FormatInt(chat.ID, 10)
	}

	if !st.AddTarget(models.Target{ChatID: chat.ID, Title: title}) {
		reply(api, chat.ID, "⚠️ This chat is already bound.")
		return
	}
	reply(api, chat.ID, fmt.Sprintf("✅ Bound: %s", title))
}

func handleTargets(api *tgbotapi.BotAPI, chatID int64, st *store.Store) {
	targets := st.Targets()
	if len(targets) == 0 {
		reply(api, chatID, "📭 No notification targets. Use /bind in the chat you want notified.")
		return
	}

	var b strings.Builder
	b.WriteString("🎯 Notification targets\n\n")
	for i, t := range targets {
		fmt.Fprintf(&b, "%d %s\n", i+1, t.Title)
	}
	reply(api, chatID, b.String())
}

func handleUnbind(api *tgbotapi.BotAPI, message *tgbotapi.Message, st *store.Store) {
	idx, ok := parseIDArg(api, message)
	if !ok {
		return
	}
	t, ok := st.RemoveTarget(idx - 1)
	if !ok {
		reply(api, message.Chat.ID, fmt.Sprintf("❌ Target %d not found.", idx))
		return
	}
	reply(api, message.Chat.ID, fmt.Sprintf("✅ Removed: %s", t.Title))
}

func handleInterval(api *tgbotapi.BotAPI, message *tgbotapi.Message, mon *monitor.Monitor) {
	parts := strings.Fields(message.Text)
	if len(parts) < 2 {
		reply(api, message.Chat.ID, fmt.Sprintf("Current interval: %v\nUsage: /interval <30|60|120|300>", mon.Interval()))
		return
	}
	seconds, err := strconv.Atoi(parts[1])
	if err != nil || !mon.SetInterval(seconds) {
		reply(api, message.Chat.ID, "❌ Interval must be one of 30, 60, 120, 300 seconds.")
		return
	}
	reply(api, message.Chat.ID, fmt.Sprintf("✅ Check interval set to %d seconds", seconds))
}

func handleStatus(api *tgbotapi.BotAPI, chatID int64, st *store.Store, mon *monitor.Monitor) {
	reply(api, chatID, fmt.Sprintf(
		"📊 Status\n\n📦 Tracked products: %d\n🎯 Notification targets: %d\n⏱ Check interval: %v",
		len(st.Products()), len(st.Targets()), mon.Interval(),
	))
}

func parseIDArg(api *tgbotapi.BotAPI, message *tgbotapi.Message) (int, bool) {
	parts := strings.Fields(message.Text)
	if len(parts) < 2 {
		reply(api, message.Chat.ID, fmt.Sprintf("❌ Usage: %s <id>", parts[0]))
		return 0, false
	}
	id, err := strconv.Atoi(parts[1])
	if err != nil || id <= 0 {
		reply(api, message.Chat.ID, "❌ Invalid id.")
		return 0, false
	}
	return id, true
}
