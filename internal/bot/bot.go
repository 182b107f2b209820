package bot

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Init connects to the Telegram Bot API.
func Init(token string) (*tgbotapi.BotAPI, error) {
	if token == "" {
		return nil, fmt.Errorf("BOT_TOKEN not configured, check your .env file")
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		if err.Error() == "Unauthorized" {
			return nil, fmt.Errorf("invalid or expired Telegram token; get one from @BotFather and set BOT_TOKEN")
		}
		return nil, fmt.Errorf("connect to Telegram: %w", err)
	}

	api.Debug = false
	log.Printf("Bot authorized as: %s", api.Self.UserName)
	return api, nil
}
