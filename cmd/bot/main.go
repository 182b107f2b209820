package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mango082888-bit/tg-stock-monitor/config"
	"github.com/mango082888-bit/tg-stock-monitor/internal/bot"
	"github.com/mango082888-bit/tg-stock-monitor/internal/fetcher"
	"github.com/mango082888-bit/tg-stock-monitor/internal/monitor"
	"github.com/mango082888-bit/tg-stock-monitor/internal/scraper"
	"github.com/mango082888-bit/tg-stock-monitor/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, using system environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Load config: %v", err)
	}

	st, err := store.New(cfg.DataDir)
	if err != nil {
		log.Fatalf("Open store: %v", err)
	}

	var f scraper.Fetcher
	switch cfg.FetchMode {
	case config.FetchModeHTTP:
		f = fetcher.NewHTTP()
	default:
		browser := fetcher.NewBrowser()
		defer browser.Close()
		f = browser
	}

	parser := scraper.NewParser(f)

	api, err := bot.Init(cfg.BotToken)
	if err != nil {
		log.Fatalf("Init Telegram bot: %v", err)
	}

	mon := monitor.New(st, parser, bot.NewNotifier(api, st), cfg.CheckInterval)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go mon.Start(ctx)

	go bot.SetupCommands(api, st, mon, parser, cfg.AdminID)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down...")
}
