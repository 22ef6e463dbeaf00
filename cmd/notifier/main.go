package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/BauthyBa/jetgo-private/internal/model"
	"github.com/BauthyBa/jetgo-private/internal/repository"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func main() {
	// Подключение к базе данных
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		dbHost = "db"
	}
	dbPort := os.Getenv("DB_PORT")
	if dbPort == "" {
		dbPort = "5432"
	}
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		dbHost, dbPort,
		os.Getenv("DB_USER"), os.Getenv("DB_PASS"), os.Getenv("DB_NAME"),
	)
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}

	tripRepo := repository.NewTripRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)

	// Инициализация Telegram Bot API
	botToken := os.Getenv("BOT_TOKEN")
	if botToken == "" {
		log.Fatal("Не указан токен бота (BOT_TOKEN)")
	}
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		log.Fatal("Ошибка инициализации бота:", err)
	}
	log.Printf("Запущен бот %s", bot.Self.UserName)

	// Периодическая рассылка новых поездок подписчикам
	go broadcastLoop(bot, tripRepo, subRepo)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := bot.GetUpdatesChan(u)

	for update := range updates {
		msg := update.Message
		if msg == nil || !msg.IsCommand() {
			continue
		}
		chatID := msg.Chat.ID
		switch msg.Command() {
		case "start":
			bot.Send(tgbotapi.NewMessage(chatID,
				"Бот JetGo: /subscribe - получать уведомления о новых поездках, /unsubscribe - отписаться."))
		case "subscribe":
			if err := subRepo.Subscribe(chatID); err != nil {
				log.Printf("Ошибка подписки чата %d: %v", chatID, err)
				bot.Send(tgbotapi.NewMessage(chatID, "Не удалось оформить подписку."))
				continue
			}
			bot.Send(tgbotapi.NewMessage(chatID, "Подписка оформлена. Вы будете получать новые поездки."))
		case "unsubscribe":
			if err := subRepo.Unsubscribe(chatID); err != nil {
				log.Printf("Ошибка отписки чата %d: %v", chatID, err)
				bot.Send(tgbotapi.NewMessage(chatID, "Не удалось отменить подписку."))
				continue
			}
			bot.Send(tgbotapi.NewMessage(chatID, "Подписка отменена."))
		}
	}
}

// broadcastLoop раз в минуту рассылает подписчикам поездки, появившиеся после
// прошлой проверки. Отметка ведется по идентификатору поездки: bigserial
// монотонно растет, сравнение по времени создания пропускало бы поездки
// с одинаковым created_at.
func broadcastLoop(bot *tgbotapi.BotAPI, tripRepo *repository.TripRepository, subRepo *repository.SubscriptionRepository) {
	lastID, err := tripRepo.LatestID()
	if err != nil {
		log.Printf("Ошибка определения последней поездки: %v", err)
	}
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		trips, err := tripRepo.ListOpenAfterID(lastID)
		if err != nil {
			log.Printf("Ошибка выборки новых поездок: %v", err)
			continue
		}
		if len(trips) == 0 {
			continue
		}
		lastID = latestTripID(lastID, trips)
		chatIDs, err := subRepo.GetAllChatIDs()
		if err != nil {
			log.Printf("Ошибка получения подписчиков: %v", err)
			continue
		}
		for _, trip := range trips {
			text := formatTrip(&trip)
			for _, chatID := range chatIDs {
				if _, err := bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
					log.Printf("Ошибка отправки в чат %d: %v", chatID, err)
				}
			}
		}
	}
}

// latestTripID возвращает идентификатор последней поездки порции
// или прежнюю отметку, если порция пуста.
func latestTripID(lastID int64, trips []model.Trip) int64 {
	if len(trips) == 0 {
		return lastID
	}
	return trips[len(trips)-1].ID
}

// formatTrip собирает текст уведомления о новой поездке.
func formatTrip(trip *model.Trip) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Новая поездка: %s", trip.Destination)
	if trip.Country != nil && *trip.Country != "" {
		fmt.Fprintf(&b, " (%s)", *trip.Country)
	}
	if trip.StartDate != nil {
		fmt.Fprintf(&b, "\nНачало: %s", trip.StartDate.Format("02.01.2006"))
	}
	if trip.BudgetMin != nil && trip.BudgetMax != nil {
		fmt.Fprintf(&b, "\nБюджет: %.0f-%.0f", *trip.BudgetMin, *trip.BudgetMax)
	}
	fmt.Fprintf(&b, "\nМест: %d", trip.MaxParticipants)
	return b.String()
}
