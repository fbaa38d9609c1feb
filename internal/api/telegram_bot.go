// Package api provides handlers for external APIs and interfaces
package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/abelzeko/aquarium-bot/internal/metrics"
	"github.com/abelzeko/aquarium-bot/internal/repository"
	"github.com/abelzeko/aquarium-bot/internal/usecases"
)

const queryTimeout = 30 * time.Second

const helpText = "Available commands:\n" +
	"/start - Start the bot\n" +
	"/tank L W H [in|cm] [rectangular|cylindrical|hexagonal] - Set your tank dimensions\n" +
	"/volume - Show your tank volume\n" +
	"/set [parameter] [value] - Record a reading (ph, temp, ammonia, nitrite, nitrate, gh)\n" +
	"/target [ph|temp] [value] - Set the pH or temperature you want\n" +
	"/dashboard - Show all water parameters\n" +
	"/report - Dosage and water change recommendations\n" +
	"/species [beginner|intermediate|advanced] [peaceful|semi-aggressive|aggressive] or /species [search] - Browse fish species\n" +
	"/fish [name] - Show a species profile\n" +
	"/suitable - Species that suit your current water\n" +
	"/articles [category] - List articles\n" +
	"/article [id] - Read an article\n" +
	"/tasks [category|priority|status] - Show your maintenance schedule\n" +
	"/addtask title | description [| frequency | priority | category | minutes] - Add a task\n" +
	"/done [id] - Complete a task\n" +
	"/deltask [id] - Delete a task\n" +
	"/subscribe - Daily maintenance reminders\n" +
	"/unsubscribe - Stop reminders\n" +
	"/help - Show this help message\n\n" +
	"You can also just ask, e.g. \"how much baking soda to raise pH from 6.8 to 7.2?\""

// TelegramBot handles interactions with the Telegram API
type TelegramBot struct {
	bot         *tgbotapi.BotAPI
	aquarium    *usecases.AquariumUseCase
	maintenance *usecases.MaintenanceUseCase
	library     *usecases.LibraryUseCase
	metrics     *metrics.Metrics

	mu          sync.RWMutex
	subscribers map[int64]bool
}

// NewTelegramBot creates a new Telegram bot handler
func NewTelegramBot(
	botToken string,
	aquarium *usecases.AquariumUseCase,
	maintenance *usecases.MaintenanceUseCase,
	library *usecases.LibraryUseCase,
	m *metrics.Metrics,
) (*TelegramBot, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &TelegramBot{
		bot:         bot,
		aquarium:    aquarium,
		maintenance: maintenance,
		library:     library,
		metrics:     m,
		subscribers: make(map[int64]bool),
	}, nil
}

// Start begins listening for and handling Telegram messages
func (t *TelegramBot) Start() {
	log.Printf("Authorized on Telegram account %s", t.bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := t.bot.GetUpdatesChan(u)
	log.Println("Bot is now listening for messages...")

	for update := range updates {
		if update.Message == nil {
			continue
		}

		log.Printf("Received message from %s (chat %d): %s",
			senderName(update.Message),
			update.Message.Chat.ID,
			update.Message.Text)

		t.handleMessage(update)
	}
}

// Notify sends an unsolicited message to a chat
func (t *TelegramBot) Notify(chatID int64, text string) error {
	if _, err := t.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("failed to notify chat %d: %w", chatID, err)
	}
	return nil
}

// SendReminders delivers the maintenance reminders due at now to subscribed chats
func (t *TelegramBot) SendReminders(now time.Time) {
	reminders, err := t.maintenance.Reminders(now)
	if err != nil {
		log.Printf("Error building reminders: %v", err)
		return
	}

	sent := 0
	for chatID, text := range reminders {
		if !t.isSubscribed(chatID) {
			continue
		}
		if err := t.Notify(chatID, text); err != nil {
			log.Printf("Error sending reminder: %v", err)
			continue
		}
		t.metrics.ReminderSent()
		sent++
	}
	log.Printf("Sent %d maintenance reminders", sent)
}

func (t *TelegramBot) isSubscribed(chatID int64) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.subscribers[chatID]
}

func (t *TelegramBot) setSubscribed(chatID int64, on bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if on {
		t.subscribers[chatID] = true
	} else {
		delete(t.subscribers, chatID)
	}
}

// handleMessage processes a Telegram message update
func (t *TelegramBot) handleMessage(update tgbotapi.Update) {
	msg := tgbotapi.NewMessage(update.Message.Chat.ID, "")

	switch {
	case update.Message.IsCommand():
		t.handleCommand(update.Message, &msg)
	default:
		t.handleNonCommand(update.Message, &msg)
	}

	log.Printf("Sending response to user %s", senderName(update.Message))
	if _, err := t.bot.Send(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}

// handleCommand processes commands like /start, /help, etc.
func (t *TelegramBot) handleCommand(message *tgbotapi.Message, msg *tgbotapi.MessageConfig) {
	chatID := message.Chat.ID
	args := strings.TrimSpace(message.CommandArguments())
	command := message.Command()
	log.Printf("Handling /%s command with args '%s' for user %s", command, args, senderName(message))

	switch command {
	case "start":
		msg.Text = "Welcome to the Aquarium Helper! 🐠\n\n" +
			"I check your water parameters, work out dosages and water changes, " +
			"and keep track of your maintenance schedule. Use /help to see what I can do."

	case "help":
		msg.Text = helpText

	case "tank":
		t.handleTankCommand(chatID, args, msg)

	case "volume":
		g, volume, err := t.aquarium.TankVolume(chatID)
		if err != nil {
			msg.Text = "Your tank dimensions are invalid. Set them with /tank 24 12 16 in."
			break
		}
		msg.Text = usecases.FormatVolume(g, volume)

	case "set":
		t.handleSetCommand(chatID, args, msg)

	case "target":
		t.handleTargetCommand(chatID, args, msg)

	case "dashboard":
		msg.Text = usecases.FormatDashboard(t.aquarium.Dashboard(chatID))

	case "report":
		report, err := t.aquarium.Report(chatID)
		if err != nil {
			msg.Text = "Error generating the report. Check your tank with /volume."
			log.Printf("Error generating report: %v", err)
			break
		}
		msg.Text = usecases.FormatReport(report)

	case "species":
		species, err := t.library.Species(args)
		if err != nil {
			msg.Text = "Error fetching species. Please try again later."
			log.Printf("Error fetching species: %v", err)
			break
		}
		msg.Text = usecases.FormatSpeciesList(species)

	case "fish":
		t.handleFishCommand(chatID, args, msg)

	case "suitable":
		species, err := t.aquarium.SuitableSpecies(chatID)
		if err != nil {
			msg.Text = "Error fetching species. Please try again later."
			log.Printf("Error fetching species: %v", err)
			break
		}
		if len(species) == 0 {
			msg.Text = "None of the species in the guide suit your current readings. Check /dashboard."
			break
		}
		msg.Text = "Species suited to your water:\n\n" + usecases.FormatSpeciesList(species)

	case "articles":
		t.handleArticlesCommand(args, msg)

	case "article":
		t.handleArticleCommand(args, msg)

	case "tasks":
		t.handleTasksCommand(chatID, args, msg)

	case "addtask":
		t.handleAddTaskCommand(chatID, args, msg)

	case "done":
		task, err := t.maintenance.CompleteTask(chatID, args)
		if err != nil {
			msg.Text = taskErrorText(err)
			break
		}
		msg.Text = fmt.Sprintf("✅ %s completed. Next due %s.", task.Title, task.NextDue.Format(time.DateOnly))

	case "deltask":
		task, err := t.maintenance.DeleteTask(chatID, args)
		if err != nil {
			msg.Text = taskErrorText(err)
			break
		}
		msg.Text = fmt.Sprintf("🗑️ %s deleted.", task.Title)

	case "subscribe":
		if _, err := t.maintenance.Tasks(chatID, usecases.TaskFilter{}); err != nil {
			msg.Text = "Error setting up your schedule. Please try again later."
			log.Printf("Error seeding tasks: %v", err)
			break
		}
		t.setSubscribed(chatID, true)
		msg.Text = "🔔 Subscribed. I'll remind you about overdue and upcoming maintenance."

	case "unsubscribe":
		t.setSubscribed(chatID, false)
		msg.Text = "🔕 Unsubscribed from maintenance reminders."

	default:
		log.Printf("Received unknown command /%s from user %s", command, senderName(message))
		msg.Text = "Unknown command. Use /help to see available commands."
		command = "unknown"
	}

	t.metrics.CommandHandled(command)
}

// handleTankCommand processes the /tank L W H [unit] [shape] command
func (t *TelegramBot) handleTankCommand(chatID int64, args string, msg *tgbotapi.MessageConfig) {
	if args == "" {
		g := t.aquarium.Session(chatID).Tank
		msg.Text = fmt.Sprintf("Current tank: %s\nExample: /tank 24 12 16 in rectangular", g)
		return
	}

	g, err := ParseTankArgs(args)
	if err != nil {
		msg.Text = fmt.Sprintf("Could not read the dimensions: %v\nExample: /tank 60 30 40 cm", err)
		return
	}

	volume, err := t.aquarium.SetTank(chatID, g)
	if err != nil {
		msg.Text = "All dimensions must be positive numbers."
		return
	}
	msg.Text = usecases.FormatVolume(g, volume)
}

// handleSetCommand processes the /set [parameter] [value] command
func (t *TelegramBot) handleSetCommand(chatID int64, args string, msg *tgbotapi.MessageConfig) {
	param, value, err := ParseReadingArgs(args)
	if err != nil {
		msg.Text = "Please specify a parameter and a value. Example: /set ph 7.2"
		return
	}

	res, err := t.aquarium.SetReading(chatID, param, value)
	if err != nil {
		msg.Text = fmt.Sprintf("Unknown parameter '%s'. Use ph, temp, ammonia, nitrite, nitrate or gh.", param)
		return
	}
	msg.Text = usecases.FormatReading(res)
}

// handleTargetCommand processes the /target [ph|temp] [value] command
func (t *TelegramBot) handleTargetCommand(chatID int64, args string, msg *tgbotapi.MessageConfig) {
	param, value, err := ParseReadingArgs(args)
	if err != nil {
		msg.Text = "Please specify ph or temp and a value. Example: /target temp 78"
		return
	}

	p, err := t.aquarium.SetTarget(chatID, param, value)
	switch {
	case errors.Is(err, usecases.ErrNotAdjustable):
		msg.Text = "Only pH and temperature targets can be set."
	case err != nil:
		msg.Text = fmt.Sprintf("Unknown parameter '%s'.", param)
	default:
		msg.Text = fmt.Sprintf("🎯 Target %s set to %s%s. Use /report for recommendations.", p.Name, strconv.FormatFloat(value, 'f', -1, 64), p.Unit)
	}
}

// handleFishCommand processes the /fish [name] command
func (t *TelegramBot) handleFishCommand(chatID int64, args string, msg *tgbotapi.MessageConfig) {
	if args == "" {
		msg.Text = "Please specify a species name. Example: /fish Neon Tetra"
		return
	}

	fish, err := t.library.Fish(args)
	if errors.Is(err, repository.ErrSpeciesMissing) {
		msg.Text = fmt.Sprintf("No species named '%s'. Use /species to browse the guide.", args)
		return
	}
	if err != nil {
		msg.Text = "Error fetching species. Please try again later."
		log.Printf("Error fetching species: %v", err)
		return
	}
	msg.Text = usecases.FormatSpecies(fish, t.aquarium.Session(chatID))
}

// handleArticlesCommand processes the /articles [category] command
func (t *TelegramBot) handleArticlesCommand(args string, msg *tgbotapi.MessageConfig) {
	articles, err := t.library.Articles(args)
	if err != nil {
		msg.Text = "Error fetching articles. Please try again later."
		log.Printf("Error fetching articles: %v", err)
		return
	}
	categories, err := t.library.Categories()
	if err != nil {
		log.Printf("Error fetching article categories: %v", err)
	}
	msg.Text = usecases.FormatArticleList(articles, categories)
}

// handleArticleCommand processes the /article [id] command
func (t *TelegramBot) handleArticleCommand(args string, msg *tgbotapi.MessageConfig) {
	id, err := strconv.ParseInt(args, 10, 64)
	if err != nil {
		msg.Text = "Please specify an article number. Example: /article 1"
		return
	}

	text, err := t.library.Article(id)
	if errors.Is(err, repository.ErrArticleMissing) {
		msg.Text = fmt.Sprintf("No article %d. Use /articles to see the list.", id)
		return
	}
	if err != nil {
		msg.Text = "Error fetching the article. Please try again later."
		log.Printf("Error fetching article: %v", err)
		return
	}
	msg.Text = text
}

// handleTasksCommand processes the /tasks [filter] command
func (t *TelegramBot) handleTasksCommand(chatID int64, args string, msg *tgbotapi.MessageConfig) {
	filter, err := usecases.ParseTaskFilter(args)
	if err != nil {
		msg.Text = "Unknown filter. Use a category (water, cleaning, equipment, health, feeding), " +
			"a priority (low, medium, high, critical) or a status (pending, overdue, completed)."
		return
	}

	tasks, err := t.maintenance.Tasks(chatID, filter)
	if err != nil {
		msg.Text = "Error fetching your tasks. Please try again later."
		log.Printf("Error fetching tasks: %v", err)
		return
	}
	msg.Text = t.maintenance.FormatTasks(tasks)
}

// handleAddTaskCommand processes the /addtask command
func (t *TelegramBot) handleAddTaskCommand(chatID int64, args string, msg *tgbotapi.MessageConfig) {
	task, err := ParseAddTaskArgs(args)
	if err != nil {
		msg.Text = fmt.Sprintf("Could not read the task: %v\nExample: /addtask Clean Glass | Scrape algae off the front | weekly | low | cleaning | 10", err)
		return
	}

	added, err := t.maintenance.AddTask(chatID, task)
	if errors.Is(err, usecases.ErrMissingFields) {
		msg.Text = "A task needs both a title and a description."
		return
	}
	if err != nil {
		msg.Text = "Error adding the task. Please try again later."
		log.Printf("Error adding task: %v", err)
		return
	}
	msg.Text = fmt.Sprintf("➕ Added [%s] %s, due %s (%s, %s priority).",
		added.ShortID(), added.Title, added.NextDue.Format(time.DateOnly), added.Frequency, added.Priority)
}

// senderName names the author of a message. Channel posts have no sender.
func senderName(m *tgbotapi.Message) string {
	if m.From == nil {
		return fmt.Sprintf("chat %d", m.Chat.ID)
	}
	return m.From.UserName
}

func taskErrorText(err error) string {
	switch {
	case errors.Is(err, repository.ErrTaskNotFound):
		return "No task with that id. Use /tasks to see the ids."
	case errors.Is(err, repository.ErrAmbiguousID):
		return "That id matches several tasks. Type more characters of it."
	default:
		log.Printf("Error updating task: %v", err)
		return "Error updating the task. Please try again later."
	}
}

// handleNonCommand processes regular messages through the natural-language assistant
func (t *TelegramBot) handleNonCommand(message *tgbotapi.Message, msg *tgbotapi.MessageConfig) {
	log.Printf("Received non-command message from user %s: %s", senderName(message), message.Text)

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	reply, err := t.aquarium.HandleNaturalLanguageQuery(ctx, message.Chat.ID, message.Text)
	if err != nil {
		log.Printf("Error handling natural language query: %v", err)
		reply = "I don't understand. Use /help to see available commands."
	}
	msg.Text = reply
	t.metrics.CommandHandled("text")
}
