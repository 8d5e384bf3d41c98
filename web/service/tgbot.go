package service

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"favor-bot/config"
	"favor-bot/database"
	"favor-bot/database/repository"
	"favor-bot/logger"
	"favor-bot/util/common"
	"favor-bot/util/qr"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"
	"golang.org/x/crypto/bcrypt"
)

// TelegramService decouples jobs and the web server from the concrete
// bot implementation.
type TelegramService interface {
	IsRunning() bool
	SendMessage(msg string) error
	NotifyChannel(msg string) error
	SendBackupToAdmins()
}

var (
	bot        *telego.Bot
	botHandler *th.BotHandler
	isRunning  bool
)

type Tgbot struct {
	registrationService  *RegistrationService
	accommodationService *AccommodationService
	statsService         *StatsService
	settingService       *SettingService
	serverService        *ServerService
	userRepo             repository.BotUserRepository

	state *BotState

	adminPasswordHash []byte
	allowedAdminIDs   []int64
	channelChat       telego.ChatID
}

func NewTgbot(
	registrationService *RegistrationService,
	accommodationService *AccommodationService,
	statsService *StatsService,
	settingService *SettingService,
	serverService *ServerService,
	userRepo repository.BotUserRepository,
) *Tgbot {
	return &Tgbot{
		registrationService:  registrationService,
		accommodationService: accommodationService,
		statsService:         statsService,
		settingService:       settingService,
		serverService:        serverService,
		userRepo:             userRepo,
		state:                NewBotState(),
	}
}

func (t *Tgbot) IsRunning() bool {
	return isRunning
}

// Start validates configuration, probes the Telegram API and launches the
// long-polling receiver.
func (t *Tgbot) Start() error {
	token := config.GetBotToken()
	if token == "" {
		return fmt.Errorf("telegram bot token is missing")
	}
	if len(token) < 10 || !strings.Contains(token, ":") {
		return fmt.Errorf("invalid telegram bot token format, expected '123456789:ABC...'")
	}

	password := config.GetAdminPassword()
	if password == "" {
		return fmt.Errorf("admin password is not configured")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %v", err)
	}
	t.adminPasswordHash = hash
	t.allowedAdminIDs = config.GetAllowedAdminIDs()

	channel := config.GetChannelID()
	if channel == "" {
		return fmt.Errorf("announcement channel id is not configured")
	}
	t.channelChat, err = parseChatID(channel)
	if err != nil {
		return err
	}

	bot, err = telego.NewBot(token)
	if err != nil {
		logger.Error("Failed to initialize Telegram bot API:", err)
		return fmt.Errorf("failed to initialize telegram bot: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	botInfo, err := bot.GetMe(ctx)
	if err != nil {
		logger.Error("Failed to get bot information:", err)
		return fmt.Errorf("failed to verify bot token with telegram API: %v", err)
	}
	logger.Infof("Successfully connected to Telegram bot: @%s (ID: %d)", botInfo.Username, botInfo.ID)

	err = bot.SetMyCommands(context.Background(), &telego.SetMyCommandsParams{
		Commands: []telego.BotCommand{
			{Command: "start", Description: "Открыть меню"},
			{Command: "help", Description: "Помощь"},
			{Command: "id", Description: "Показать свой ID"},
			{Command: "admin", Description: "Вход для организаторов"},
			{Command: "cancel", Description: "Отменить текущее действие"},
		},
	})
	if err != nil {
		logger.Warning("Failed to set bot commands:", err)
	}

	if !isRunning {
		logger.Info("Telegram bot receiver started")
		go t.OnReceive()
		isRunning = true
	}
	return nil
}

func (t *Tgbot) Stop() {
	if botHandler != nil {
		botHandler.Stop()
	}
	isRunning = false
	logger.Info("Telegram bot receiver stopped")
}

// parseChatID accepts a numeric chat id or a public @username.
func parseChatID(raw string) (telego.ChatID, error) {
	if strings.HasPrefix(raw, "@") {
		return tu.Username(raw), nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return telego.ChatID{}, fmt.Errorf("invalid channel id %q: %v", raw, err)
	}
	return tu.ID(id), nil
}

// backoffDelay is the pause before the next delivery attempt, doubling
// per attempt and zero after the final one.
func backoffDelay(attempt int) time.Duration {
	if attempt >= config.SendRetries-1 {
		return 0
	}
	return config.SendBackoff * (1 << attempt)
}

func (t *Tgbot) checkAdmin(userID int64) bool {
	isAdmin, err := t.userRepo.IsAdmin(userID)
	if err != nil {
		logger.Warning("admin check failed:", err)
		return false
	}
	return isAdmin
}

// tryAdminLogin verifies the password (bcrypt) and the optional id
// allow-list, and persists the admin flag on success.
func (t *Tgbot) tryAdminLogin(userID int64, firstName, password string) bool {
	if bcrypt.CompareHashAndPassword(t.adminPasswordHash, []byte(password)) != nil {
		logger.Infof("admin login failed: userId=%d", userID)
		return false
	}
	if len(t.allowedAdminIDs) > 0 {
		allowed := false
		for _, id := range t.allowedAdminIDs {
			if id == userID {
				allowed = true
				break
			}
		}
		if !allowed {
			logger.Infof("admin login rejected by allow-list: userId=%d", userID)
			return false
		}
	}
	if err := t.userRepo.Touch(userID, firstName); err != nil {
		logger.Warning("failed to record admin chat:", err)
	}
	if err := t.userRepo.SetAdmin(userID, true); err != nil {
		logger.Warning("failed to persist admin flag:", err)
		return false
	}
	logger.Infof("admin login: userId=%d", userID)
	return true
}

func (t *Tgbot) SendMsgToTgbot(chatId int64, msg string, replyMarkup ...telego.ReplyMarkup) {
	if !isRunning {
		return
	}
	if msg == "" {
		logger.Info("[tgbot] message is empty!")
		return
	}

	var allMessages []string
	limit := 2000

	// paging message if it is big
	if len(msg) > limit {
		messages := strings.Split(msg, "\r\n\r\n")
		lastIndex := -1

		for _, message := range messages {
			if (len(allMessages) == 0) || (len(allMessages[lastIndex])+len(message) > limit) {
				allMessages = append(allMessages, message)
				lastIndex++
			} else {
				allMessages[lastIndex] += "\r\n\r\n" + message
			}
		}
		if strings.TrimSpace(allMessages[len(allMessages)-1]) == "" {
			allMessages = allMessages[:len(allMessages)-1]
		}
	} else {
		allMessages = append(allMessages, msg)
	}
	for n, message := range allMessages {
		params := telego.SendMessageParams{
			ChatID:    tu.ID(chatId),
			Text:      message,
			ParseMode: "HTML",
		}
		// only add replyMarkup to last message
		if len(replyMarkup) > 0 && n == (len(allMessages)-1) {
			params.ReplyMarkup = replyMarkup[0]
		}
		_, err := bot.SendMessage(context.Background(), &params)
		if err != nil {
			logger.Warning("Error sending telegram message:", err)
		}
		if len(allMessages) > 1 {
			time.Sleep(config.TelegramMessageDelay)
		}
	}
}

func (t *Tgbot) SendMsgToTgbotAdmins(msg string, replyMarkup ...telego.ReplyMarkup) {
	adminIds, err := t.userRepo.AdminIDs()
	if err != nil {
		logger.Warning("failed to list admin chats:", err)
		return
	}
	for _, adminId := range adminIds {
		if len(replyMarkup) > 0 {
			t.SendMsgToTgbot(adminId, msg, replyMarkup[0])
		} else {
			t.SendMsgToTgbot(adminId, msg)
		}
	}
}

// SendMessage implements TelegramService: a plain text message to every
// logged-in admin.
func (t *Tgbot) SendMessage(msg string) error {
	if !isRunning {
		return common.NewServiceError("Tgbot.SendMessage", fmt.Errorf("bot is not running"))
	}
	t.SendMsgToTgbotAdmins(msg)
	return nil
}

// NotifyChannel posts to the announcement channel with retries. Delivery
// failures are reported to the admin chats.
func (t *Tgbot) NotifyChannel(msg string) error {
	if !isRunning {
		return common.NewServiceError("Tgbot.NotifyChannel", fmt.Errorf("bot is not running"))
	}

	var lastErr error
	for attempt := 0; attempt < config.SendRetries; attempt++ {
		_, lastErr = bot.SendMessage(context.Background(), &telego.SendMessageParams{
			ChatID:    t.channelChat,
			Text:      msg,
			ParseMode: "HTML",
		})
		if lastErr == nil {
			return nil
		}
		logger.Warningf("channel delivery failed (attempt %d/%d): %v", attempt+1, config.SendRetries, lastErr)
		time.Sleep(backoffDelay(attempt))
	}
	t.SendMsgToTgbotAdmins("Ошибка бота: не удалось отправить сообщение в канал: " + html.EscapeString(lastErr.Error()))
	return common.Wrap("Tgbot.NotifyChannel", lastErr)
}

// SendQRCode renders regID as a QR PNG and delivers it as a photo with
// the caption, falling back to a plain message when rendering or delivery
// fails.
func (t *Tgbot) SendQRCode(chatId int64, regID string, caption string, replyMarkup ...telego.ReplyMarkup) {
	png, err := qr.Encode(regID)
	if err != nil {
		logger.Warningf("QR generation failed, sending text only: %v", err)
		t.SendMsgToTgbot(chatId, caption, replyMarkup...)
		return
	}

	photoParams := tu.Photo(
		tu.ID(chatId),
		tu.FileFromBytes(png, "qrcode.png"),
	).WithCaption(caption).WithParseMode("HTML")
	if len(replyMarkup) > 0 {
		photoParams = photoParams.WithReplyMarkup(replyMarkup[0])
	}

	var lastErr error
	for attempt := 0; attempt < config.SendRetries; attempt++ {
		if _, lastErr = bot.SendPhoto(context.Background(), photoParams); lastErr == nil {
			return
		}
		logger.Warningf("QR delivery to %d failed (attempt %d/%d): %v", chatId, attempt+1, config.SendRetries, lastErr)
		time.Sleep(backoffDelay(attempt))
	}
	t.SendMsgToTgbotAdmins("Ошибка бота: не удалось отправить QR-код: " + html.EscapeString(lastErr.Error()))
	t.SendMsgToTgbot(chatId, caption, replyMarkup...)
}

// SendBackupToAdmins ships the sqlite file to every admin chat, used by
// the nightly job and the SIGUSR2 trigger.
func (t *Tgbot) SendBackupToAdmins() {
	if !isRunning {
		return
	}
	adminIds, err := t.userRepo.AdminIDs()
	if err != nil || len(adminIds) == 0 {
		return
	}

	data, err := readBackup()
	if err != nil {
		logger.Warning("database backup read failed:", err)
		t.SendMsgToTgbotAdmins("Ошибка бота: не удалось подготовить резервную копию: " + html.EscapeString(err.Error()))
		return
	}

	backupName := fmt.Sprintf("%s-%s.db", config.GetName(), time.Now().Format("20060102-150405"))
	for _, adminId := range adminIds {
		document := tu.Document(
			tu.ID(adminId),
			tu.FileFromBytes(data, backupName),
		).WithCaption("Резервная копия базы данных")
		if _, err := bot.SendDocument(context.Background(), document); err != nil {
			logger.Warningf("backup delivery to %d failed: %v", adminId, err)
		}
	}
}

func readBackup() ([]byte, error) {
	return database.ReadDBFile(config.GetDBPath())
}
