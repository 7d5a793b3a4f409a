package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"catatan/internal/core"
	"catatan/internal/services"
)

// Bot wires Telegram long polling to the ledger service. Each text message
// is either a slash command or a free-text transaction submission.
type Bot struct {
	api         *tgbotapi.BotAPI
	ledger      *services.LedgerService
	limiter     *Limiter
	adminChatID int64
}

func NewBot(token string, ledger *services.LedgerService, limiter *Limiter, adminChatID int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot API: %w", err)
	}

	return &Bot{
		api:         api,
		ledger:      ledger,
		limiter:     limiter,
		adminChatID: adminChatID,
	}, nil
}

// Run polls for updates until the context ends.
func (b *Bot) Run(ctx context.Context) error {
	slog.InfoContext(ctx, "Bot started", "username", b.api.Self.UserName)
	b.notifyAdmin(ctx, fmt.Sprintf("🤖 Bot @%s aktif.", b.api.Self.UserName))

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			slog.InfoContext(ctx, "Bot stopped", "reason", ctx.Err())
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return errors.New("updates channel closed")
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	if b.limiter != nil && !b.limiter.Allow(chatID) {
		slog.WarnContext(ctx, "Rate limit exceeded", "chat_id", chatID)
		b.reply(ctx, chatID, "⏳ Terlalu banyak pesan, tunggu sebentar ya.")
		return
	}

	text := SanitizeInput(FixEncoding(msg.Text))
	slog.InfoContext(ctx, "Message received", "chat_id", chatID, "text", text)

	command, arg := splitCommand(text)

	var replyText string
	switch command {
	case "/start", "/help":
		replyText = WelcomeMessage()
	case "/kategori":
		replyText = b.handleCategories(ctx)
	case "/rekapminggu":
		replyText = b.handleWeeklyRecap(ctx)
	case "/rekapbulan":
		replyText = b.handleMonthlyRecap(ctx, arg)
	default:
		if strings.HasPrefix(command, "/") {
			replyText = "Perintah tidak dikenal. Kirim /help untuk bantuan."
		} else {
			replyText = b.handleRecord(ctx, text)
		}
	}

	b.reply(ctx, chatID, replyText)
}

func (b *Bot) handleRecord(ctx context.Context, text string) string {
	tx, err := b.ledger.Record(ctx, text)
	if err != nil {
		slog.WarnContext(ctx, "Failed to record transaction", "error", err)

		var cats []string
		var unknown *core.UnknownCategoryError
		switch {
		case errors.As(err, &unknown):
			// Best effort: the category list makes the rejection actionable.
			if listed, listErr := b.ledger.Categories(ctx); listErr == nil {
				cats = listed
			}
		case errors.Is(err, core.ErrInvalidAmount), errors.Is(err, core.ErrMissingCategoryTag):
			// User input problem, nothing to escalate.
		default:
			b.notifyStoreFailure(ctx, err)
		}
		return ErrorMessage(err, cats)
	}
	return RecordedMessage(tx)
}

func (b *Bot) handleCategories(ctx context.Context) string {
	cats, err := b.ledger.Categories(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list categories", "error", err)
		b.notifyStoreFailure(ctx, err)
		return ErrorMessage(err, nil)
	}
	return CategoriesMessage(cats)
}

func (b *Bot) handleWeeklyRecap(ctx context.Context) string {
	rec, err := b.ledger.WeeklyRecap(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to build weekly recap", "error", err)
		b.notifyStoreFailure(ctx, err)
		return ErrorMessage(err, nil)
	}
	return RenderRecap(rec)
}

func (b *Bot) handleMonthlyRecap(ctx context.Context, arg string) string {
	rec, err := b.ledger.MonthlyRecap(ctx, arg)
	if err != nil {
		if errors.Is(err, core.ErrUnresolvedMonth) {
			months, monthsErr := b.ledger.AvailableMonths(ctx)
			if monthsErr != nil {
				slog.ErrorContext(ctx, "Failed to list available months", "error", monthsErr)
			}
			return UnresolvedMonthMessage(months)
		}
		slog.ErrorContext(ctx, "Failed to build monthly recap", "error", err)
		b.notifyStoreFailure(ctx, err)
		return ErrorMessage(err, nil)
	}
	return RenderRecap(rec)
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string) {
	if text == "" {
		return
	}
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		slog.ErrorContext(ctx, "Failed to send reply", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) notifyAdmin(ctx context.Context, text string) {
	if b.adminChatID == 0 {
		return
	}
	b.reply(ctx, b.adminChatID, text)
}

func (b *Bot) notifyStoreFailure(ctx context.Context, err error) {
	b.notifyAdmin(ctx, fmt.Sprintf("⚠️ Gangguan store: %v", err))
}

// splitCommand separates a leading slash command from its argument. Commands
// may carry a bot mention suffix ("/rekapbulan@catatan_bot"), which is
// stripped.
func splitCommand(text string) (command, arg string) {
	if !strings.HasPrefix(text, "/") {
		return text, ""
	}
	command, arg, _ = strings.Cut(text, " ")
	if at := strings.Index(command, "@"); at != -1 {
		command = command[:at]
	}
	return strings.ToLower(command), strings.TrimSpace(arg)
}
