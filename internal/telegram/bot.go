package telegram

import (
	"context"
	"fmt"
	"strings"

	"go-seasonal-jobs/internal/scraper"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// sender is the part of tgbotapi.BotAPI the bot uses.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Bot struct {
	api    sender
	chatID int64
}

func NewBot(token string, chatID int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram login: %w", err)
	}
	return &Bot{
		api:    api,
		chatID: chatID,
	}, nil
}

// RunSummary is what a finished extraction reports.
type RunSummary struct {
	RunID     string
	Start     int
	End       int
	Extracted int
	Failed    []int
	Available int
	Reloads   int
	File      string
}

var markdownEscaper = strings.NewReplacer(
	"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(",
	")", "\\)", "~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#",
	"+", "\\+", "-", "\\-", "=", "\\=", "|", "\\|", "{", "\\{",
	"}", "\\}", ".", "\\.", "!", "\\!",
)

func escapeMarkdown(text string) string {
	return markdownEscaper.Replace(text)
}

// FormatRecord renders one posting as a MarkdownV2 message.
func FormatRecord(r scraper.JobRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🌱 *%s*\n", escapeMarkdown(r.JobTitle))
	fmt.Fprintf(&b, "🏢 %s\n", escapeMarkdown(r.Company))
	fmt.Fprintf(&b, "📍 %s\n", escapeMarkdown(r.Location))
	if r.Salary != "" && r.Salary != scraper.NotAvailable {
		fmt.Fprintf(&b, "💰 %s\n", escapeMarkdown(r.Salary))
	}
	fmt.Fprintf(&b, "📅 %s → %s\n", escapeMarkdown(r.BeginDate), escapeMarkdown(r.EndDate))
	fmt.Fprintf(&b, "🎓 Experience: %s\n", escapeMarkdown(r.ExperienceRequired))
	if r.RecApplyEmail != "" && r.RecApplyEmail != scraper.NotAvailable {
		fmt.Fprintf(&b, "✉️ %s\n", escapeMarkdown(r.RecApplyEmail))
	}
	if r.Phone != "" && r.Phone != scraper.NotAvailable {
		fmt.Fprintf(&b, "📞 %s\n", escapeMarkdown(r.Phone))
	}
	fmt.Fprintf(&b, "🔖 `%s`", escapeMarkdown(r.CaseNumber))
	return b.String()
}

// FormatSummary renders a run summary as plain text.
func FormatSummary(s RunSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Run %s finished\n", s.RunID)
	fmt.Fprintf(&b, "Range %d..%d of %d listed\n", s.Start, s.End, s.Available)
	fmt.Fprintf(&b, "Extracted %d, failed %d", s.Extracted, len(s.Failed))
	if len(s.Failed) > 0 {
		fmt.Fprintf(&b, " %v", s.Failed)
	}
	if s.Reloads > 0 {
		fmt.Fprintf(&b, "\nPage reloads: %d", s.Reloads)
	}
	if s.File != "" {
		fmt.Fprintf(&b, "\nSaved to %s", s.File)
	}
	return b.String()
}

func (b *Bot) SendRecord(r scraper.JobRecord) error {
	msg := tgbotapi.NewMessage(b.chatID, FormatRecord(r))
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	_, err := b.api.Send(msg)
	return err
}

// SendNewPostings sends up to limit postings, then one line for the rest.
// It stops early when ctx is done.
func (b *Bot) SendNewPostings(ctx context.Context, records []scraper.JobRecord, limit int) error {
	if len(records) == 0 {
		return b.SendStatus("No new postings today")
	}
	if err := b.SendStatus(fmt.Sprintf("%d new posting(s)", len(records))); err != nil {
		return err
	}
	for i, r := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		if limit > 0 && i == limit {
			return b.SendStatus(fmt.Sprintf("...and %d more", len(records)-limit))
		}
		if err := b.SendRecord(r); err != nil {
			return fmt.Errorf("send %s: %w", r.CaseNumber, err)
		}
	}
	return nil
}

func (b *Bot) SendSummary(s RunSummary) error {
	return b.SendStatus(FormatSummary(s))
}

func (b *Bot) SendError(err error) error {
	msg := tgbotapi.NewMessage(b.chatID, fmt.Sprintf("❌ Error: %v", err))
	_, sendErr := b.api.Send(msg)
	return sendErr
}

func (b *Bot) SendStatus(message string) error {
	msg := tgbotapi.NewMessage(b.chatID, "ℹ️ "+message)
	_, err := b.api.Send(msg)
	return err
}
