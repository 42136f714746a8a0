package notify

import (
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"combain-support-bot/internal/models"
)

// Sender is the outbound half of the Telegram API; *tgbotapi.BotAPI satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Forwarder relays completed complaints to the single operator chat.
type Forwarder struct {
	Bot        Sender
	OperatorID int64
	Log        *slog.Logger
}

// NewRef returns the short reference shown to both the operator and the user.
func NewRef() string {
	return uuid.NewString()[:8]
}

// Format builds the operator notification.
func Format(rec models.ComplaintRecord) string {
	return fmt.Sprintf("📣 New complaint received\nFrom: %s\nRef: %s\n\n%s",
		rec.DisplayIdentifier(), rec.Ref, rec.Text)
}

// Forward sends the complaint once. Failures are logged and returned, never retried.
func (f *Forwarder) Forward(rec models.ComplaintRecord) error {
	if _, err := f.Bot.Send(tgbotapi.NewMessage(f.OperatorID, Format(rec))); err != nil {
		f.logger().Error("forward complaint", "user_id", rec.UserID, "ref", rec.Ref, "err", err)
		return fmt.Errorf("forward complaint %s: %w", rec.Ref, err)
	}
	f.logger().Info("complaint forwarded", "user_id", rec.UserID, "ref", rec.Ref)
	return nil
}

func (f *Forwarder) logger() *slog.Logger {
	if f.Log != nil {
		return f.Log
	}
	return slog.Default()
}
