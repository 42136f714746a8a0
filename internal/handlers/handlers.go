package handlers

import (
	"context"
	"log/slog"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jonboulle/clockwork"

	"combain-support-bot/internal/classifier"
	"combain-support-bot/internal/complaint"
	"combain-support-bot/internal/models"
	"combain-support-bot/internal/notify"
	"combain-support-bot/internal/storage"
)

// Sender is the outbound half of the Telegram API; *tgbotapi.BotAPI satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Classifier interface {
	Classify(ctx context.Context, text string, purpose classifier.Purpose) classifier.Result
}

type Forwarder interface {
	Forward(rec models.ComplaintRecord) error
}

// Promotions is the broadcast side the /start and /promotions commands use.
type Promotions interface {
	Promote(chatID int64) error
	Message() string
}

type Handler struct {
	Bot        Sender
	Sessions   *storage.SessionStore
	Tracker    *complaint.Tracker
	Classifier Classifier
	Forwarder  Forwarder
	Promotions Promotions
	NewRef     func() string
	Clock      clockwork.Clock
	Log        *slog.Logger
}

// HandleMessage is the entry point for every inbound message.
func (h *Handler) HandleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg == nil || msg.Chat == nil || strings.TrimSpace(msg.Text) == "" {
		return
	}

	userID, username := sender(msg)
	h.Sessions.Touch(userID, msg.Chat.ID, username, h.now())

	if msg.IsCommand() {
		h.HandleCommand(msg)
		return
	}
	h.HandleText(ctx, msg)
}

// ------------- text -----------------------
func (h *Handler) HandleText(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	userID, _ := sender(msg)

	if h.Tracker.Pending(userID) {
		h.handleComplaintDetails(ctx, msg)
		return
	}

	// A named complaint wins over canned replies for the same message.
	if !classifier.HasComplaintKeyword(msg.Text) {
		if reply, ok := classifier.Canned(msg.Text); ok {
			h.reply(chatID, reply)
			return
		}
	}

	check := h.Classifier.Classify(ctx, msg.Text, classifier.PurposeComplaintCheck)
	if check.Outcome == classifier.OutcomeComplaint {
		h.log().Info("complaint detected", "user_id", userID)
		h.act(chatID, h.Tracker.Apply(userID, complaint.EventComplaintDetected), "")
		return
	}

	res := h.Classifier.Classify(ctx, msg.Text, classifier.PurposeGeneral)
	h.reply(chatID, res.Reply)
}

// handleComplaintDetails treats msg as the description of a pending complaint.
// A confident "not complaint" re-check sends the user back to idle; when the
// re-check itself failed the text is accepted as the complaint.
func (h *Handler) handleComplaintDetails(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	userID, username := sender(msg)

	check := h.Classifier.Classify(ctx, msg.Text, classifier.PurposeComplaintCheck)
	if check.Outcome == classifier.OutcomeNotComplaint && !check.Degraded {
		h.log().Info("complaint details reclassified", "user_id", userID)
		h.act(chatID, h.Tracker.Apply(userID, complaint.EventReclassified), "")
		return
	}

	rec := models.ComplaintRecord{
		Ref:      h.ref(),
		UserID:   userID,
		Username: username,
		Text:     msg.Text,
	}
	if err := h.Forwarder.Forward(rec); err != nil {
		h.act(chatID, h.Tracker.Apply(userID, complaint.EventForwardFailed), rec.Ref)
		return
	}
	h.act(chatID, h.Tracker.Apply(userID, complaint.EventDetailsForwarded), rec.Ref)
}

// act sends the reply that goes with a tracker action.
func (h *Handler) act(chatID int64, a complaint.Action, ref string) {
	switch a {
	case complaint.ActionAskDetails:
		h.reply(chatID, txtAskDetails)
	case complaint.ActionConfirm:
		h.reply(chatID, confirmText(ref))
	case complaint.ActionAskClarify:
		h.reply(chatID, txtClarify)
	case complaint.ActionAskResend:
		h.reply(chatID, txtResend)
	}
}

func (h *Handler) reply(chatID int64, text string) {
	if _, err := h.Bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		h.log().Warn("send reply", "chat_id", chatID, "err", err)
	}
}

// sender identifies who wrote msg. Messages without From fall back to the chat.
func sender(msg *tgbotapi.Message) (int64, string) {
	if msg.From == nil {
		return msg.Chat.ID, ""
	}
	return msg.From.ID, msg.From.UserName
}

func (h *Handler) now() time.Time {
	if h.Clock == nil {
		return time.Now()
	}
	return h.Clock.Now()
}

func (h *Handler) ref() string {
	if h.NewRef == nil {
		return notify.NewRef()
	}
	return h.NewRef()
}

func (h *Handler) log() *slog.Logger {
	if h.Log != nil {
		return h.Log
	}
	return slog.Default()
}
