package handlers

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"combain-support-bot/internal/classifier"
	"combain-support-bot/internal/complaint"
)

// HandleCommand dispatches a bot command. Unknown commands are ignored.
func (h *Handler) HandleCommand(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		h.HandleStart(msg)
	case "help":
		h.reply(chatID, txtHelp)
	case "about":
		h.reply(chatID, txtAbout)
	case "enquire":
		h.reply(chatID, txtEnquire)
	case "contact":
		h.reply(chatID, txtContact)
	case "authors":
		h.reply(chatID, txtAuthors)
	case "merch":
		h.reply(chatID, classifier.MerchCatalog)
	case "promotions":
		h.reply(chatID, h.Promotions.Message())
	case "complain":
		userID, _ := sender(msg)
		h.act(chatID, h.Tracker.Apply(userID, complaint.EventComplainCommand), "")
	default:
		h.log().Debug("unknown command ignored", "chat_id", chatID, "command", msg.Command())
	}
}

// HandleStart greets the user. The first /start registers them for the
// weekly broadcast and sends the current promotion straight away.
func (h *Handler) HandleStart(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	userID, username := sender(msg)

	first := h.Sessions.Register(userID, chatID, username, h.now())
	h.reply(chatID, txtGreeting)
	if !first {
		return
	}

	h.log().Info("user registered", "user_id", userID, "chat_id", chatID)
	if err := h.Promotions.Promote(chatID); err != nil {
		h.log().Warn("immediate promotion", "user_id", userID, "chat_id", chatID, "err", err)
	}
}
