package notify

import (
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"combain-support-bot/internal/logging"
	"combain-support-bot/internal/models"
)

type recordingSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (r *recordingSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if r.err != nil {
		return tgbotapi.Message{}, r.err
	}
	r.sent = append(r.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

func TestForwardSendsToOperator(t *testing.T) {
	bot := &recordingSender{}
	f := &Forwarder{Bot: bot, OperatorID: 555, Log: logging.Discard()}

	rec := models.ComplaintRecord{Ref: "ab12cd34", UserID: 42, Username: "alice", Text: "My order never arrived"}
	require.NoError(t, f.Forward(rec))

	require.Len(t, bot.sent, 1)
	assert.Equal(t, int64(555), bot.sent[0].ChatID)
	assert.Contains(t, bot.sent[0].Text, "@alice")
	assert.Contains(t, bot.sent[0].Text, "ab12cd34")
	assert.Contains(t, bot.sent[0].Text, "My order never arrived")
}

func TestFormatFallsBackToID(t *testing.T) {
	text := Format(models.ComplaintRecord{Ref: "r", UserID: 42, Text: "late"})
	assert.Contains(t, text, "From: ID:42")
}

func TestForwardFailure(t *testing.T) {
	f := &Forwarder{Bot: &recordingSender{err: errors.New("chat not found")}, OperatorID: 1, Log: logging.Discard()}
	err := f.Forward(models.ComplaintRecord{Ref: "r", UserID: 1, Text: "x"})
	assert.Error(t, err)
}

func TestNewRef(t *testing.T) {
	a, b := NewRef(), NewRef()
	assert.Len(t, a, 8)
	assert.NotEqual(t, a, b)
}
