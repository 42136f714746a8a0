package complaint

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"combain-support-bot/internal/models"
)

func TestTransition(t *testing.T) {
	idle, awaiting := models.StateIdle, models.StateAwaitingDetails

	tests := []struct {
		name       string
		from       models.State
		ev         Event
		wantState  models.State
		wantAction Action
	}{
		{"idle detected", idle, EventComplaintDetected, awaiting, ActionAskDetails},
		{"idle command", idle, EventComplainCommand, awaiting, ActionAskDetails},
		{"idle forwarded ignored", idle, EventDetailsForwarded, idle, ActionNone},
		{"idle reclassified ignored", idle, EventReclassified, idle, ActionNone},
		{"idle forward failed ignored", idle, EventForwardFailed, idle, ActionNone},
		{"awaiting forwarded", awaiting, EventDetailsForwarded, idle, ActionConfirm},
		{"awaiting reclassified", awaiting, EventReclassified, idle, ActionAskClarify},
		{"awaiting forward failed", awaiting, EventForwardFailed, awaiting, ActionAskResend},
		{"awaiting command again", awaiting, EventComplainCommand, awaiting, ActionAskDetails},
		{"awaiting detected ignored", awaiting, EventComplaintDetected, awaiting, ActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, action := Transition(tt.from, tt.ev)
			assert.Equal(t, tt.wantState, st)
			assert.Equal(t, tt.wantAction, action)
		})
	}
}

type mapStore map[int64]models.State

func (m mapStore) State(id int64) models.State        { return m[id] }
func (m mapStore) SetState(id int64, st models.State) { m[id] = st }

func TestTrackerCycle(t *testing.T) {
	store := mapStore{}
	tr := NewTracker(store)

	assert.False(t, tr.Pending(1))
	assert.Equal(t, ActionAskDetails, tr.Apply(1, EventComplaintDetected))
	assert.True(t, tr.Pending(1))
	assert.False(t, tr.Pending(2))

	assert.Equal(t, ActionAskResend, tr.Apply(1, EventForwardFailed))
	assert.True(t, tr.Pending(1))

	assert.Equal(t, ActionConfirm, tr.Apply(1, EventDetailsForwarded))
	assert.False(t, tr.Pending(1))

	// a second completion must not do anything
	assert.Equal(t, ActionNone, tr.Apply(1, EventDetailsForwarded))
	assert.False(t, tr.Pending(1))
}

func TestTrackerReclassified(t *testing.T) {
	tr := NewTracker(mapStore{})

	tr.Apply(9, EventComplainCommand)
	assert.Equal(t, ActionAskClarify, tr.Apply(9, EventReclassified))
	assert.False(t, tr.Pending(9))
}
