package bot

import (
	"context"
	"sync"

	"regcheck-bot/internal/models"
)

// Trigger identifies what an event asks for: a command, a button or an upload.
type Trigger string

const (
	TriggerStart    Trigger = "/start"
	TriggerCancel   Trigger = "/cancel"
	TriggerAdmin    Trigger = "/admin"
	TriggerDocument Trigger = "document"

	TriggerAcceptRules   Trigger = "accept_rules"
	TriggerCheckDocument Trigger = "check_doc"
	TriggerDownloadTerms Trigger = "download_terms"

	TriggerAdminStats Trigger = "admin_stats"
	TriggerAdminLogs  Trigger = "admin_logs"
)

// adminCallbackPrefix routes callbacks to the admin panel regardless of state.
const adminCallbackPrefix = "admin_"

func triggerOf(ev Event) Trigger {
	switch ev.Kind {
	case EventCommand:
		return Trigger("/" + ev.Command)
	case EventCallback:
		return Trigger(ev.Data)
	case EventDocument:
		return TriggerDocument
	}
	return ""
}

// transitionFunc handles an event and returns the state to move to. The
// returned state is applied even together with an error.
type transitionFunc func(c *Controller, ctx context.Context, ev Event) (models.State, error)

// transitions is the conversation table: state x trigger -> handler.
// Pairs missing from the table are ignored.
var transitions = map[models.State]map[Trigger]transitionFunc{
	models.StateChoosing: {
		TriggerAcceptRules:   (*Controller).acceptRules,
		TriggerCheckDocument: (*Controller).chooseCheckDocument,
		TriggerDownloadTerms: (*Controller).sendTerms,
	},
	models.StateAwaitingDocument: {
		TriggerDocument: (*Controller).handleDocument,
	},
	models.StateAwaitingPayment: {
		TriggerDocument: (*Controller).verifyPayment,
	},
}

// conversations tracks the current state of every user in a conversation.
// A user without an entry has no active conversation.
type conversations struct {
	mu     sync.RWMutex
	states map[int64]models.State
}

func newConversations() *conversations {
	return &conversations{states: make(map[int64]models.State)}
}

func (c *conversations) get(userID int64) (models.State, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	state, ok := c.states[userID]
	return state, ok
}

func (c *conversations) set(userID int64, state models.State) {
	c.mu.Lock()
	c.states[userID] = state
	c.mu.Unlock()
}

func (c *conversations) end(userID int64) {
	c.mu.Lock()
	delete(c.states, userID)
	c.mu.Unlock()
}
