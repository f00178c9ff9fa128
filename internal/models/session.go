package models

import "time"

// State is the stage of a user's conversation with the bot.
type State string

const (
	StateChoosing         State = "choosing"
	StateAwaitingDocument State = "awaiting_document"
	StateAwaitingPayment  State = "awaiting_payment"
)

type Verdict string

const (
	VerdictGenuine Verdict = "genuine"
	VerdictFake    Verdict = "fake"
)

// Label returns the text shown to the user and written to the action log.
func (v Verdict) Label() string {
	if v == VerdictGenuine {
		return "✅ регистрация оригинальная"
	}
	return "❌ регистрация фальшивая"
}

// Session links a classified registration document to the pending payment.
type Session struct {
	FilePath  string
	FileName  string
	Verdict   Verdict
	CreatedAt time.Time
}
