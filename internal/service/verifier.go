package service

import (
	"strings"
	"unicode"

	"regcheck-bot/internal/models"
)

const (
	// registrationMarker is the legal phrase "его постановки на учет по месту
	// пребывания" after normalization.
	registrationMarker = "егопостановкинаучетпоместупребывания"

	PaymentAmount    = "500"
	PaymentRecipient = "+992 111 88 1700"
)

var (
	paymentRecipientToken = stripSpace(PaymentRecipient)
	receiptPunctuation    = strings.NewReplacer("₽", "", ",", "", ".", "")
)

// ClassifyRegistration is a substring heuristic: the document is genuine when
// it contains the registration phrase, ignoring case and whitespace.
func ClassifyRegistration(text string) models.Verdict {
	if strings.Contains(normalize(text), registrationMarker) {
		return models.VerdictGenuine
	}
	return models.VerdictFake
}

// ValidateReceipt accepts a receipt that mentions both the amount and the
// recipient phone number, ignoring case, whitespace, "₽" and separators.
func ValidateReceipt(text string) bool {
	normalized := receiptPunctuation.Replace(normalize(text))
	return strings.Contains(normalized, PaymentAmount) && strings.Contains(normalized, paymentRecipientToken)
}

// normalize lowercases, folds "ё" into "е" and drops all whitespace.
func normalize(text string) string {
	return strings.ReplaceAll(stripSpace(strings.ToLower(text)), "ё", "е")
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
