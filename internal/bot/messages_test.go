package bot

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMessages(t *testing.T) {
	m, err := LoadMessages()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(m.Rules, "🔹"))
	assert.Equal(t, "Пользовательское_соглашение.pdf", m.TermsFileName)

	instructions := fmt.Sprintf(m.PaymentInstructions, "500", "+992 111 88 1700")
	assert.Contains(t, instructions, "500 рублей")
	assert.Contains(t, instructions, "+992 111 88 1700")
	assert.NotContains(t, instructions, "%!")

	accepted := fmt.Sprintf(m.ReceiptAccepted, "reg.pdf", "✅ регистрация оригинальная")
	assert.Equal(t, "✅ Чек принят.\n📄 Результат анализа «reg.pdf»:\n\n✅ регистрация оригинальная", accepted)

	stats := fmt.Sprintf(m.Stats, 1, 2, 3, 4)
	assert.NotContains(t, stats, "%!")
}

func TestParseMessages_MissingKey(t *testing.T) {
	_, err := ParseMessages([]byte(`rules: "hi"`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "button_download_terms")

	_, err = ParseMessages([]byte("rules: [unterminated"))
	assert.Error(t, err)
}
