package service

import (
	"testing"

	"regcheck-bot/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestClassifyRegistration(t *testing.T) {
	tests := []struct {
		name string
		text string
		want models.Verdict
	}{
		{"exact phrase", "его постановки на учет по месту пребывания", models.VerdictGenuine},
		{"yo spelling", "Уведомление о прибытии ... его постановки на учёт по месту пребывания", models.VerdictGenuine},
		{"upper case", "ЕГО ПОСТАНОВКИ НА УЧЁТ ПО МЕСТУ ПРЕБЫВАНИЯ", models.VerdictGenuine},
		{"broken by whitespace", "его пос\nтановки  на\tучет по ме сту пре\r\nбывания", models.VerdictGenuine},
		{"non-breaking spaces", "его\u00a0постановки\u00a0на\u00a0учет\u00a0по\u00a0месту\u00a0пребывания", models.VerdictGenuine},
		{"partial phrase", "его постановки на учет", models.VerdictFake},
		{"empty", "", models.VerdictFake},
		{"unrelated", "Справка о доходах", models.VerdictFake},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyRegistration(tt.text))
		})
	}
}

func TestClassifyRegistration_Deterministic(t *testing.T) {
	text := "Отметка: его постановки на учет по месту пребывания."
	first := ClassifyRegistration(text)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ClassifyRegistration(text))
	}
}

func TestValidateReceipt(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"plain", "Сумма 500 Получатель +992 111 88 1700", true},
		{"hyphenated phone", "Итого: 500.00 ₽\nНомер получателя: +992-111-88-1700", false},
		{"compact phone", "перевод 500₽ на +992111881700", true},
		{"spaced phone", "500 руб. + 992 111 881 700", true},
		{"thousands separator", "Сумма: 1,500.00 получатель +992 111 88 1700", true},
		{"decimal comma", "Сумма 500,00 ₽ Получатель +992.111.88.1700", true},
		{"missing amount", "Получатель +992 111 88 1700, сумма 400", false},
		{"missing recipient", "Сумма 500 Получатель +992 111 88 1701", false},
		{"missing plus", "Сумма 500 Получатель 992 111 88 1700", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateReceipt(tt.text))
		})
	}
}
