package bot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/tradeinbot/internal/intake"

	tele "gopkg.in/telebot.v4"
)

func TestFormatLead(t *testing.T) {
	lead := intake.Lead{
		Submitter: intake.Submitter{ID: 7, Username: "bob", DisplayName: "Bob B"},
		Draft: intake.Draft{
			Model:     "iPhone 12",
			Condition: "used",
			Kit:       "charger only",
			District:  "downtown",
			Phone:     "+79990001111",
		},
	}

	got := FormatLead(lead)
	want := "📱 Новая заявка\n" +
		"Имя: Bob B\n" +
		"Username: @bob\n" +
		"Телефон: +79990001111\n" +
		"Модель: iPhone 12\n" +
		"Состояние: used\n" +
		"Комплект: charger only\n" +
		"Район: downtown"
	assert.Equal(t, want, got)
}

func TestFormatLeadWithoutUsername(t *testing.T) {
	lead := intake.Lead{
		Submitter: intake.Submitter{ID: 7, DisplayName: "Bob"},
		Draft:     intake.Draft{Model: "m", Condition: "c", Kit: "k", District: "d", Phone: "p"},
	}
	assert.NotContains(t, FormatLead(lead), "Username:")
}

func TestNotifyTargetsAdmin(t *testing.T) {
	n := NewNotifier(testAdminID, nil)
	admin := &fakeSender{}
	n.Bind(admin)

	lead := intake.Lead{
		Submitter: intake.Submitter{DisplayName: "Bob"},
		Draft:     intake.Draft{Model: "m"},
	}
	n.Notify(context.Background(), lead)

	admin.mu.Lock()
	defer admin.mu.Unlock()
	require.Len(t, admin.sent, 1)
	assert.Equal(t, tele.ChatID(testAdminID), admin.to[0])
	assert.Equal(t, FormatLead(lead), admin.sent[0])
}

func TestNotifyWithoutBoundSender(t *testing.T) {
	n := NewNotifier(testAdminID, nil)
	// Must not panic; the lead is dropped with a log line.
	n.Notify(context.Background(), intake.Lead{})
}
