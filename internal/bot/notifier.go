package bot

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/m3rciful/tradeinbot/internal/intake"
	"github.com/m3rciful/tradeinbot/internal/logging"
	"github.com/m3rciful/tradeinbot/internal/telegram"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// Sender is the outbound half of the bot API used by the notifier.
type Sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Notifier delivers completed leads to the administrator. Delivery is
// enqueued on the dispatcher and never blocks the submitter's turn; a
// failed delivery is logged and dropped.
type Notifier struct {
	adminID    int64
	dispatcher *telegram.Dispatcher
	sender     atomic.Pointer[senderBox]
}

type senderBox struct{ s Sender }

// NewNotifier builds a notifier for the configured administrator.
func NewNotifier(adminID int64, dispatcher *telegram.Dispatcher) *Notifier {
	return &Notifier{adminID: adminID, dispatcher: dispatcher}
}

// Bind wires the outbound sender once the bot is constructed.
func (n *Notifier) Bind(s Sender) {
	n.sender.Store(&senderBox{s: s})
}

// Notify enqueues the lead summary for the administrator.
func (n *Notifier) Notify(ctx context.Context, lead intake.Lead) {
	box := n.sender.Load()
	if box == nil || box.s == nil {
		logging.Error(ctx, "notifier", "lead.drop",
			slog.String("err", "no sender bound"),
		)
		return
	}

	sender := box.s
	text := FormatLead(lead)
	run := func() error {
		_, err := sender.Send(tele.ChatID(n.adminID), text)
		return err
	}

	if n.dispatcher == nil {
		if err := run(); err != nil {
			logging.Error(ctx, "notifier", "lead.send",
				slog.String("err", err.Error()),
			)
		}
		return
	}
	if err := n.dispatcher.Enqueue(ctx, "lead.notify", run); err != nil {
		// At-most-once: a saturated queue loses the notification, not the turn.
		logging.Error(ctx, "notifier", "lead.drop",
			slog.String("err", err.Error()),
		)
	}
}

// FormatLead renders the fixed lead summary, one labeled line per field.
func FormatLead(lead intake.Lead) string {
	var b strings.Builder
	b.WriteString("📱 Новая заявка\n")
	fmt.Fprintf(&b, "Имя: %s\n", lead.Submitter.DisplayName)
	if lead.Submitter.Username != "" {
		fmt.Fprintf(&b, "Username: @%s\n", lead.Submitter.Username)
	}
	fmt.Fprintf(&b, "Телефон: %s\n", lead.Draft.Phone)
	fmt.Fprintf(&b, "Модель: %s\n", lead.Draft.Model)
	fmt.Fprintf(&b, "Состояние: %s\n", lead.Draft.Condition)
	fmt.Fprintf(&b, "Комплект: %s\n", lead.Draft.Kit)
	fmt.Fprintf(&b, "Район: %s", lead.Draft.District)
	return b.String()
}
