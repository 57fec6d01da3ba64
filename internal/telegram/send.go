package telegram

import (
	"errors"
	"log/slog"

	"github.com/m3rciful/tradeinbot/internal/logging"

	tele "gopkg.in/telebot.v4"
)

// SendAsync enqueues an outbound call on the dispatcher, falling back to a
// synchronous call when no dispatcher is wired or the queue rejects the job.
// The current turn never waits for delivery.
func SendAsync(d *Dispatcher, c tele.Context, action string, run func() error) error {
	if d == nil {
		return run()
	}

	ctx := BuildContext(c)
	if err := d.Enqueue(ctx, action, run); err != nil {
		if errors.Is(err, ErrQueueFull) || errors.Is(err, ErrQueueClosed) {
			logging.Warn(ctx, "tg.sender", "queue.fallback",
				slog.String("action", action),
				slog.String("err", err.Error()),
			)
			return run()
		}
		return err
	}
	return nil
}

// SendText sends plain text to the current recipient through the dispatcher.
func SendText(d *Dispatcher, c tele.Context, text string, opts ...*tele.SendOptions) error {
	var sendOpts *tele.SendOptions
	if len(opts) > 0 {
		sendOpts = opts[0]
	}
	return SendAsync(d, c, "send.text", func() error {
		if sendOpts != nil {
			return c.Send(text, sendOpts)
		}
		return c.Send(text)
	})
}

// SendKeyboard sends text together with a reply markup.
func SendKeyboard(d *Dispatcher, c tele.Context, text string, markup *tele.ReplyMarkup) error {
	return SendText(d, c, text, &tele.SendOptions{ReplyMarkup: markup})
}
