package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/m3rciful/tradeinbot/internal/logging"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// WebhookOptions declares webhook ingress settings. The public URL registered
// with Telegram embeds the shared path secret: PublicURL = BaseURL/Secret.
type WebhookOptions struct {
	Listen  string
	Port    int
	BaseURL string
	Secret  string
}

// webhookPoller serves the inbound webhook endpoint and feeds parsed updates
// to the bot. It implements tele.Poller. Every request is acknowledged with a
// fixed {"ok":true} body regardless of downstream processing.
type webhookPoller struct {
	opts WebhookOptions
}

// NewWebhookPoller builds a webhook-based poller.
func NewWebhookPoller(opts WebhookOptions) tele.Poller {
	return &webhookPoller{opts: opts}
}

func (p *webhookPoller) publicURL() string {
	return p.opts.BaseURL + "/" + p.opts.Secret
}

// Poll registers the webhook, serves the HTTP listener until stop is closed,
// then deregisters the webhook.
func (p *webhookPoller) Poll(b *tele.Bot, dest chan tele.Update, stop chan struct{}) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /"+p.opts.Secret, p.serveUpdate(dest, stop))

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", p.opts.Listen, p.opts.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	if err := registerWebhook(b, p.publicURL()); err != nil {
		logging.TG.Error("webhook registration failed",
			slog.String("event", "webhook.register"),
			slog.String("err", err.Error()),
		)
		return
	}
	logging.TG.Info("webhook registered",
		slog.String("event", "webhook.register"),
		slog.String("listen", srv.Addr),
		slog.String("public_url", p.publicURL()),
	)

	done := make(chan struct{})
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.TG.Error("webhook listener failed",
				slog.String("event", "webhook.listen"),
				slog.String("err", err.Error()),
			)
		}
		close(done)
	}()

	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	<-done

	if err := deregisterWebhook(b); err != nil {
		logging.TG.Warn("webhook deregistration failed",
			slog.String("event", "webhook.deregister"),
			slog.String("err", err.Error()),
		)
	} else {
		logging.TG.Info("webhook deregistered",
			slog.String("event", "webhook.deregister"),
		)
	}
}

// serveUpdate parses the update envelope and hands it to dispatch. The
// transport contract requires rapid acknowledgment independent of processing
// result, so the response is always {"ok":true}.
func (p *webhookPoller) serveUpdate(dest chan tele.Update, stop chan struct{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var upd tele.Update
		if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
			if logging.TG != nil {
				logging.TG.Warn("webhook decode failed",
					slog.String("event", "webhook.decode"),
					slog.String("err", err.Error()),
				)
			}
		} else {
			select {
			case dest <- upd:
			case <-stop:
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}
}

func registerWebhook(b *tele.Bot, url string) error {
	_, err := b.Raw("setWebhook", map[string]string{"url": url})
	return err
}

func deregisterWebhook(b *tele.Bot) error {
	_, err := b.Raw("deleteWebhook", map[string]string{"drop_pending_updates": "false"})
	return err
}
