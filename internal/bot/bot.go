package bot

import (
	"context"
	"time"

	"github.com/m3rciful/tradeinbot/config"
	"github.com/m3rciful/tradeinbot/internal/intake"
	"github.com/m3rciful/tradeinbot/internal/logging"
	"github.com/m3rciful/tradeinbot/internal/telegram"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// Registry is the user-registry surface the bot depends on.
type Registry interface {
	Register(ctx context.Context, telegramID int64, username, displayName string) error
	ListRendered(ctx context.Context) (string, error)
}

// App wires the menu presenter, the intake conversation, the lead notifier,
// and the user registry into a runnable bot. It is constructed explicitly at
// startup and passed to the runtime; there is no ambient application handle.
type App struct {
	cfg        *config.Config
	registry   Registry
	sessions   *intake.Manager
	dispatcher *telegram.Dispatcher
	notifier   *Notifier
	commands   *telegram.CommandSet
}

// New builds the bot application.
func New(cfg *config.Config, registry Registry, dispatcher *telegram.Dispatcher) *App {
	a := &App{
		cfg:        cfg,
		registry:   registry,
		sessions:   intake.NewManager(),
		dispatcher: dispatcher,
		notifier:   NewNotifier(cfg.Telegram.AdminID, dispatcher),
		commands:   &telegram.CommandSet{},
	}

	a.commands.Register(telegram.Command{Name: "/start", Handler: a.onStart, Description: "Показать меню"})
	a.commands.Register(telegram.Command{Name: "/help", Handler: a.onHelp, Description: "Справка"})
	a.commands.Register(telegram.Command{Name: "/cancel", Handler: a.onCancel, Description: "Отменить заявку"})
	a.commands.Register(telegram.Command{Name: "/users", Handler: a.onUsers, Description: "Список пользователей", AdminOnly: true})

	return a
}

// RunOptions assembles the runtime options for telegram.Run.
func (a *App) RunOptions() telegram.RunOptions {
	adminOpts := telegram.AdminOptions{
		AdminID:  a.cfg.Telegram.AdminID,
		OnReject: a.rejectNonAdmin,
	}

	routes := a.commands.Routes(adminOpts)
	routes = append(routes,
		telegram.Route{Endpoint: tele.OnText, Handler: a.onText},
		telegram.Route{Endpoint: tele.OnContact, Handler: a.onContact},
		telegram.Route{Endpoint: tele.OnCallback, Handler: a.onCallback},
	)

	return telegram.RunOptions{
		Token:                  a.cfg.Telegram.Token,
		RunMode:                a.cfg.Telegram.RunMode,
		LongPollTimeoutSeconds: a.cfg.Telegram.LongPollTimeoutSeconds,
		Webhook: telegram.WebhookOptions{
			Listen:  a.cfg.Webhook.Listen,
			Port:    a.cfg.Webhook.Port,
			BaseURL: a.cfg.Webhook.BaseURL,
			Secret:  a.cfg.Webhook.Secret,
		},
		Dispatcher: a.dispatcher,
		Middlewares: telegram.DefaultMiddlewares(
			time.Duration(a.cfg.RateLimit.IntervalMS)*time.Millisecond, nil,
		),
		Routes:   routes,
		Commands: a.commands,
		OnStart: func(_ context.Context, rt telegram.Runtime) error {
			a.notifier.Bind(rt.Bot)
			return nil
		},
	}
}

func (a *App) isAdmin(c tele.Context) bool {
	return c.Sender() != nil && c.Sender().ID == a.cfg.Telegram.AdminID
}

func sessionKey(c tele.Context) intake.Key {
	k := intake.Key{}
	if u := c.Sender(); u != nil {
		k.UserID = u.ID
	}
	if chat := c.Chat(); chat != nil {
		k.ChatID = chat.ID
	}
	return k
}

func displayName(u *tele.User) string {
	if u == nil {
		return ""
	}
	name := u.FirstName
	if u.LastName != "" {
		name += " " + u.LastName
	}
	return name
}

func (a *App) onStart(c tele.Context) error {
	user := c.Sender()
	if user != nil {
		// Off the turn's critical path: the welcome never waits on storage,
		// and a failed upsert is logged inside the service and swallowed.
		go func(id int64, username, name string) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = a.registry.Register(ctx, id, username, name)
		}(user.ID, user.Username, displayName(user))
	}
	return telegram.SendKeyboard(a.dispatcher, c, textGreeting, MenuMarkup(a.isAdmin(c)))
}

func (a *App) onHelp(c tele.Context) error {
	text := textHelp
	if a.isAdmin(c) {
		text += textHelpAdmin
	}
	return telegram.SendText(a.dispatcher, c, text)
}

func (a *App) onCancel(c tele.Context) error {
	key := sessionKey(c)
	if s, ok := a.sessions.Lookup(key); ok && s.State != intake.StateIdle {
		outcome := s.Cancel()
		return a.applyOutcome(c, key, outcome)
	}
	return telegram.SendKeyboard(a.dispatcher, c, textNoActiveForm, MenuMarkup(a.isAdmin(c)))
}

func (a *App) onUsers(c tele.Context) error {
	ctx := telegram.BuildContext(c)
	listing, err := a.registry.ListRendered(ctx)
	if err != nil {
		return telegram.SendText(a.dispatcher, c, textListingFailed)
	}
	return telegram.SendText(a.dispatcher, c, listing)
}

func (a *App) rejectNonAdmin(c tele.Context) error {
	return telegram.SendText(a.dispatcher, c, textNotAdmin)
}

func (a *App) onText(c tele.Context) error {
	key := sessionKey(c)

	if a.sessions.InProgress(key) {
		s, ok := a.sessions.Lookup(key)
		if !ok {
			return nil
		}
		outcome := s.Advance(a.submitter(c), intake.Input{Text: c.Text()})
		return a.applyOutcome(c, key, outcome)
	}

	switch RouteMenu(c.Text()) {
	case ActionSubmit:
		s := a.sessions.Start(key)
		return a.applyOutcome(c, key, s.Begin())
	case ActionAbout:
		return telegram.SendText(a.dispatcher, c, textAbout)
	case ActionContacts:
		return telegram.SendKeyboard(a.dispatcher, c, textContacts, ContactsMarkup())
	case ActionUsers:
		if !a.isAdmin(c) {
			return a.rejectNonAdmin(c)
		}
		return a.onUsers(c)
	default:
		if err := telegram.SendText(a.dispatcher, c, textMenuOnly); err != nil {
			return err
		}
		return telegram.SendKeyboard(a.dispatcher, c, textGreeting, MenuMarkup(a.isAdmin(c)))
	}
}

func (a *App) onContact(c tele.Context) error {
	key := sessionKey(c)
	if !a.sessions.InProgress(key) {
		return telegram.SendKeyboard(a.dispatcher, c, textMenuOnly, MenuMarkup(a.isAdmin(c)))
	}
	s, ok := a.sessions.Lookup(key)
	if !ok {
		return nil
	}

	var contact *intake.Contact
	if msg := c.Message(); msg != nil && msg.Contact != nil {
		contact = &intake.Contact{PhoneNumber: msg.Contact.PhoneNumber}
	}
	outcome := s.Advance(a.submitter(c), intake.Input{Contact: contact})
	return a.applyOutcome(c, key, outcome)
}

func (a *App) onCallback(c tele.Context) error {
	key := telegram.CallbackKey(c)
	_ = c.Respond()

	switch key {
	case showPhoneUnique:
		return telegram.SendText(a.dispatcher, c, textPhone)
	default:
		logging.Debug(telegram.BuildContext(c), "tg", "callback.unknown",
			slog.String("cb_key", logging.SanitizeLimit(key, 128)),
		)
		return nil
	}
}

func (a *App) submitter(c tele.Context) intake.Submitter {
	u := c.Sender()
	if u == nil {
		return intake.Submitter{}
	}
	return intake.Submitter{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: displayName(u),
	}
}

// applyOutcome sends the outcome's replies, dispatches a completed lead to
// the administrator, and destroys the session on a terminal transition. The
// submitter's replies are enqueued before the notification, so the
// acknowledgment never depends on the admin delivery.
func (a *App) applyOutcome(c tele.Context, key intake.Key, outcome intake.Outcome) error {
	for _, r := range outcome.Replies {
		var err error
		switch {
		case r.RequestContact:
			err = telegram.SendKeyboard(a.dispatcher, c, r.Text, telegram.ContactRequest(intake.ContactButtonLabel()))
		case r.RemoveKeyboard:
			err = telegram.SendKeyboard(a.dispatcher, c, r.Text, telegram.RemoveKeyboard())
		default:
			err = telegram.SendText(a.dispatcher, c, r.Text)
		}
		if err != nil {
			return err
		}
	}

	if outcome.Lead != nil {
		a.notifier.Notify(telegram.BuildContext(c), *outcome.Lead)
	}
	if outcome.Done {
		a.sessions.End(key)
	}
	return nil
}
