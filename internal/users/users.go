// Package users keeps a minimal profile of every person who started the
// bot, keyed uniquely by Telegram id.
package users

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/m3rciful/tradeinbot/internal/logging"
)

// Profile is a registered bot user. At most one profile exists per
// Telegram id; every save is an upsert.
type Profile struct {
	ID          int64     `db:"id"`
	TelegramID  int64     `db:"telegram_id"`
	Username    string    `db:"username"`
	DisplayName string    `db:"display_name"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// Store persists profiles.
type Store interface {
	// Upsert inserts the profile or refreshes username/display name for an
	// existing Telegram id. Atomic per call.
	Upsert(ctx context.Context, p Profile) error
	// List returns profiles in insertion order, at most limit entries.
	List(ctx context.Context, limit int) ([]Profile, error)
}

const (
	// listQueryLimit caps the listing query; the rendered text is truncated
	// separately against the transport message ceiling.
	listQueryLimit = 500
	// renderCeiling approximates the Telegram message size limit.
	renderCeiling = 4000
)

// Service wraps the store with logging and listing presentation.
type Service struct {
	store Store
	log   *slog.Logger
}

// NewService builds the registry service.
func NewService(store Store) *Service {
	logg := logging.SVCUsers
	if logg == nil {
		logg = slog.Default()
	}
	return &Service{store: store, log: logg}
}

// Register upserts the profile for a user who started a session.
func (s *Service) Register(ctx context.Context, telegramID int64, username, displayName string) error {
	start := time.Now()
	err := s.store.Upsert(ctx, Profile{
		TelegramID:  telegramID,
		Username:    username,
		DisplayName: displayName,
	})
	if err != nil {
		s.log.LogAttrs(ctx, slog.LevelError, "user upsert failed",
			slog.String("event", "users.upsert"),
			slog.Int64("user_id", telegramID),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("register user %d: %w", telegramID, err)
	}
	s.log.LogAttrs(ctx, slog.LevelDebug, "user upserted",
		slog.String("event", "users.upsert"),
		slog.Int64("user_id", telegramID),
		slog.Duration("duration", logging.RoundMS(time.Since(start))),
	)
	return nil
}

// ListRendered returns the user listing as a single message body, truncated
// to the transport size ceiling. Truncation happens on the rendered text,
// not on the underlying query.
func (s *Service) ListRendered(ctx context.Context) (string, error) {
	profiles, err := s.store.List(ctx, listQueryLimit)
	if err != nil {
		s.log.LogAttrs(ctx, slog.LevelError, "user listing failed",
			slog.String("event", "users.list"),
			slog.String("err", err.Error()),
		)
		return "", fmt.Errorf("list users: %w", err)
	}
	return RenderList(profiles, renderCeiling), nil
}

// RenderList formats profiles one per line and truncates the result to the
// given character ceiling, appending an ellipsis marker when lines are cut.
func RenderList(profiles []Profile, ceiling int) string {
	if len(profiles) == 0 {
		return "Пока нет ни одного пользователя."
	}

	const marker = "…"
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Пользователи (%d):\n", len(profiles)))
	for i, p := range profiles {
		line := fmt.Sprintf("%d. %s", i+1, p.DisplayName)
		if p.Username != "" {
			line += " (@" + p.Username + ")"
		}
		line += fmt.Sprintf(" — %d\n", p.TelegramID)

		if len([]rune(b.String()))+len([]rune(line))+len([]rune(marker)) > ceiling {
			b.WriteString(marker)
			break
		}
		b.WriteString(line)
	}
	return strings.TrimRight(b.String(), "\n")
}
