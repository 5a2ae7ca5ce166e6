package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	redisdb "github.com/jobtrackr/job-trackr/internal/infrastructure/db/redis"
)

const flashCookieName = "jobtrackr_flash"

// flashStore is the queue behind Flasher. Satisfied by redisdb.FlashStore.
type flashStore interface {
	Push(ctx context.Context, key, category, message string) error
	PopAll(ctx context.Context, key string) ([]redisdb.Flash, error)
}

// Flasher implements the single-use notification pattern: messages are
// queued in Redis under an anonymous cookie id and drained on the next
// rendered page, so they never persist across unrelated requests.
type Flasher struct {
	store flashStore
}

func NewFlasher(store *redisdb.FlashStore) *Flasher {
	return &Flasher{store: store}
}

// Add queues a message for the requesting browser. Failures are swallowed:
// losing a notification must never fail the operation it annotates.
func (f *Flasher) Add(c echo.Context, category, message string) {
	key := f.cookieKey(c, true)
	if key == "" {
		return
	}
	_ = f.store.Push(c.Request().Context(), key, category, message)
}

// Pop drains and returns all pending messages for the requesting browser.
func (f *Flasher) Pop(c echo.Context) []redisdb.Flash {
	key := f.cookieKey(c, false)
	if key == "" {
		return nil
	}
	msgs, err := f.store.PopAll(c.Request().Context(), key)
	if err != nil {
		return nil
	}
	return msgs
}

// cookieKey returns the browser's flash id, minting a new cookie when asked
// to create and none exists yet.
func (f *Flasher) cookieKey(c echo.Context, create bool) string {
	if cookie, err := c.Cookie(flashCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if !create {
		return ""
	}
	id := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     flashCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
