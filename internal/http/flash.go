package http

import (
	"encoding/gob"

	"github.com/gin-gonic/gin"

	"github.com/Crabmann2025/Book-Alchemy/internal/auth"
)

const flashSessionKey = "flashes"

// Flash categories
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashError   = "error"
)

// Flash is a one-shot notice shown on the next rendered page.
type Flash struct {
	Category string
	Message  string
}

func init() {
	gob.Register([]Flash{})
}

// FlashStore keeps pending notices in the user's session.
// A nil store or session manager drops notices.
type FlashStore struct {
	sessions *auth.SessionManager
}

func NewFlashStore(sessions *auth.SessionManager) *FlashStore {
	return &FlashStore{sessions: sessions}
}

func (f *FlashStore) Add(c *gin.Context, category, message string) {
	if f == nil || f.sessions == nil {
		return
	}
	ctx := c.Request.Context()
	pending, _ := f.sessions.Get(ctx, flashSessionKey).([]Flash)
	f.sessions.Put(ctx, flashSessionKey, append(pending, Flash{Category: category, Message: message}))
}

// Pop returns and clears the pending notices.
func (f *FlashStore) Pop(c *gin.Context) []Flash {
	if f == nil || f.sessions == nil {
		return nil
	}
	ctx := c.Request.Context()
	if !f.sessions.Exists(ctx, flashSessionKey) {
		return nil
	}
	flashes, _ := f.sessions.Pop(ctx, flashSessionKey).([]Flash)
	return flashes
}
