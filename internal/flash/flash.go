// Package flash keeps one-shot messages between a redirect and the next
// rendered page. Messages live in a Redis list keyed by a random cookie id.
package flash

import (
	"encoding/json" // Message encoding
	"time"          // List expiry

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/google/uuid"       // Cookie ids
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Structured logging
)

const cookieName = "flash_id"

// Message categories used by the templates
const (
	Success = "success"
	Info    = "info"
	Warning = "warning"
	Danger  = "danger"
)

// Message is a single flash entry
type Message struct {
	Category string `json:"category"`
	Text     string `json:"text"`
}

// Store reads and writes flash messages
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore returns a Store keeping unread messages for ttl
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func key(id string) string {
	return "flash:" + id
}

// id returns the caller's flash id, issuing a cookie when there is none yet
func (s *Store) id(c *gin.Context) string {
	if id, err := c.Cookie(cookieName); err == nil && id != "" {
		return id
	}
	if id, ok := c.Get(cookieName); ok {
		return id.(string) // Issued earlier in this request
	}
	id := uuid.NewString()
	c.SetCookie(cookieName, id, 0, "/", "", false, true)
	c.Set(cookieName, id)
	return id
}

// Add queues a message for the next rendered page
func (s *Store) Add(c *gin.Context, category, text string) {
	b, _ := json.Marshal(Message{Category: category, Text: text})
	k := key(s.id(c))
	ctx := c.Request.Context()
	pipe := s.rdb.TxPipeline()
	pipe.RPush(ctx, k, b)
	pipe.Expire(ctx, k, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		logrus.WithError(err).Warn("Failed to store flash message")
	}
}

// Pop returns and clears the queued messages
func (s *Store) Pop(c *gin.Context) []Message {
	id, err := c.Cookie(cookieName)
	if err != nil || id == "" {
		return nil
	}
	ctx := c.Request.Context()
	k := key(id)
	pipe := s.rdb.TxPipeline()
	lrange := pipe.LRange(ctx, k, 0, -1)
	pipe.Del(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		logrus.WithError(err).Warn("Failed to read flash messages")
		return nil
	}
	msgs := make([]Message, 0, len(lrange.Val()))
	for _, raw := range lrange.Val() {
		var m Message
		if json.Unmarshal([]byte(raw), &m) == nil {
			msgs = append(msgs, m)
		}
	}
	return msgs
}

// Clear drops queued messages without showing them
func (s *Store) Clear(c *gin.Context) {
	if id, err := c.Cookie(cookieName); err == nil && id != "" {
		_ = s.rdb.Del(c.Request.Context(), key(id)).Err()
	}
}
