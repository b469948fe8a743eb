package chatRepository

import (
	"time"

	"FintechAgent/internal/entity"
	"github.com/sirupsen/logrus"
)

// DefaultSessionTTL is how long a session may stay idle before a sweep
// removes it.
const DefaultSessionTTL = 600 * time.Second

// Repository holds bill sessions for the lifetime of the process.
type Repository interface {
	Get(userID string) (entity.BillSession, bool)
	Put(session entity.BillSession)
	Delete(userID string) bool
	// Touch refreshes LastActive when the session exists.
	Touch(userID string, now time.Time) bool
	// Sweep removes sessions idle longer than the TTL and returns their
	// user ids. Sessions whose user lock is held are left alone.
	Sweep(now time.Time) []string
	// Lock serializes turns for one user id. The returned func releases it.
	Lock(userID string) func()
	Len() int
}

func New(log *logrus.Logger, ttl time.Duration) Repository {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &sessionRepository{
		sessions: make(map[string]entity.BillSession),
		locks:    make(map[string]*userLock),
		ttl:      ttl,
		log:      log,
	}
}
