package chatRepository

import (
	"sync"
	"time"

	"FintechAgent/internal/entity"
	"FintechAgent/pkg/metrics"
	"github.com/sirupsen/logrus"
)

type userLock struct {
	mu   sync.Mutex
	refs int
}

type sessionRepository struct {
	mu       sync.Mutex
	sessions map[string]entity.BillSession
	// locks only holds entries for users with a turn in flight.
	locks map[string]*userLock
	ttl   time.Duration
	log   *logrus.Logger
}

func (r *sessionRepository) Get(userID string) (entity.BillSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[userID]
	return session, ok
}

func (r *sessionRepository) Put(session entity.BillSession) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[session.UserID] = session
	metrics.ActiveSessions.Set(float64(len(r.sessions)))
}

func (r *sessionRepository) Delete(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[userID]; !ok {
		return false
	}
	delete(r.sessions, userID)
	metrics.ActiveSessions.Set(float64(len(r.sessions)))
	return true
}

func (r *sessionRepository) Touch(userID string, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[userID]
	if !ok {
		return false
	}
	session.LastActive = now
	r.sessions[userID] = session
	return true
}

func (r *sessionRepository) Sweep(now time.Time) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var expired []string
	for userID, session := range r.sessions {
		if session.IdleFor(now) <= r.ttl {
			continue
		}
		if _, busy := r.locks[userID]; busy {
			continue
		}
		delete(r.sessions, userID)
		expired = append(expired, userID)
	}

	if len(expired) > 0 {
		metrics.SessionsExpired.Add(float64(len(expired)))
		metrics.ActiveSessions.Set(float64(len(r.sessions)))
		for _, userID := range expired {
			r.log.WithFields(logrus.Fields{
				"user_id": userID,
			}).Info("Session expired and was removed")
		}
	}

	return expired
}

func (r *sessionRepository) Lock(userID string) func() {
	r.mu.Lock()
	l, ok := r.locks[userID]
	if !ok {
		l = &userLock{}
		r.locks[userID] = l
	}
	l.refs++
	r.mu.Unlock()

	l.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Unlock()

			r.mu.Lock()
			l.refs--
			if l.refs == 0 {
				delete(r.locks, userID)
			}
			r.mu.Unlock()
		})
	}
}

func (r *sessionRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.sessions)
}
