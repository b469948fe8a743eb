package chatRepository

import (
	"sync"
	"testing"
	"time"

	"FintechAgent/internal/entity"
	"FintechAgent/pkg/log"
)

func newTestRepository() Repository {
	return New(log.NewDiscardLogger(), DefaultSessionTTL)
}

func TestSweep_ExpiryBoundary(t *testing.T) {
	repo := newTestRepository()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	repo.Put(entity.BillSession{UserID: "stale", State: entity.BillStateType, LastActive: now.Add(-601 * time.Second)})
	repo.Put(entity.BillSession{UserID: "fresh", State: entity.BillStateType, LastActive: now.Add(-599 * time.Second)})
	repo.Put(entity.BillSession{UserID: "exact", State: entity.BillStateType, LastActive: now.Add(-600 * time.Second)})

	expired := repo.Sweep(now)

	if len(expired) != 1 || expired[0] != "stale" {
		t.Fatalf("expired = %v, want [stale]", expired)
	}
	if _, ok := repo.Get("stale"); ok {
		t.Error("stale session should be removed")
	}
	if _, ok := repo.Get("fresh"); !ok {
		t.Error("fresh session should survive")
	}
	if _, ok := repo.Get("exact"); !ok {
		t.Error("session idle exactly for the TTL should survive")
	}
}

func TestSweep_SkipsLockedSession(t *testing.T) {
	repo := newTestRepository()
	now := time.Now()
	repo.Put(entity.BillSession{UserID: "busy", State: entity.BillStateType, LastActive: now.Add(-time.Hour)})

	unlock := repo.Lock("busy")
	if expired := repo.Sweep(now); len(expired) != 0 {
		t.Errorf("expired = %v while user lock held", expired)
	}
	unlock()

	if expired := repo.Sweep(now); len(expired) != 1 {
		t.Errorf("expired = %v after unlock, want [busy]", expired)
	}
}

func TestTouch(t *testing.T) {
	repo := newTestRepository()
	then := time.Now().Add(-time.Minute)
	now := time.Now()

	if repo.Touch("nobody", now) {
		t.Error("Touch on a missing session should report false")
	}
	if repo.Len() != 0 {
		t.Error("Touch must not create sessions")
	}

	repo.Put(entity.BillSession{UserID: "u1", State: entity.BillStateType, LastActive: then})
	if !repo.Touch("u1", now) {
		t.Fatal("Touch on an existing session should report true")
	}
	session, _ := repo.Get("u1")
	if !session.LastActive.Equal(now) {
		t.Errorf("LastActive = %v, want %v", session.LastActive, now)
	}
}

func TestDelete(t *testing.T) {
	repo := newTestRepository()
	repo.Put(entity.BillSession{UserID: "u1", State: entity.BillStateType, LastActive: time.Now()})

	if !repo.Delete("u1") {
		t.Error("first Delete should report true")
	}
	if repo.Delete("u1") {
		t.Error("second Delete should report false")
	}
}

func TestLock_SerializesSameUser(t *testing.T) {
	repo := newTestRepository()
	repo.Put(entity.BillSession{UserID: "u1", State: entity.BillStateNumber, BillNumber: "", LastActive: time.Now()})

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := repo.Lock("u1")
			defer unlock()

			session, _ := repo.Get("u1")
			session.BillNumber += "x"
			repo.Put(session)
		}()
	}
	wg.Wait()

	session, _ := repo.Get("u1")
	if len(session.BillNumber) != workers {
		t.Errorf("got %d updates, want %d", len(session.BillNumber), workers)
	}
}

func TestLock_UnlockIsIdempotentAndReleasesEntry(t *testing.T) {
	repo := newTestRepository().(*sessionRepository)

	unlock := repo.Lock("u1")
	unlock()
	unlock()

	repo.mu.Lock()
	n := len(repo.locks)
	repo.mu.Unlock()
	if n != 0 {
		t.Errorf("lock table has %d entries after release, want 0", n)
	}

	done := make(chan struct{})
	go func() {
		repo.Lock("u1")()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock not released")
	}
}

func TestLock_DifferentUsersDoNotBlock(t *testing.T) {
	repo := newTestRepository()
	unlockA := repo.Lock("a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		repo.Lock("b")()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock for user b blocked on user a")
	}
}
