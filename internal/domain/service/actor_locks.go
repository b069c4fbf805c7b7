package service

import "sync"

// actorLocks serializes planning per actor. Entries are dropped once no
// caller holds or waits for them.
type actorLocks struct {
	mu    sync.Mutex
	locks map[int64]*actorLock
}

type actorLock struct {
	mu   sync.Mutex
	refs int
}

func newActorLocks() *actorLocks {
	return &actorLocks{locks: make(map[int64]*actorLock)}
}

// lock blocks until the actor's lock is held and returns its release func.
func (l *actorLocks) lock(uid int64) func() {
	l.mu.Lock()
	al, ok := l.locks[uid]
	if !ok {
		al = &actorLock{}
		l.locks[uid] = al
	}
	al.refs++
	l.mu.Unlock()

	al.mu.Lock()

	return func() {
		al.mu.Unlock()

		l.mu.Lock()
		al.refs--
		if al.refs == 0 {
			delete(l.locks, uid)
		}
		l.mu.Unlock()
	}
}
