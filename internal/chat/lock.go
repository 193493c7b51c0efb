package chat

import (
	"context"
	"sync"
)

// TurnLocker serializes turns on the same conversation.
type TurnLocker interface {
	Lock(ctx context.Context, conversationID uint64) (unlock func(), err error)
}

// LocalLocker is an in-process TurnLocker. Entries are dropped once no
// goroutine holds or waits on them.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[uint64]*lockEntry
}

type lockEntry struct {
	sem  chan struct{}
	refs int
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[uint64]*lockEntry)}
}

func (l *LocalLocker) Lock(ctx context.Context, conversationID uint64) (func(), error) {
	l.mu.Lock()
	e, ok := l.locks[conversationID]
	if !ok {
		e = &lockEntry{sem: make(chan struct{}, 1)}
		l.locks[conversationID] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		l.release(conversationID, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.sem
			l.release(conversationID, e)
		})
	}, nil
}

func (l *LocalLocker) release(id uint64, e *lockEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.locks, id)
	}
}

func (l *LocalLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
