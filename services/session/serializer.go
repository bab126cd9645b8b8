package session

import "sync"

// WriteSerializer serializes read-modify-write cycles per game code, so
// two in-process mutations of the same session cannot interleave and
// lose updates. Sessions are independent, so there is no cross-session
// locking. This only protects writers inside one process; snapshots are
// still last-writer-wins across processes.
type WriteSerializer struct {
	mu    sync.Mutex
	locks map[string]*gameLock
}

type gameLock struct {
	mu   sync.Mutex
	refs int
}

func NewWriteSerializer() *WriteSerializer {
	return &WriteSerializer{
		locks: make(map[string]*gameLock),
	}
}

// Do runs fn while holding the lock for gameID. Locks are reference
// counted and removed from the map once nobody holds or waits on them.
func (ws *WriteSerializer) Do(gameID string, fn func() error) error {
	ws.mu.Lock()
	gl, ok := ws.locks[gameID]
	if !ok {
		gl = &gameLock{}
		ws.locks[gameID] = gl
	}
	gl.refs++
	ws.mu.Unlock()

	gl.mu.Lock()
	err := fn()
	gl.mu.Unlock()

	ws.mu.Lock()
	gl.refs--
	if gl.refs == 0 {
		delete(ws.locks, gameID)
	}
	ws.mu.Unlock()

	return err
}
