package services

import "sync"

// lockTable guards artifact folders: at most one mutator may run a
// {backup, mutate, metadata write} sequence per (workspace, artifact) pair at
// a time. Locks are created lazily and never removed; the table is bounded by
// the number of artifacts ever touched in-process.
type lockTable struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[string]*sync.Mutex)}
}

// acquire locks the artifact and returns its unlock function.
func (t *lockTable) acquire(workspaceID, artifactID string) func() {
	key := workspaceID + "/" + artifactID

	t.mu.Lock()
	l, ok := t.locks[key]
	if !ok {
		l = &sync.Mutex{}
		t.locks[key] = l
	}
	t.mu.Unlock()

	l.Lock()
	return l.Unlock
}
