package cache

import "context"

// UndoToken restores an entry to its state before an ApplyPatch.
type UndoToken struct {
	key     Key
	entry   *entry
	before  any
	version uint64
}

func (t UndoToken) Key() Key { return t.key }

// ApplyPatch replaces the payload of key with mutate(current) and notifies
// subscribers. It reports false, and changes nothing, when the entry holds
// no data.
func ApplyPatch[T any](s *Store, key Key, mutate func(T) T) (UndoToken, bool) {
	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok || !e.hasData {
		s.mu.Unlock()
		return UndoToken{}, false
	}
	cur, ok := e.data.(T)
	if !ok {
		s.mu.Unlock()
		return UndoToken{}, false
	}
	token := UndoToken{key: key, entry: e, before: e.data, version: e.version}
	e.setLocalData(mutate(cur))
	s.notifyLocked(e)
	s.mu.Unlock()
	s.flush()
	return token, true
}

// UpdateData is ApplyPatch without an undo token.
func UpdateData[T any](s *Store, key Key, mutate func(T) T) bool {
	_, ok := ApplyPatch(s, key, mutate)
	return ok
}

// Rollback restores the payload captured by token. When the server has
// written the entry since the patch, or the entry is gone, the current
// state is kept and Rollback reports false.
func (s *Store) Rollback(token UndoToken) bool {
	if token.entry == nil {
		return false
	}
	s.mu.Lock()
	e, ok := s.entries[token.key]
	if !ok || e != token.entry || e.version != token.version {
		s.mu.Unlock()
		s.log.Debug(context.Background(), "rollback skipped, server state is newer", "key", token.key)
		return false
	}
	e.setLocalData(token.before)
	s.notifyLocked(e)
	s.mu.Unlock()
	s.flush()
	return true
}

// setLocalData replaces the payload without counting it as a server write.
func (e *entry) setLocalData(v any) {
	e.data = v
	if e.provides != nil {
		e.tags = e.provides(v)
	}
}
