// Copyright © 2026 The pyclewn authors

package tracer

import "sync"

// HookInstaller is the host capability that installs or removes the
// runtime-wide trace hook (the hook consulted for call events on frames
// that are not yet traced).
type HookInstaller interface {
	InstallTraceHook(Hook)
	RemoveTraceHook()
}

var (
	sessionMu sync.Mutex
	active    *Session
)

// Session represents ownership of the process-wide trace hook. Only one
// session may be active at a time; acquisition fails instead of silently
// displacing the current owner.
type Session struct {
	installer HookInstaller
	released  bool
}

// InstallSession acquires the process-wide trace slot and installs hook
// through the host's installer. It fails with ErrSessionActive while
// another session holds the slot.
func InstallSession(installer HookInstaller, hook Hook) (*Session, error) {
	sessionMu.Lock()
	defer sessionMu.Unlock()
	if active != nil {
		return nil, ErrSessionActive
	}
	s := &Session{installer: installer}
	installer.InstallTraceHook(hook)
	active = s
	return s, nil
}

// Uninstall removes the trace hook and releases the process-wide slot.
// It is idempotent.
func (s *Session) Uninstall() {
	sessionMu.Lock()
	defer sessionMu.Unlock()
	if s.released {
		return
	}
	s.installer.RemoveTraceHook()
	s.released = true
	if active == s {
		active = nil
	}
}

// Active reports whether the session still holds the trace slot.
func (s *Session) Active() bool {
	sessionMu.Lock()
	defer sessionMu.Unlock()
	return !s.released
}
