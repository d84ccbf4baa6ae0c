package perf

import "time"

type phaseEntry struct {
	sessionKey string
	phaseName  string
	startTime  time.Time
}

// phaseStacks holds the open phases of every session of a Tracker. In shared mode all sessions
// push onto one stack, so a session can find another session's phase on top when it tries to
// close its own. In scoped mode each session gets its own stack and that cannot happen.
type phaseStacks struct {
	scoped    bool
	shared    []phaseEntry
	bySession map[string][]phaseEntry
}

func newPhaseStacks(scoped bool) *phaseStacks {
	return &phaseStacks{
		scoped:    scoped,
		bySession: make(map[string][]phaseEntry),
	}
}

func (p *phaseStacks) stackFor(sessionKey string) []phaseEntry {
	if p.scoped {
		return p.bySession[sessionKey]
	}
	return p.shared
}

func (p *phaseStacks) setStack(sessionKey string, stack []phaseEntry) {
	if !p.scoped {
		p.shared = stack
		return
	}
	if len(stack) == 0 {
		delete(p.bySession, sessionKey)
		return
	}
	p.bySession[sessionKey] = stack
}

func (p *phaseStacks) push(e phaseEntry) {
	p.setStack(e.sessionKey, append(p.stackFor(e.sessionKey), e))
}

// pop removes the top entry visible to sessionKey. In shared mode that entry may belong to a
// different session.
func (p *phaseStacks) pop(sessionKey string) (phaseEntry, bool) {
	stack := p.stackFor(sessionKey)
	if len(stack) == 0 {
		return phaseEntry{}, false
	}
	top := stack[len(stack)-1]
	p.setStack(sessionKey, stack[:len(stack)-1])
	return top, true
}

// remove takes the most recent entry of the session for the named phase out of the stack.
func (p *phaseStacks) remove(sessionKey, phaseName string) (phaseEntry, bool) {
	stack := p.stackFor(sessionKey)
	for i := len(stack) - 1; i >= 0; i-- {
		e := stack[i]
		if e.sessionKey != sessionKey || e.phaseName != phaseName {
			continue
		}
		p.setStack(sessionKey, append(stack[:i:i], stack[i+1:]...))
		return e, true
	}
	return phaseEntry{}, false
}

// removeSession takes every entry of the session out of the stack, most recent first.
func (p *phaseStacks) removeSession(sessionKey string) []phaseEntry {
	stack := p.stackFor(sessionKey)

	var removed []phaseEntry
	kept := stack[:0:0]
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].sessionKey == sessionKey {
			removed = append(removed, stack[i])
		}
	}
	for _, e := range stack {
		if e.sessionKey != sessionKey {
			kept = append(kept, e)
		}
	}
	p.setStack(sessionKey, kept)

	return removed
}

func (p *phaseStacks) depth() int {
	if !p.scoped {
		return len(p.shared)
	}
	n := 0
	for _, stack := range p.bySession {
		n += len(stack)
	}
	return n
}
