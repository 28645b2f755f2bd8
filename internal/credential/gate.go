package credential

import (
	"strings"
	"sync"
)

// Gate holds the current session cookie. The TUI goroutine writes it; fetch
// goroutines read it at request time.
type Gate struct {
	mu      sync.RWMutex
	value   string
	present bool
}

func NewGate(value string) *Gate {
	g := &Gate{}
	g.Set(value)
	return g
}

func (g *Gate) Set(value string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.value = value
	g.present = true
}

func (g *Gate) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.value = ""
	g.present = false
}

func (g *Gate) Get() (string, bool) {
	if g == nil {
		return "", false
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.value, g.present
}

// IsValid reports whether a non-blank cookie is set. No format or expiry check
// happens here; a stale cookie only shows up as a remote error.
func (g *Gate) IsValid() bool {
	value, ok := g.Get()
	return ok && strings.TrimSpace(value) != ""
}
