package cart

import "sync"

// Sessions maps session ids to carts. Carts live for the session only;
// nothing is persisted.
type Sessions struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

func NewSessions() *Sessions {
	return &Sessions{carts: map[string]*Cart{}}
}

// Get returns the cart for sessionID, creating an empty one on first use.
func (s *Sessions) Get(sessionID string) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[sessionID]
	if !ok {
		c = New()
		s.carts[sessionID] = c
	}
	return c
}

// Drop discards the cart for sessionID.
func (s *Sessions) Drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
}
