//go:build unit
// +build unit

package connector

import (
	"errors"
	"sync"

	"gopkg.in/gomail.v2"
)

// fakeSender records delivered messages and fails the first failures calls
type fakeSender struct {
	mu       sync.Mutex
	failures int
	calls    int
	sent     []*gomail.Message
}

func (s *fakeSender) DialAndSend(m ...*gomail.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	if s.calls <= s.failures {
		return errors.New("421 service not available")
	}
	s.sent = append(s.sent, m...)
	return nil
}
