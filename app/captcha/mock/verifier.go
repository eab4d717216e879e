package mock

import (
	"context"
	"sync"
)

// Verifier accepts the tokens listed in Valid and records every token it sees.
type Verifier struct {
	Valid map[string]bool
	Err   error

	mutex sync.Mutex
	seen  []string
}

func NewVerifier(valid ...string) *Verifier {
	v := &Verifier{Valid: make(map[string]bool)}
	for _, token := range valid {
		v.Valid[token] = true
	}
	return v
}

func (v *Verifier) Verify(ctx context.Context, token string) (bool, error) {
	v.mutex.Lock()
	defer v.mutex.Unlock()

	v.seen = append(v.seen, token)
	if v.Err != nil {
		return false, v.Err
	}
	return v.Valid[token], nil
}

// Seen returns the tokens passed to Verify so far.
func (v *Verifier) Seen() []string {
	v.mutex.Lock()
	defer v.mutex.Unlock()

	return append([]string(nil), v.seen...)
}
