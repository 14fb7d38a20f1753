// internal/advisory/selector.go
package advisory

import (
	"math/rand"
	"sync"
	"time"
)

// Selector chooses one index out of n candidate introductory phrases.
// Prompt assembly is deterministic apart from this choice, so callers
// needing reproducible prompts inject a fixed selector.
type Selector interface {
	Pick(n int) int
}

type randomSelector struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRandomSelector returns the production selector backed by its own
// rand source.
func NewRandomSelector() Selector {
	return &randomSelector{r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (s *randomSelector) Pick(n int) int {
	if n <= 1 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Intn(n)
}

// FixedSelector always picks the same index (clamped to n-1); used in
// tests and anywhere reproducible output is required.
type FixedSelector int

func (f FixedSelector) Pick(n int) int {
	if n <= 0 {
		return 0
	}
	if int(f) >= n {
		return n - 1
	}
	return int(f)
}
