package record

import "sync"

// fragmentSeed is the counter value a fresh sequence starts from. The first
// issued ID is the seed's successor, M000001.
const fragmentSeed = "M000000"

// FragmentSeq issues fragment IDs for one documentation run. IDs are the
// seed string incremented like a zero-padded counter: the six trailing
// positions count over 0-9 then a-z with carry, and a full overflow carries
// into the leading letter. Safe for concurrent use; the build pipeline
// shares one sequence across its extraction workers.
type FragmentSeq struct {
	mu  sync.Mutex
	cur []byte
}

// NewFragmentSeq returns a sequence positioned at the seed.
func NewFragmentSeq() *FragmentSeq {
	return &FragmentSeq{cur: []byte(fragmentSeed)}
}

// Next increments the counter and returns the new value.
func (s *FragmentSeq) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	succ(s.cur)
	return string(s.cur)
}

// Reset reseeds the counter so a fresh run over identical input issues
// identical IDs.
func (s *FragmentSeq) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur = []byte(fragmentSeed)
}

// succ increments b in place, rightmost position first.
func succ(b []byte) {
	for i := len(b) - 1; i >= 0; i-- {
		switch b[i] {
		case '9':
			b[i] = 'a'
			return
		case 'z':
			b[i] = '0' // carry left
		case 'Z':
			b[i] = 'A' // carry left
		default:
			b[i]++
			return
		}
	}
}
