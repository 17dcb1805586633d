package record

import (
	"sort"
	"sync"
	"testing"
)

func TestFragmentSeqFirstIDs(t *testing.T) {
	t.Parallel()
	seq := NewFragmentSeq()

	if got := seq.Next(); got != "M000001" {
		t.Errorf("first ID = %q, want M000001", got)
	}
	if got := seq.Next(); got != "M000002" {
		t.Errorf("second ID = %q, want M000002", got)
	}
}

func TestFragmentSeqCarry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cur  string
		want string
	}{
		{"M000008", "M000009"},
		{"M000009", "M00000a"},
		{"M00000z", "M000010"},
		{"M0000zz", "M000100"},
		{"Mzzzzzz", "N000000"},
	}

	for _, tt := range tests {
		b := []byte(tt.cur)
		succ(b)
		if string(b) != tt.want {
			t.Errorf("succ(%q) = %q, want %q", tt.cur, b, tt.want)
		}
	}
}

func TestFragmentSeqMonotonic(t *testing.T) {
	t.Parallel()
	seq := NewFragmentSeq()

	prev := seq.Next()
	for i := 0; i < 100; i++ {
		next := seq.Next()
		if next <= prev {
			t.Fatalf("ID %q issued after %q is not increasing", next, prev)
		}
		prev = next
	}
}

func TestFragmentSeqReset(t *testing.T) {
	t.Parallel()
	seq := NewFragmentSeq()

	for i := 0; i < 10; i++ {
		seq.Next()
	}
	seq.Reset()
	if got := seq.Next(); got != "M000001" {
		t.Errorf("first ID after Reset = %q, want M000001", got)
	}
}

func TestFragmentSeqConcurrentUnique(t *testing.T) {
	t.Parallel()
	seq := NewFragmentSeq()

	const n = 500
	ids := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids[i] = seq.Next()
		}()
	}
	wg.Wait()

	sort.Strings(ids)
	for i := 1; i < n; i++ {
		if ids[i] == ids[i-1] {
			t.Fatalf("duplicate ID %q", ids[i])
		}
	}
}
