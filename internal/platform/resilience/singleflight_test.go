package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestGroup_DeduplicatesConcurrentCalls(t *testing.T) {
	var (
		g     Group[[]byte]
		calls atomic.Int32
		wg    sync.WaitGroup
	)
	release := make(chan struct{})
	started := make(chan struct{})

	const callers = 8
	results := make([][]byte, callers)

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], _, _ = g.Do("/competitions/PL/matches", func() ([]byte, error) {
			calls.Add(1)
			close(started)
			<-release
			return []byte(`{"matches":[]}`), nil
		})
	}()
	<-started

	for i := 1; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _, _ = g.Do("/competitions/PL/matches", func() ([]byte, error) {
				calls.Add(1)
				return nil, nil
			})
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Fatalf("unexpected call count: got=%d want=1", got)
	}
	for i, r := range results {
		if string(r) != `{"matches":[]}` {
			t.Fatalf("unexpected result for caller %d: %q", i, r)
		}
	}
}
