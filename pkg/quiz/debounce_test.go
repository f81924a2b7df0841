package quiz

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type sink struct {
	mu   sync.Mutex
	sent map[string][]int
}

func (s *sink) send(k string, v int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sent == nil {
		s.sent = make(map[string][]int)
	}
	s.sent[k] = append(s.sent[k], v)
}

func (s *sink) get(k string) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.sent[k]...)
}

func TestDebouncer_SendsOnlyLastValue(t *testing.T) {
	var s sink
	d := NewDebouncer(20*time.Millisecond, s.send)

	d.Schedule("a", 1)
	d.Schedule("a", 2)
	d.Schedule("a", 3)
	d.Schedule("b", 9)

	assert.Eventually(t, func() bool {
		return len(s.get("a")) == 1 && len(s.get("b")) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []int{3}, s.get("a"))
	assert.Equal(t, []int{9}, s.get("b"))
	assert.Zero(t, d.Pending())
}

func TestDebouncer_FlushSendsImmediately(t *testing.T) {
	var s sink
	d := NewDebouncer(time.Hour, s.send)

	d.Schedule("a", 1)
	d.Schedule("a", 2)
	assert.Equal(t, 1, d.Pending())

	d.Flush()
	assert.Equal(t, []int{2}, s.get("a"))
	assert.Zero(t, d.Pending())
}

func TestDebouncer_CloseDropsLaterValues(t *testing.T) {
	var s sink
	d := NewDebouncer(time.Hour, s.send)

	d.Schedule("a", 1)
	d.Close()
	d.Schedule("a", 2)
	d.Flush()

	assert.Equal(t, []int{1}, s.get("a"))
}

func TestDebouncer_FlushWaitsForTimerSends(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	d := NewDebouncer(time.Millisecond, func(string, int) {
		close(started)
		<-release
	})

	d.Schedule("a", 1)
	<-started

	flushed := make(chan struct{})
	go func() {
		d.Flush()
		close(flushed)
	}()

	select {
	case <-flushed:
		t.Fatal("Flush returned while a send was in flight")
	case <-time.After(50 * time.Millisecond):
	}
	close(release)

	select {
	case <-flushed:
	case <-time.After(time.Second):
		t.Fatal("Flush did not return after the send finished")
	}
}

func TestDebouncer_ConcurrentFlushAndFire(t *testing.T) {
	var s sink
	d := NewDebouncer(time.Millisecond, s.send)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := range 50 {
				d.Schedule(string(rune('a'+i)), j)
				time.Sleep(100 * time.Microsecond)
			}
		}()
		go func() {
			defer wg.Done()
			for range 50 {
				d.Flush()
			}
		}()
	}
	wg.Wait()
	d.Close()

	assert.Zero(t, d.Pending())
	for i := range 8 {
		assert.Contains(t, s.get(string(rune('a'+i))), 49)
	}
}
