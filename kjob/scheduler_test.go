package kjob

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
)

func TestScheduleOrder(t *testing.T) {
	s := NewScheduler(WithWorkers(4))

	var mu sync.Mutex
	var order []string
	record := func(name string) func() error {
		return func() error {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name)
			return nil
		}
	}

	a := s.Schedule(Handle{}, "a", func() error {
		time.Sleep(20 * time.Millisecond)
		return record("a")()
	})
	b := s.Schedule(Handle{}, "b", func() error {
		time.Sleep(10 * time.Millisecond)
		return record("b")()
	})
	c := s.Schedule(CombineDependencies(a, b), "c", record("c"))
	s.Schedule(c, "d", record("d"))

	assert.NoError(t, s.Wait())
	assert.Equal(t, 4, len(order))
	assert.Equal(t, []string{"c", "d"}, order[2:])
}

func TestSingleWorkerChain(t *testing.T) {
	s := NewScheduler(WithWorkers(1))
	var n int64

	h := Handle{}
	for i := 0; i < 50; i++ {
		want := int64(i)
		h = s.Schedule(h, "step", func() error {
			if !atomic.CompareAndSwapInt64(&n, want, want+1) {
				return errors.New("out of order")
			}
			return nil
		})
	}

	assert.NoError(t, h.Complete())
	assert.True(t, h.IsCompleted())
	assert.NoError(t, s.Wait())
	assert.Equal(t, int64(50), atomic.LoadInt64(&n))
}

func TestJobErrors(t *testing.T) {
	t.Run("error", func(t *testing.T) {
		s := NewScheduler()
		boom := errors.New("boom")
		h := s.Schedule(Handle{}, "failing", func() error { return boom })

		err := h.Complete()
		assert.True(t, errors.Is(err, boom))
		assert.True(t, errors.Is(s.Wait(), boom))
	})

	t.Run("panic", func(t *testing.T) {
		s := NewScheduler()
		h := s.Schedule(Handle{}, "panicking", func() error { panic("oops") })

		err := h.Complete()
		assert.True(t, errors.Is(err, ErrJobPanicked))
		assert.Contains(t, err.Error(), "panicking")
		assert.Error(t, s.Wait())
	})

	t.Run("dependents still run", func(t *testing.T) {
		s := NewScheduler()
		failed := s.Schedule(Handle{}, "failing", func() error { return errors.New("boom") })

		ran := false
		h := s.Schedule(failed, "dependent", func() error {
			ran = true
			return nil
		})
		assert.NoError(t, h.Complete())
		assert.True(t, ran)
		assert.Error(t, CombineDependencies(failed, h).Complete())
		assert.Error(t, s.Wait())
	})
}

func TestCombineDependencies(t *testing.T) {
	s := NewScheduler()
	a := s.Schedule(Handle{}, "a", func() error { return nil })

	combined := CombineDependencies(a, a, Handle{})
	assert.Equal(t, 1, len(combined.jobs))
	assert.NoError(t, combined.Complete())
	assert.True(t, Handle{}.IsCompleted())
	assert.NoError(t, s.Wait())
	assert.NoError(t, s.Wait())
}

func TestWorkers(t *testing.T) {
	assert.Equal(t, 4, NewScheduler(WithWorkers(4)).Workers())
	assert.Equal(t, 1, NewScheduler(WithWorkers(0)).Workers())
	assert.Equal(t, 1, NewScheduler().Workers())
}
