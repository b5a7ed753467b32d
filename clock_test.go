package counters

import "testing"

func TestNewSystemClock(t *testing.T) {
	c := NewSystemClock()
	now := c.NowMillis()
	if now <= 0 {
		t.Errorf("NowMillis() = %d, want positive", now)
	}
}

func TestManualClock(t *testing.T) {
	c := NewManualClock(1000)
	if got := c.NowMillis(); got != 1000 {
		t.Errorf("NowMillis() = %d, want 1000", got)
	}

	c.Set(2000)
	if got := c.NowMillis(); got != 2000 {
		t.Errorf("after Set, NowMillis() = %d, want 2000", got)
	}

	if got := c.Advance(500); got != 2500 {
		t.Errorf("Advance() = %d, want 2500", got)
	}
	if got := c.NowMillis(); got != 2500 {
		t.Errorf("after Advance, NowMillis() = %d, want 2500", got)
	}
}

func TestManualClock_Concurrent(t *testing.T) {
	c := NewManualClock(0)
	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			c.Advance(1)
		}
		close(done)
	}()
	for i := 0; i < 1000; i++ {
		_ = c.NowMillis()
	}
	<-done
	if got := c.NowMillis(); got != 1000 {
		t.Errorf("NowMillis() = %d, want 1000", got)
	}
}
