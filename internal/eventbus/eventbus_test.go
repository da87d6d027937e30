package eventbus

import (
	"testing"
	"time"
)

func TestPublishSubscribe(t *testing.T) {
	b := New[int]()
	sub := b.Subscribe()
	b.Publish(42)
	select {
	case v := <-sub:
		if v != 42 {
			t.Fatalf("expected 42, got %d", v)
		}
	case <-time.After(time.Second):
		t.Fatalf("event not delivered")
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := New[string]()
	sub := b.Subscribe()
	b.Unsubscribe(sub)
	if _, ok := <-sub; ok {
		t.Fatalf("channel not closed")
	}
	// Publishing after unsubscribe must not panic.
	b.Publish("x")
}

func TestCloseDropsPublishes(t *testing.T) {
	b := New[int]()
	sub := b.Subscribe()
	b.Close()
	if _, ok := <-sub; ok {
		t.Fatalf("channel not closed on bus close")
	}
	b.Publish(1)
	if ch := b.Subscribe(); ch == nil {
		t.Fatalf("subscribe after close returned nil channel")
	}
}

func TestSlowSubscriberDoesNotBlock(t *testing.T) {
	b := New[int]()
	_ = b.Subscribe() // never drained
	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			b.Publish(i)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("publish blocked on slow subscriber")
	}
}
