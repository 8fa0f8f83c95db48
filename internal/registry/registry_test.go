package registry

import (
	"testing"

	"github.com/ksergey/rocket/internal/ring"
)

func TestSetCapacityHintRejectsNonPositive(t *testing.T) {
	r := New()
	for _, n := range []int{0, -1, -100} {
		if err := r.SetCapacityHint(n); err != ErrInvalidCapacityHint {
			t.Errorf("SetCapacityHint(%d): want ErrInvalidCapacityHint, got %v", n, err)
		}
	}
	if got := r.CapacityHint(); got != DefaultCapacityHint {
		t.Errorf("capacity hint changed after rejected calls: got %d", got)
	}
}

func TestCreateProducerIsVisibleAfterForEachConsumer(t *testing.T) {
	r := New()
	if err := r.SetCapacityHint(4096); err != nil {
		t.Fatal(err)
	}

	q, err := r.CreateProducer()
	if err != nil {
		t.Fatal(err)
	}

	seen := 0
	r.ForEachConsumer(func(got *ring.Ring) {
		if got == q {
			seen++
		}
	})
	if seen != 1 {
		t.Fatalf("expected newly created producer to appear exactly once, saw %d", seen)
	}
}

func TestForEachConsumerReapsClosedAndEmpty(t *testing.T) {
	r := New()
	q, err := r.CreateProducer()
	if err != nil {
		t.Fatal(err)
	}
	r.ForEachConsumer(func(*ring.Ring) {})
	if r.Len() != 1 {
		t.Fatalf("expected 1 active consumer, got %d", r.Len())
	}

	q.Close()
	// The first pass observes the close and re-arms the rebuild flag; the
	// next pass reaps the closed, empty consumer.
	r.ForEachConsumer(func(*ring.Ring) {})
	r.ForEachConsumer(func(*ring.Ring) {})
	if r.Len() != 0 {
		t.Fatalf("expected closed+empty consumer to be reaped, got %d active", r.Len())
	}
}

func TestForEachConsumerKeepsClosedButNonEmpty(t *testing.T) {
	r := New()
	q, err := r.CreateProducer()
	if err != nil {
		t.Fatal(err)
	}
	r.ForEachConsumer(func(*ring.Ring) {})

	w, ok := q.Prepare(4)
	if !ok {
		t.Fatal("prepare failed")
	}
	copy(w, []byte{1, 2, 3, 4})
	q.Commit()
	q.Close()

	// Closed but not yet drained: must survive the reap pass.
	r.ForEachConsumer(func(*ring.Ring) {})
	if r.Len() != 1 {
		t.Fatalf("expected closed-but-nonempty consumer to survive, got %d active", r.Len())
	}

	if _, ok := q.Fetch(); !ok {
		t.Fatal("fetch failed")
	}
	q.Consume()

	r.ForEachConsumer(func(*ring.Ring) {})
	if r.Len() != 0 {
		t.Fatalf("expected drained closed consumer to be reaped, got %d active", r.Len())
	}
}
