package ring

import (
	"sync"
	"testing"
)

func TestNewRejectsInvalidCapacity(t *testing.T) {
	cases := []int{0, -1, 3, 100}
	for _, c := range cases {
		if _, err := New(c); err != ErrInvalidCapacity {
			t.Errorf("New(%d): want ErrInvalidCapacity, got %v", c, err)
		}
	}
}

func TestPrepareCommitFetchConsumeRoundTrip(t *testing.T) {
	r, err := New(64)
	if err != nil {
		t.Fatal(err)
	}

	payload := []byte("hello")
	w, ok := r.Prepare(len(payload))
	if !ok {
		t.Fatal("prepare failed")
	}
	copy(w, payload)
	r.Commit()

	got, ok := r.Fetch()
	if !ok {
		t.Fatal("fetch failed")
	}
	if string(got) != "hello" {
		t.Errorf("got %q, want %q", got, "hello")
	}
	r.Consume()

	if _, ok := r.Fetch(); ok {
		t.Error("expected no further entries")
	}
}

func TestPrepareFailsWhenFull(t *testing.T) {
	r, err := New(16)
	if err != nil {
		t.Fatal(err)
	}

	for {
		w, ok := r.Prepare(4)
		if !ok {
			break
		}
		copy(w, []byte{1, 2, 3, 4})
		r.Commit()
	}

	if _, ok := r.Prepare(4); ok {
		t.Error("expected prepare to fail once the ring is full")
	}
}

func TestPrepareHandlesNarrowTailPadding(t *testing.T) {
	r, err := New(64)
	if err != nil {
		t.Fatal(err)
	}

	first := make([]byte, 57)
	for i := range first {
		first[i] = byte(i + 1)
	}
	w, ok := r.Prepare(len(first))
	if !ok {
		t.Fatal("prepare of first entry failed")
	}
	copy(w, first)
	r.Commit()

	// Drain the first entry so the second one has room in the 64-byte ring.
	got, ok := r.Fetch()
	if !ok {
		t.Fatal("fetch of first entry failed")
	}
	if string(got) != string(first) {
		t.Errorf("first entry: got %v, want %v", got, first)
	}
	r.Consume()

	// Head now sits at offset 61 (4-byte prefix + 57 payload bytes), only
	// 3 bytes short of the buffer end: the pad branch's remaining slack
	// (padLen=3) is narrower than the lenPrefixSize-byte wrap marker it
	// must write, and must not panic indexing past the buffer.
	second := []byte{0xAA, 0xBB}
	w, ok = r.Prepare(len(second))
	if !ok {
		t.Fatal("prepare of second entry failed")
	}
	copy(w, second)
	r.Commit()

	got, ok = r.Fetch()
	if !ok {
		t.Fatal("fetch of second entry failed")
	}
	if string(got) != string(second) {
		t.Errorf("second entry: got %v, want %v", got, second)
	}
	r.Consume()
}

func TestFIFOUnderConcurrentProducerConsumer(t *testing.T) {
	r, err := New(1 << 12)
	if err != nil {
		t.Fatal(err)
	}

	const n = 5000
	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			b := []byte{byte(i), byte(i >> 8)}
			for {
				w, ok := r.Prepare(len(b))
				if ok {
					copy(w, b)
					r.Commit()
					break
				}
			}
		}
		r.Close()
	}()

	for i := 0; i < n; i++ {
		var got []byte
		for {
			v, ok := r.Fetch()
			if ok {
				got = append([]byte(nil), v...)
				r.Consume()
				break
			}
		}
		want := byte(i)
		if got[0] != want {
			t.Fatalf("entry %d: got first byte %d, want %d", i, got[0], want)
		}
	}

	wg.Wait()
	if !r.IsClosed() {
		t.Error("expected ring to be closed")
	}
	if !r.IsEmpty() {
		t.Error("expected ring to be empty after full drain")
	}
}
