package game

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestSessionSubscribe(t *testing.T) {
	s := NewSession(fruits, mustCreate(t, fruits, 0))

	var seen []string
	unsubscribe := s.Subscribe(func(st State) { seen = append(seen, st.Serialize()) })

	if _, err := s.Submit("poire"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Next(); err != nil {
		t.Fatal(err)
	}
	unsubscribe()
	if _, err := s.Reset(); err != nil {
		t.Fatal(err)
	}

	want := []string{"0-     -", "0-poire     -xx__x", "1-     -"}
	if len(seen) != len(want) {
		t.Fatalf("notifications = %q, want %q", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("notification %d = %q, want %q", i, seen[i], want[i])
		}
	}
	if got := s.State().WordIndex; got != 0 {
		t.Errorf("WordIndex after Reset = %d, want 0", got)
	}
}

func TestSessionFailedUpdateDoesNotNotify(t *testing.T) {
	s := NewSession(fruits, mustCreate(t, fruits, 0))
	calls := 0
	s.Subscribe(func(State) { calls++ })

	st, err := s.Submit("po")
	if !errors.Is(err, ErrInvalidGuessLength) {
		t.Fatalf("Submit error = %v, want ErrInvalidGuessLength", err)
	}
	if len(st.Verdicts) != 0 {
		t.Errorf("state changed on error: %q", st.Verdicts)
	}
	if calls != 1 {
		t.Errorf("subscriber called %d times, want 1 (initial only)", calls)
	}
}

func TestSessionSet(t *testing.T) {
	s := NewSession(fruits, mustCreate(t, fruits, 0))
	var last State
	s.Subscribe(func(st State) { last = st })

	s.Set(mustCreate(t, fruits, 2))
	if last.WordIndex != 2 || s.State().WordIndex != 2 {
		t.Errorf("after Set: notified %d, state %d, want 2", last.WordIndex, s.State().WordIndex)
	}
}

func TestSessionUnsubscribeTwice(t *testing.T) {
	s := NewSession(fruits, mustCreate(t, fruits, 0))
	a, b := 0, 0
	unA := s.Subscribe(func(State) { a++ })
	s.Subscribe(func(State) { b++ })

	unA()
	unA()
	if _, err := s.Submit("poire"); err != nil {
		t.Fatal(err)
	}
	if a != 1 || b != 2 {
		t.Errorf("calls a=%d b=%d, want 1 and 2", a, b)
	}
}

func TestSessionConcurrentSubmits(t *testing.T) {
	s := NewSession(fruits, mustCreate(t, fruits, 0))

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Submit("poire"); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	rejected := 0
	for err := range errs {
		if !errors.Is(err, ErrGameAlreadyComplete) {
			t.Errorf("unexpected error: %v", err)
		}
		rejected++
	}
	if got := len(s.State().Verdicts); got != DefaultMaxAttempts {
		t.Errorf("verdicts = %d, want %d", got, DefaultMaxAttempts)
	}
	if rejected != 10-DefaultMaxAttempts {
		t.Errorf("rejected = %d, want %d", rejected, 10-DefaultMaxAttempts)
	}
}

func TestSessionNotifiesInUpdateOrder(t *testing.T) {
	s := NewSession(fruits, mustCreate(t, fruits, 0))

	entered := make(chan struct{})
	release := make(chan struct{})
	var mu sync.Mutex
	var last State
	s.Subscribe(func(st State) {
		if len(st.Verdicts) == 1 {
			close(entered)
			<-release
		}
		mu.Lock()
		last = st
		mu.Unlock()
	})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if _, err := s.Submit("poire"); err != nil {
			t.Error(err)
		}
	}()
	<-entered

	// The second submit must not overtake the first one's notification.
	go func() {
		defer wg.Done()
		if _, err := s.Submit("pomme"); err != nil {
			t.Error(err)
		}
	}()
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if got, want := len(last.Verdicts), len(s.State().Verdicts); got != want || want != 2 {
		t.Errorf("last notified state has %d verdicts, session holds %d", got, want)
	}
}

func TestSessionSubscriberMayReadState(t *testing.T) {
	s := NewSession(fruits, mustCreate(t, fruits, 0))
	var seen []int
	s.Subscribe(func(State) { seen = append(seen, len(s.State().Verdicts)) })

	if _, err := s.Submit("poire"); err != nil {
		t.Fatal(err)
	}
	if len(seen) != 2 || seen[0] != 0 || seen[1] != 1 {
		t.Errorf("State() seen from subscriber = %v, want [0 1]", seen)
	}
}
