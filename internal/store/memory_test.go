package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/robalobadob/wordle/apps/daily-server/internal/game"
	"github.com/robalobadob/wordle/apps/daily-server/internal/words"
)

func testSource(t *testing.T) *words.Source {
	t.Helper()
	src, err := words.NewSource(words.Puzzle{Theme: "Fruits", Words: []string{"Pomme", "Poire"}})
	if err != nil {
		t.Fatal(err)
	}
	return src
}

func TestSessionCreatedOnce(t *testing.T) {
	src := testSource(t)
	st := NewMemoryStore(src)
	ctx := context.Background()

	var restores int32
	restore := func() (game.State, error) {
		atomic.AddInt32(&restores, 1)
		return game.Create(src, 1)
	}

	var wg sync.WaitGroup
	sessions := make([]*game.Session, 8)
	created := make([]bool, 8)
	for i := range sessions {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, c, err := st.Session(ctx, "abc", restore)
			if err != nil {
				t.Error(err)
				return
			}
			sessions[i], created[i] = s, c
		}(i)
	}
	wg.Wait()

	if restores != 1 {
		t.Errorf("restore called %d times, want 1", restores)
	}
	n := 0
	for i, s := range sessions {
		if s != sessions[0] {
			t.Errorf("session %d differs", i)
		}
		if created[i] {
			n++
		}
	}
	if n != 1 {
		t.Errorf("created reported %d times, want 1", n)
	}
	if got := sessions[0].State().WordIndex; got != 1 {
		t.Errorf("restored WordIndex = %d, want 1", got)
	}
	if st.Len() != 1 {
		t.Errorf("Len = %d, want 1", st.Len())
	}
}

func TestSessionRestoreError(t *testing.T) {
	st := NewMemoryStore(testSource(t))
	boom := errors.New("boom")
	_, _, err := st.Session(context.Background(), "abc", func() (game.State, error) { return game.State{}, boom })
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want boom", err)
	}
	if st.Len() != 0 {
		t.Errorf("failed restore left a session behind")
	}
}

func TestSessionEmptyID(t *testing.T) {
	st := NewMemoryStore(testSource(t))
	if _, _, err := st.Session(context.Background(), "", nil); !errors.Is(err, ErrEmptyID) {
		t.Errorf("error = %v, want ErrEmptyID", err)
	}
}

func TestDrop(t *testing.T) {
	src := testSource(t)
	st := NewMemoryStore(src)
	ctx := context.Background()
	fresh := func() (game.State, error) { return game.Reset(src) }

	first, _, _ := st.Session(ctx, "abc", fresh)
	if _, err := first.Submit("poire"); err != nil {
		t.Fatal(err)
	}
	if err := st.Drop(ctx, "abc"); err != nil {
		t.Fatal(err)
	}
	second, created, _ := st.Session(ctx, "abc", fresh)
	if !created || second == first || len(second.State().Verdicts) != 0 {
		t.Errorf("after Drop: created=%v same=%v verdicts=%d", created, second == first, len(second.State().Verdicts))
	}
}

func TestSweepEvictsIdleSessions(t *testing.T) {
	src := testSource(t)
	st := NewMemoryStore(src)
	clock := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	st.(*memory).now = func() time.Time { return clock }
	ctx := context.Background()
	fresh := func() (game.State, error) { return game.Reset(src) }

	for _, id := range []string{"idle", "looked-up", "touched"} {
		if _, _, err := st.Session(ctx, id, fresh); err != nil {
			t.Fatal(err)
		}
	}

	clock = clock.Add(time.Hour)
	if _, created, _ := st.Session(ctx, "looked-up", fresh); created {
		t.Fatal("existing session recreated")
	}
	st.Touch("touched")
	st.Touch("unknown") // no-op

	if n := st.Sweep(clock.Add(-time.Minute)); n != 1 {
		t.Errorf("Sweep removed %d sessions, want 1", n)
	}
	if st.Len() != 2 {
		t.Errorf("Len after sweep = %d, want 2", st.Len())
	}
	if _, created, _ := st.Session(ctx, "idle", fresh); !created {
		t.Error("idle session survived the sweep")
	}
	if _, created, _ := st.Session(ctx, "touched", fresh); created {
		t.Error("touched session was evicted")
	}

	// Everything used before the cutoff goes.
	if n := st.Sweep(clock.Add(time.Second)); n != 3 {
		t.Errorf("second Sweep removed %d sessions, want 3", n)
	}
	if st.Len() != 0 {
		t.Errorf("Len = %d, want 0", st.Len())
	}
}
