package main

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/woby/pkg/loop"
)

func startTestSession(t *testing.T, name string) (*session, *loop.Loop) {
	t.Helper()
	sc, err := lookupScenario(name)
	if err != nil {
		t.Fatal(err)
	}
	l := loop.New(nil)
	t.Cleanup(l.Close)

	s, err := startSession(context.Background(), sc, l, sessionOptions{})
	if err != nil {
		t.Fatalf("startSession() error = %v", err)
	}
	t.Cleanup(s.close)
	return s, l
}

func settleTest(t *testing.T, s *session, l *loop.Loop) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := settle(ctx, l, s.inst.idle); err != nil {
		t.Fatalf("settle() error = %v", err)
	}
}

func TestScenarioNames(t *testing.T) {
	want := []string{"counter", "list", "suspense"}
	if got := scenarioNames(); !reflect.DeepEqual(got, want) {
		t.Errorf("scenarioNames() = %v, want %v", got, want)
	}
	if _, err := lookupScenario("nope"); err == nil {
		t.Error("lookupScenario(nope) should fail")
	}
}

func TestCounterScenario(t *testing.T) {
	s, _ := startTestSession(t, "counter")

	if got := s.html(); got != "<strong>count</strong>: 0<!---->" {
		t.Errorf("html() = %q", got)
	}
	s.advance()
	if got := s.html(); got != "<strong>count</strong>: 1 (odd)" {
		t.Errorf("html() after step 1 = %q", got)
	}
	s.advance()
	if got := s.html(); got != "<strong>count</strong>: 2<!---->" {
		t.Errorf("html() after step 2 = %q", got)
	}
}

func TestListStep(t *testing.T) {
	tests := []struct {
		cur  []int
		i    int
		want []int
	}{
		{[]int{1, 2, 3}, 1, []int{2, 3, 1}},
		{[]int{1, 2, 3}, 3, []int{1, 2, 3, 4}},
		{[]int{1, 2, 3}, 5, nil},
		{nil, 6, []int{6, 7, 8}},
	}
	for _, tt := range tests {
		if got := listStep(tt.cur, tt.i); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("listStep(%v, %d) = %v, want %v", tt.cur, tt.i, got, tt.want)
		}
	}
}

func TestListScenarioMovesNodes(t *testing.T) {
	s, _ := startTestSession(t, "list")

	want := "<li>item 1</li><li>item 2</li><li>item 3</li><li>item 4</li><li>item 5</li>"
	if got := s.html(); got != want {
		t.Errorf("html() = %q, want %q", got, want)
	}

	s.doc.ResetStats()
	s.advance()
	want = "<li>item 2</li><li>item 3</li><li>item 4</li><li>item 5</li><li>item 1</li>"
	if got := s.html(); got != want {
		t.Errorf("html() after rotate = %q, want %q", got, want)
	}
	if st := s.doc.Stats(); st.Created != 0 || st.Removed != 0 {
		t.Errorf("rotate stats = %+v, want no creates or removes", st)
	}

	for s.steps < 5 {
		s.advance()
	}
	if got := s.html(); got != "<!---->" {
		t.Errorf("html() after emptying = %q, want placeholder", got)
	}
}

func TestSuspenseScenario(t *testing.T) {
	s, l := startTestSession(t, "suspense")

	if got := s.html(); got != "loading…" {
		t.Errorf("html() before fetch = %q, want fallback", got)
	}
	settleTest(t, s, l)
	if got := s.html(); got != "<p>payload #1</p>" {
		t.Errorf("html() = %q, want first payload", got)
	}

	s.advance()
	settleTest(t, s, l)
	if got := s.html(); got != "<p>payload #1</p>" {
		t.Errorf("html() after odd step = %q, want first payload", got)
	}

	s.advance()
	if got := s.html(); got != "loading…" {
		t.Errorf("html() during refetch = %q, want fallback", got)
	}
	settleTest(t, s, l)
	if !strings.Contains(s.html(), "payload #2") {
		t.Errorf("html() after refetch = %q, want second payload", s.html())
	}
}
