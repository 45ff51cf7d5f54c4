package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"rag-interview-api/internal/domain/entity"
)

func TestMemorySessionLogNewestFirst(t *testing.T) {
	log := NewMemorySessionLog(time.Hour, 50)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		turn := entity.NewSessionTurn(
			fmt.Sprintf("question %d", i),
			fmt.Sprintf("answer %d", i),
		)
		if err := log.Append(ctx, "s1", turn); err != nil {
			t.Fatalf("append returned error: %v", err)
		}
	}

	turns, err := log.Recent(ctx, "s1", 10)
	if err != nil {
		t.Fatalf("recent returned error: %v", err)
	}
	if len(turns) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(turns))
	}
	if turns[0].Question != "question 3" {
		t.Errorf("expected newest turn first, got %q", turns[0].Question)
	}
	if turns[2].Question != "question 1" {
		t.Errorf("expected oldest turn last, got %q", turns[2].Question)
	}
}

func TestMemorySessionLogCapsTurns(t *testing.T) {
	log := NewMemorySessionLog(time.Hour, 5)
	ctx := context.Background()

	for i := 1; i <= 8; i++ {
		turn := entity.NewSessionTurn(fmt.Sprintf("q%d", i), "a")
		if err := log.Append(ctx, "s1", turn); err != nil {
			t.Fatalf("append returned error: %v", err)
		}
	}

	turns, err := log.Recent(ctx, "s1", 0)
	if err != nil {
		t.Fatalf("recent returned error: %v", err)
	}
	if len(turns) != 5 {
		t.Fatalf("expected 5 turns after trim, got %d", len(turns))
	}
	if turns[0].Question != "q8" {
		t.Errorf("expected q8 first, got %q", turns[0].Question)
	}
	if turns[4].Question != "q4" {
		t.Errorf("expected q4 last, got %q", turns[4].Question)
	}
}

func TestMemorySessionLogExpiry(t *testing.T) {
	log := NewMemorySessionLog(time.Hour, 50)
	ctx := context.Background()

	now := time.Now()
	log.now = func() time.Time { return now }

	if err := log.Append(ctx, "s1", entity.NewSessionTurn("q", "a")); err != nil {
		t.Fatalf("append returned error: %v", err)
	}

	// 过期前可读
	turns, err := log.Recent(ctx, "s1", 10)
	if err != nil {
		t.Fatalf("recent returned error: %v", err)
	}
	if len(turns) != 1 {
		t.Fatalf("expected 1 turn, got %d", len(turns))
	}

	// 过期后不可读
	log.now = func() time.Time { return now.Add(2 * time.Hour) }
	turns, err = log.Recent(ctx, "s1", 10)
	if err != nil {
		t.Fatalf("recent returned error: %v", err)
	}
	if len(turns) != 0 {
		t.Fatalf("expected 0 turns after expiry, got %d", len(turns))
	}
}

func TestMemorySessionLogIsolatesSessions(t *testing.T) {
	log := NewMemorySessionLog(time.Hour, 50)
	ctx := context.Background()

	if err := log.Append(ctx, "s1", entity.NewSessionTurn("q1", "a1")); err != nil {
		t.Fatalf("append returned error: %v", err)
	}
	if err := log.Append(ctx, "s2", entity.NewSessionTurn("q2", "a2")); err != nil {
		t.Fatalf("append returned error: %v", err)
	}

	turns, err := log.Recent(ctx, "s2", 10)
	if err != nil {
		t.Fatalf("recent returned error: %v", err)
	}
	if len(turns) != 1 || turns[0].Question != "q2" {
		t.Fatalf("unexpected turns for s2: %+v", turns)
	}
}
