package queue

import (
	"context"
	"sync/atomic"
	"testing"
)

func TestInlineQueueRunsTasks(t *testing.T) {
	q := NewInlineQueue(2)

	var handled int64
	q.SetHandler(func(ctx context.Context, task *Task) error {
		atomic.AddInt64(&handled, 1)
		return nil
	})

	for i := 0; i < 10; i++ {
		if err := q.Enqueue(context.Background(), &Task{ID: "t", Type: TaskTypeConvert}); err != nil {
			t.Fatalf("Enqueue() error = %v", err)
		}
	}
	q.Wait()

	if got := atomic.LoadInt64(&handled); got != 10 {
		t.Errorf("handled %d tasks, want 10", got)
	}
}

func TestInlineQueueRequiresHandler(t *testing.T) {
	q := NewInlineQueue(1)
	if err := q.Enqueue(context.Background(), &Task{ID: "t"}); err == nil {
		t.Error("Enqueue() without handler should fail")
	}
}

func TestInlineQueueClose(t *testing.T) {
	q := NewInlineQueue(1)
	q.SetHandler(func(ctx context.Context, task *Task) error { return nil })

	if err := q.Enqueue(context.Background(), &Task{ID: "t"}); err != nil {
		t.Fatal(err)
	}
	if err := q.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
