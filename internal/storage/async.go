package storage

import (
	"context"
	"log"
	"sync"
	"time"
)

const asyncWriteTimeout = 10 * time.Second

// Async decouples the dialogue from slow sinks: Record never blocks, events
// are written by a single background worker in submission order. When the
// queue is full the event is dropped and logged.
type Async struct {
	rec   Recorder
	queue chan Calculation
	done  chan struct{}
	once  sync.Once
	mu    sync.RWMutex
	shut  bool
}

func NewAsync(rec Recorder, size int) *Async {
	if size <= 0 {
		size = 256
	}
	a := &Async{rec: rec, queue: make(chan Calculation, size), done: make(chan struct{})}
	go a.run()
	return a
}

func (a *Async) run() {
	defer close(a.done)
	for c := range a.queue {
		ctx, cancel := context.WithTimeout(context.Background(), asyncWriteTimeout)
		if err := a.rec.AppendCalculation(ctx, c); err != nil {
			log.Printf("⚠️ failed to record calculation for user %d: %v", c.UserID, err)
		}
		cancel()
	}
}

// RecordCalculation enqueues c for writing.
func (a *Async) RecordCalculation(c Calculation) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.shut {
		log.Printf("⚠️ audit queue closed, dropping calculation for user %d", c.UserID)
		return
	}
	select {
	case a.queue <- c:
	default:
		log.Printf("⚠️ audit queue full, dropping calculation for user %d", c.UserID)
	}
}

// Close stops accepting events and waits for the queue to drain.
func (a *Async) Close() {
	a.once.Do(func() {
		a.mu.Lock()
		a.shut = true
		close(a.queue)
		a.mu.Unlock()
	})
	<-a.done
}
