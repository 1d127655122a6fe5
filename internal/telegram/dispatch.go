package telegram

import "sync"

// dispatcher runs jobs of one user strictly one after another, in submission
// order, while jobs of different users run concurrently. A drain goroutine
// exists only while a user has queued work.
type dispatcher struct {
	mu     sync.Mutex
	queues map[int64]*userQueue
	wg     sync.WaitGroup
}

type userQueue struct {
	jobs []func()
}

func newDispatcher() *dispatcher {
	return &dispatcher{queues: make(map[int64]*userQueue)}
}

func (d *dispatcher) Submit(userID int64, job func()) {
	d.mu.Lock()
	q, running := d.queues[userID]
	if !running {
		q = &userQueue{}
		d.queues[userID] = q
		d.wg.Add(1)
	}
	q.jobs = append(q.jobs, job)
	d.mu.Unlock()

	if !running {
		go d.drain(userID, q)
	}
}

func (d *dispatcher) drain(userID int64, q *userQueue) {
	defer d.wg.Done()
	for {
		d.mu.Lock()
		if len(q.jobs) == 0 {
			delete(d.queues, userID)
			d.mu.Unlock()
			return
		}
		job := q.jobs[0]
		q.jobs[0] = nil
		q.jobs = q.jobs[1:]
		d.mu.Unlock()

		job()
	}
}

// Wait blocks until every queued job has run.
func (d *dispatcher) Wait() {
	d.wg.Wait()
}

func (d *dispatcher) Active() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queues)
}
