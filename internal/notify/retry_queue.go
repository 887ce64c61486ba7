package notify

import "time"

// retryQueue feeds failed jobs back onto the dispatch channel after a
// backoff delay. Each delay runs on its own timer goroutine; the done
// channel stops late timers from writing into a stopped manager.
type retryQueue struct {
	dispatch chan<- pushJob
	done     <-chan struct{}
}

func newRetryQueue(dispatch chan<- pushJob, done <-chan struct{}) *retryQueue {
	return &retryQueue{dispatch: dispatch, done: done}
}

func (q *retryQueue) Enqueue(job pushJob, delay time.Duration) {
	if delay < 0 {
		delay = 0
	}
	time.AfterFunc(delay, func() {
		select {
		case <-q.done:
		case q.dispatch <- job:
			metricPushQueueLen.Set(int64(len(q.dispatch)))
		}
	})
}
