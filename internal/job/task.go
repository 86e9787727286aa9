package job

import "context"

// Progress is published after each chunk.
type Progress struct {
	Done  int
	Total int
}

// Task is a job running on its own goroutine.
type Task struct {
	total    int
	progress chan Progress
	done     chan struct{}
	cancel   context.CancelFunc

	result *Result
	err    error
}

// Start runs the job in the background. The document is split before Start
// returns, so configuration errors are reported here and not by Wait.
func (r *Runner) Start(ctx context.Context, document string) (*Task, error) {
	chunks, err := r.begin(document)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	t := &Task{
		total: len(chunks),
		// One slot per chunk: the worker never blocks on a slow reader.
		progress: make(chan Progress, len(chunks)),
		done:     make(chan struct{}),
		cancel:   cancel,
	}

	go func() {
		defer close(t.done)
		defer close(t.progress)
		defer cancel()

		t.result, t.err = r.execute(ctx, chunks, func(done, total int) {
			t.progress <- Progress{Done: done, Total: total}
		})
	}()

	return t, nil
}

func (t *Task) Total() int { return t.total }

// Progress is closed when the job ends.
func (t *Task) Progress() <-chan Progress { return t.progress }

// Cancel requests cancellation. The worker stops before the next chunk.
func (t *Task) Cancel() { t.cancel() }

// Wait blocks until the job ends.
func (t *Task) Wait() (*Result, error) {
	<-t.done
	return t.result, t.err
}
