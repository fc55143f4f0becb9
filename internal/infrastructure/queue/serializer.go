package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/mz310/FitProof/internal/pkg/metrics"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// ErrStopped is returned by Do once the serializer's workers have exited.
var ErrStopped = errors.New("serializer stopped")

type job struct {
	ctx      context.Context
	fn       func(ctx context.Context) error
	done     chan error
	queuedAt time.Time
}

// Serializer routes mutations to a fixed set of workers using consistent
// hashing on a key (the session id), so that every mutation of one session is
// executed by a single goroutine in submission order.
type Serializer struct {
	workers []chan job
	stopped chan struct{}
	log     zerolog.Logger
}

// NewSerializer creates a Serializer with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewSerializer(numWorkers int, log zerolog.Logger) *Serializer {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	s := &Serializer{
		workers: make([]chan job, numWorkers),
		stopped: make(chan struct{}),
		log:     log,
	}
	for i := range s.workers {
		s.workers[i] = make(chan job, channelBuffer)
	}
	return s
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled;
// calls to Do made after that return ErrStopped.
func (s *Serializer) Start(ctx context.Context) {
	for i, ch := range s.workers {
		go s.runWorker(ctx, i, ch)
	}
	go func() {
		<-ctx.Done()
		close(s.stopped)
	}()
}

// Do runs fn on the worker that owns key and waits for it to finish. It
// returns early with the context's error if ctx ends first; fn then still
// runs later, with the cancelled ctx.
func (s *Serializer) Do(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	idx := s.shardIndex(key)
	j := job{ctx: ctx, fn: fn, done: make(chan error, 1), queuedAt: time.Now()}

	// Counted before the send: the worker may dequeue and decrement first.
	depth := metrics.SessionQueueDepth.WithLabelValues(strconv.Itoa(idx))
	depth.Inc()
	select {
	case s.workers[idx] <- j:
	case <-ctx.Done():
		depth.Dec()
		return ctx.Err()
	case <-s.stopped:
		depth.Dec()
		return ErrStopped
	}

	select {
	case err := <-j.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-s.stopped:
		return ErrStopped
	}
}

// shardIndex maps a key deterministically to a worker index.
func (s *Serializer) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(s.workers)))
}

func (s *Serializer) runWorker(ctx context.Context, id int, ch <-chan job) {
	shard := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case j, ok := <-ch:
			if !ok {
				return
			}
			metrics.SessionQueueDepth.WithLabelValues(shard).Dec()
			metrics.SessionQueueWait.Observe(time.Since(j.queuedAt).Seconds())
			j.done <- s.run(j, id)
		}
	}
}

// run executes one job, turning a panic into an error so a single bad
// request cannot kill the shard.
func (s *Serializer) run(j job, id int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).Int("worker_id", id).Msg("session mutation panicked")
			err = errors.New("session mutation panicked")
		}
	}()
	if j.ctx.Err() != nil {
		return j.ctx.Err()
	}
	return j.fn(j.ctx)
}
