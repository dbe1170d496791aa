package worker

import (
	"container/heap"
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/polkiloo/auctionhouse/internal/adapter/lock"
	domainErrors "github.com/polkiloo/auctionhouse/internal/domain/errors"
	"github.com/polkiloo/auctionhouse/internal/domain/model"
	"github.com/polkiloo/auctionhouse/internal/pkg/clock"
)

// SettlementFacade exposes the subset of application functionality required by the scheduler.
type SettlementFacade interface {
	PendingSettlements(ctx context.Context) ([]model.PendingSettlement, error)
	Settle(ctx context.Context, auctionID int64) (*model.Settlement, error)
}

type deadline struct {
	auctionID int64
	at        time.Time
	index     int
}

// deadlineQueue is a min-heap ordered by due time.
type deadlineQueue []*deadline

func (q deadlineQueue) Len() int { return len(q) }

func (q deadlineQueue) Less(i, j int) bool {
	if q[i].at.Equal(q[j].at) {
		return q[i].auctionID < q[j].auctionID
	}
	return q[i].at.Before(q[j].at)
}

func (q deadlineQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *deadlineQueue) Push(x any) {
	d := x.(*deadline)
	d.index = len(*q)
	*q = append(*q, d)
}

func (q *deadlineQueue) Pop() any {
	old := *q
	n := len(old)
	d := old[n-1]
	old[n-1] = nil
	d.index = -1
	*q = old[:n-1]
	return d
}

// SettlementScheduler fires settlement of every auction once its end time
// passes. Deadlines live in memory; the durable auction table is rescanned on
// start and every poll interval, so a restart loses nothing.
type SettlementScheduler struct {
	facade       SettlementFacade
	locker       lock.Locker
	clock        clock.Clock
	pollInterval time.Duration
	retryDelay   time.Duration
	lockTTL      time.Duration
	workers      int
	logger       *slog.Logger

	queue    deadlineQueue
	index    map[int64]*deadline
	inflight map[int64]bool
	wake     chan struct{}

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewSettlementScheduler constructs the scheduler and its worker pool.
func NewSettlementScheduler(
	facade SettlementFacade,
	locker lock.Locker,
	clk clock.Clock,
	pollInterval, retryDelay, lockTTL time.Duration,
	workers int,
	logger *slog.Logger,
) *SettlementScheduler {
	if workers <= 0 {
		workers = 1
	}
	if clk == nil {
		clk = clock.System{}
	}
	return &SettlementScheduler{
		facade:       facade,
		locker:       locker,
		clock:        clk,
		pollInterval: pollInterval,
		retryDelay:   retryDelay,
		lockTTL:      lockTTL,
		workers:      workers,
		logger:       logger,
		index:        make(map[int64]*deadline),
		inflight:     make(map[int64]bool),
		wake:         make(chan struct{}, 1),
	}
}

// ScheduleSettlement registers the deadline of an auction. An auction has at
// most one pending deadline; scheduling it again moves that deadline.
// Auctions currently being settled are skipped.
func (s *SettlementScheduler) ScheduleSettlement(auctionID int64, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scheduleLocked(auctionID, at)
}

func (s *SettlementScheduler) scheduleLocked(auctionID int64, at time.Time) {
	if s.inflight[auctionID] {
		return
	}
	if d, ok := s.index[auctionID]; ok {
		d.at = at
		heap.Fix(&s.queue, d.index)
	} else {
		d = &deadline{auctionID: auctionID, at: at}
		heap.Push(&s.queue, d)
		s.index[auctionID] = d
	}
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Pending returns the number of deadlines waiting to fire.
func (s *SettlementScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Len()
}

// Start launches background processing. The first rescan recovers auctions
// whose deadlines passed while no instance was running.
func (s *SettlementScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// fx cancels the start context once startup completes.
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel

	// Deadlines popped by a previous run that never reached a worker.
	clear(s.inflight)

	jobs := make(chan int64, s.workers)
	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker(runCtx, jobs)
	}

	s.wg.Add(1)
	go s.dispatch(runCtx, jobs)
}

// Stop waits for all workers to finish.
func (s *SettlementScheduler) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *SettlementScheduler) rescan(ctx context.Context) {
	pending, err := s.facade.PendingSettlements(ctx)
	if err != nil {
		s.logger.Error("scan unsettled auctions failed", slog.String("error", err.Error()))
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range pending {
		if _, queued := s.index[p.AuctionID]; queued {
			continue
		}
		s.scheduleLocked(p.AuctionID, p.EndTime)
	}
}

// popDue removes due deadlines and reports how long until the next one.
func (s *SettlementScheduler) popDue(now time.Time) ([]int64, time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var due []int64
	for s.queue.Len() > 0 && !s.queue[0].at.After(now) {
		d := heap.Pop(&s.queue).(*deadline)
		delete(s.index, d.auctionID)
		s.inflight[d.auctionID] = true
		due = append(due, d.auctionID)
	}
	wait := s.pollInterval
	if s.queue.Len() > 0 {
		if next := s.queue[0].at.Sub(now); next < wait {
			wait = next
		}
	}
	return due, wait
}

func (s *SettlementScheduler) dispatch(ctx context.Context, jobs chan<- int64) {
	defer s.wg.Done()
	defer close(jobs)

	s.rescan(ctx)
	lastScan := s.clock.Now()

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		now := s.clock.Now()
		if now.Sub(lastScan) >= s.pollInterval {
			s.rescan(ctx)
			lastScan = now
		}

		due, wait := s.popDue(now)
		for _, id := range due {
			select {
			case <-ctx.Done():
				return
			case jobs <- id:
			}
		}
		if len(due) > 0 {
			continue
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(wait)

		select {
		case <-ctx.Done():
			return
		case <-s.wake:
		case <-timer.C:
		}
	}
}

func (s *SettlementScheduler) worker(ctx context.Context, jobs <-chan int64) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case id, ok := <-jobs:
			if !ok {
				return
			}
			next, again := s.settle(ctx, id)
			s.mu.Lock()
			delete(s.inflight, id)
			if again && ctx.Err() == nil {
				s.scheduleLocked(id, next)
			}
			s.mu.Unlock()
		}
	}
}

// settle runs one settlement under the auction lock. It reports whether the
// auction has to be tried again and when.
func (s *SettlementScheduler) settle(ctx context.Context, auctionID int64) (time.Time, bool) {
	retryAt := s.clock.Now().Add(s.retryDelay)
	key := lock.SettlementKey(auctionID)
	token, ok, err := s.locker.TryAcquire(ctx, key, s.lockTTL)
	if err != nil {
		s.logger.Warn("acquire settlement lock failed", slog.Int64("auction_id", auctionID), slog.String("error", err.Error()))
		return retryAt, true
	}
	if !ok {
		s.logger.Debug("settlement lock held elsewhere", slog.Int64("auction_id", auctionID))
		return retryAt, true
	}
	defer func() {
		if err := s.locker.Release(context.WithoutCancel(ctx), key, token); err != nil {
			s.logger.Warn("release settlement lock failed", slog.Int64("auction_id", auctionID), slog.String("error", err.Error()))
		}
	}()

	result, err := s.facade.Settle(ctx, auctionID)
	var notDue *domainErrors.NotDueError
	switch {
	case errors.As(err, &notDue):
		s.logger.Debug("settlement not due yet", slog.Int64("auction_id", auctionID), slog.Time("end_time", notDue.EndTime))
		return notDue.EndTime, true
	case errors.Is(err, domainErrors.ErrSettlementNotDue):
		s.logger.Debug("settlement not due yet", slog.Int64("auction_id", auctionID))
		return retryAt, true
	case errors.Is(err, domainErrors.ErrAuctionNotFound):
		s.logger.Warn("dropping deadline of unknown auction", slog.Int64("auction_id", auctionID))
		return time.Time{}, false
	case errors.Is(err, domainErrors.ErrInvariantViolation):
		// Left to the periodic rescan.
		s.logger.Error("settlement aborted", slog.Int64("auction_id", auctionID), slog.String("error", err.Error()))
		return time.Time{}, false
	case err != nil:
		s.logger.Error("settlement failed", slog.Int64("auction_id", auctionID), slog.String("error", err.Error()))
		return retryAt, true
	}

	s.logger.Debug("settlement finished", slog.Int64("auction_id", auctionID), slog.String("outcome", string(result.Outcome)))
	return time.Time{}, false
}
