package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/resurrectethos/citation-verifier/internal/application"
	"github.com/resurrectethos/citation-verifier/internal/domain/accounts"
	domain "github.com/resurrectethos/citation-verifier/internal/domain/analysis"
)

// Runner is the pipeline port so the executor can be tested without a
// provider.
type Runner interface {
	Run(ctx context.Context, text string) (*domain.AnalysisResult, error)
}

const (
	laneBuffer      = 16
	defaultIdle     = 10 * time.Minute
	cleanupInterval = 5 * time.Minute
	archiveTimeout  = 15 * time.Second
)

// Executor serializes analyses per credential. Each credential gets its own
// lane (one goroutine draining one channel), so the quota check-then-increment
// for request N fully completes before request N+1 in the same lane reads the
// account. Different credentials run on independent lanes and never contend.
type Executor struct {
	store   accounts.Repository
	runner  Runner
	archive domain.Archiver // optional, best-effort
	clock   application.Clock
	idle    time.Duration

	mu     sync.Mutex
	lanes  map[string]*lane
	stopCh chan struct{}
}

type lane struct {
	hash     string
	tasks    chan *task
	stop     chan struct{}
	pending  int       // guarded by Executor.mu: queued + in flight
	lastUsed time.Time // guarded by Executor.mu
}

type task struct {
	ctx   context.Context
	text  string
	reply chan taskResult
}

type taskResult struct {
	result *domain.AnalysisResult
	err    error
}

func NewExecutor(store accounts.Repository, runner Runner, archive domain.Archiver, clock application.Clock) *Executor {
	if clock == nil {
		clock = application.SystemClock{}
	}
	e := &Executor{
		store:   store,
		runner:  runner,
		archive: archive,
		clock:   clock,
		idle:    defaultIdle,
		lanes:   make(map[string]*lane),
		stopCh:  make(chan struct{}),
	}
	go e.cleanup()
	return e
}

// Submit queues an analysis on the credential's lane and waits for the
// outcome. Calls for the same hash are processed in arrival order; calls for
// different hashes proceed in parallel.
func (e *Executor) Submit(ctx context.Context, hash, text string) (*domain.AnalysisResult, error) {
	t := &task{ctx: ctx, text: text, reply: make(chan taskResult, 1)}
	ln := e.checkout(hash)
	ln.tasks <- t
	r := <-t.reply
	return r.result, r.err
}

// checkout resolves (create-if-absent) the lane for hash and pins it so the
// cleanup loop cannot reap it while work is queued.
func (e *Executor) checkout(hash string) *lane {
	e.mu.Lock()
	defer e.mu.Unlock()

	ln, ok := e.lanes[hash]
	if !ok {
		ln = &lane{
			hash:  hash,
			tasks: make(chan *task, laneBuffer),
			stop:  make(chan struct{}),
		}
		e.lanes[hash] = ln
		go e.work(ln)
	}
	ln.pending++
	ln.lastUsed = e.clock.Now()
	return ln
}

func (e *Executor) work(ln *lane) {
	for {
		select {
		case t := <-ln.tasks:
			t.reply <- e.handle(ln.hash, t)
			e.mu.Lock()
			ln.pending--
			ln.lastUsed = e.clock.Now()
			e.mu.Unlock()
		case <-ln.stop:
			return
		}
	}
}

// handle runs the whole read-quota → run-pipeline → write-usage sequence for
// one request. It executes inside the lane goroutine, so no other writer can
// interleave on this account.
func (e *Executor) handle(hash string, t *task) taskResult {
	acct, err := e.store.Get(t.ctx, hash)
	if err != nil {
		if errors.Is(err, accounts.ErrAccountNotFound) {
			return taskResult{err: accounts.ErrInvalidCredential}
		}
		return taskResult{err: err}
	}

	switch acct.Status {
	case accounts.StatusSuspended:
		return taskResult{err: accounts.ErrAccountSuspended}
	case accounts.StatusExpired:
		return taskResult{err: accounts.ErrAccountExpired}
	}

	if !acct.HasHeadroom() {
		return taskResult{err: fmt.Errorf("%w (%d analyses used)", accounts.ErrQuotaExceeded, acct.UsageCount())}
	}

	res, err := e.runner.Run(t.ctx, t.text)
	if err != nil {
		// failed analyses are free: no usage increment
		return taskResult{err: err}
	}

	now := e.clock.Now()
	acct.UsageLog = append(acct.UsageLog, accounts.AnalysisRecord{
		Title:      ArticleTitle(t.text),
		WordCount:  WordCount(t.text),
		Assessment: res.Review.OverallAssessment,
		Timestamp:  now,
	})
	acct.LastUsedAt = &now

	if err := e.store.Put(t.ctx, hash, acct); err != nil {
		return taskResult{err: err}
	}

	if e.archive != nil {
		go e.archiveResult(hash, res)
	}
	return taskResult{result: res}
}

// archiveResult uploads the full analysis JSON for auditing. Best-effort:
// failure only logs.
func (e *Executor) archiveResult(hash string, res *domain.AnalysisResult) {
	ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
	defer cancel()

	body, err := json.Marshal(res)
	if err != nil {
		log.Printf("archive marshal failed: %v", err)
		return
	}
	key := fmt.Sprintf("analyses/%s/%s.json", shortHash(hash), uuid.New().String())
	if _, err := e.archive.Archive(ctx, key, body); err != nil {
		log.Printf("archive upload failed: %v", err)
	}
}

func shortHash(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}

// cleanup reaps lanes idle longer than the inactivity window so the lane map
// stays bounded. A lane with pending work is never reaped.
func (e *Executor) cleanup() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			e.reapIdle()
		case <-e.stopCh:
			return
		}
	}
}

func (e *Executor) reapIdle() {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	for hash, ln := range e.lanes {
		if ln.pending == 0 && now.Sub(ln.lastUsed) > e.idle {
			close(ln.stop)
			delete(e.lanes, hash)
		}
	}
}

// Close stops the cleanup loop and tears down idle lanes. Lanes with work in
// flight finish their current task.
func (e *Executor) Close() {
	close(e.stopCh)
	e.mu.Lock()
	defer e.mu.Unlock()
	for hash, ln := range e.lanes {
		if ln.pending == 0 {
			close(ln.stop)
			delete(e.lanes, hash)
		}
	}
}
