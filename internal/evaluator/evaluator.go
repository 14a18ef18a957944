// Package evaluator ticks many blend-space instances in parallel.
package evaluator

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"go.uber.org/zap"

	"github.com/Faultbox/blendspace/pkg/blendspace"
	"github.com/Faultbox/blendspace/pkg/math"
)

// Job is one instance to tick with its input for this frame.
// Instances must be distinct across the jobs of one TickAll call.
type Job struct {
	Instance *blendspace.Instance
	Input    math.Vec3
}

// Evaluator owns a reusable worker pool for per-frame instance ticks.
type Evaluator struct {
	pool    worker.DynamicWorkerPool
	workers int
	log     *zap.Logger

	frame   uint64
	results []blendspace.TickResult
}

// New creates an evaluator with the given number of workers.
func New(workers int, log *zap.Logger) *Evaluator {
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Evaluator{
		pool:    worker.NewDynamicWorkerPool(workers, 256, 1*time.Second),
		workers: workers,
		log:     log,
	}
}

// Workers returns the pool size.
func (e *Evaluator) Workers() int { return e.workers }

// Frames returns the number of TickAll calls so far.
func (e *Evaluator) Frames() uint64 { return e.frame }

// TickAll ticks every job and returns the results in job order. The returned
// slice is reused by the next call.
func (e *Evaluator) TickAll(jobs []Job, deltaTime float32) []blendspace.TickResult {
	if cap(e.results) < len(jobs) {
		e.results = make([]blendspace.TickResult, len(jobs))
	}
	results := e.results[:len(jobs)]

	// pool.Wait blocks until idle workers exit, so a WaitGroup is the frame barrier.
	var wg sync.WaitGroup
	for i := range jobs {
		wg.Add(1)
		id := i
		e.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				j := jobs[id]
				results[id] = j.Instance.Tick(j.Input, deltaTime)
				return nil, nil
			},
		})
	}
	wg.Wait()

	e.frame++
	if ce := e.log.Check(zap.DebugLevel, "frame ticked"); ce != nil {
		held := 0
		for _, r := range results {
			if r.Held {
				held++
			}
		}
		ce.Write(
			zap.Uint64("frame", e.frame),
			zap.Int("instances", len(jobs)),
			zap.Int("held", held))
	}
	return results
}
