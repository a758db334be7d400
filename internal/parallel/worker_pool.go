// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package parallel

import (
	"context"
	"fmt"
	"sync"
	"time"

	"contract-guard/internal/analyzer"
	"contract-guard/internal/extract"
	"contract-guard/internal/observability"
)

// WorkerPool analyzes files concurrently with a fixed number of workers
type WorkerPool struct {
	workers   int
	jobs      chan *Job
	results   chan *Result
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	observer  *observability.StandardObserver
	engine    *analyzer.Engine
	extractor *extract.DocumentExtractor
}

// Job represents a file analysis task
type Job struct {
	JobID    string
	FilePath string
}

// Result represents the outcome of one file analysis
type Result struct {
	JobID    string
	FilePath string
	Analysis *analyzer.Result
	Error    error
	Duration time.Duration
}

// NewWorkerPool creates a worker pool that extracts and analyzes files
func NewWorkerPool(workers int, engine *analyzer.Engine, extractor *extract.DocumentExtractor, observer *observability.StandardObserver) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		workers:   workers,
		jobs:      make(chan *Job, workers*2),
		results:   make(chan *Result, workers*2),
		ctx:       ctx,
		cancel:    cancel,
		observer:  observer,
		engine:    engine,
		extractor: extractor,
	}
}

// Start initializes worker goroutines
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}
}

// Submit adds a job to the queue
func (wp *WorkerPool) Submit(job *Job) {
	select {
	case wp.jobs <- job:
	case <-wp.ctx.Done():
	}
}

// CloseJobs signals that no further jobs will be submitted
func (wp *WorkerPool) CloseJobs() {
	close(wp.jobs)
}

// Stop waits for in-flight jobs and closes the results channel.
// CloseJobs must be called first.
func (wp *WorkerPool) Stop() {
	wp.wg.Wait()
	close(wp.results)
	wp.cancel()
}

// Cancel aborts outstanding work
func (wp *WorkerPool) Cancel() {
	wp.cancel()
}

// Results returns the results channel
func (wp *WorkerPool) Results() <-chan *Result {
	return wp.results
}

// worker processes jobs from the queue
func (wp *WorkerPool) worker() {
	defer wp.wg.Done()

	for job := range wp.jobs {
		result := wp.processJob(job)

		select {
		case wp.results <- result:
		case <-wp.ctx.Done():
			return
		}
	}
}

// processJob extracts text from one file and runs the risk analysis
func (wp *WorkerPool) processJob(job *Job) *Result {
	start := time.Now()

	var finishTiming func(bool, map[string]interface{})
	var debug *observability.DebugObserver
	if wp.observer != nil {
		finishTiming = wp.observer.StartTiming("worker_pool", "analyze_file", job.FilePath)
		debug = wp.observer.DebugObserver
	}
	step := func(component, name string) func(success bool, details string) {
		if debug == nil {
			return func(bool, string) {}
		}
		return debug.StartStep(component, name, job.FilePath)
	}

	result := &Result{
		JobID:    job.JobID,
		FilePath: job.FilePath,
	}

	finishExtract := step("extractor", "extract_text")
	content, err := wp.extractor.ExtractText(job.FilePath)
	if err != nil {
		result.Error = err
		finishExtract(false, err.Error())
	} else {
		finishExtract(true, fmt.Sprintf("%d chars", content.CharCount))

		finishAnalyze := step("analyzer", "analyze")
		result.Analysis, result.Error = wp.engine.Analyze(content.Text)
		if result.Error != nil {
			finishAnalyze(false, result.Error.Error())
		} else {
			finishAnalyze(true, fmt.Sprintf("%d red flags", len(result.Analysis.RedFlags)))
			wp.logFindings(debug, result.Analysis)
		}
	}
	result.Duration = time.Since(start)

	if finishTiming != nil {
		metadata := map[string]interface{}{}
		if result.Analysis != nil {
			metadata["risk_score"] = result.Analysis.RiskScore
			metadata["finding_count"] = len(result.Analysis.RedFlags)
		}
		finishTiming(result.Error == nil, metadata)
	}

	return result
}

// logFindings emits per-flag debug lines. A triggered rule whose context
// pattern found no excerpt is a data-quality signal worth surfacing.
func (wp *WorkerPool) logFindings(debug *observability.DebugObserver, analysis *analyzer.Result) {
	if debug == nil {
		return
	}
	for _, flag := range analysis.RedFlags {
		debug.LogFinding("analyzer", flag.Type, string(flag.Severity))
		if flag.Clause == "" {
			debug.LogDetail("analyzer", fmt.Sprintf("no clause excerpt extracted for %s finding", flag.Type))
		}
	}
	debug.LogMetric("analyzer", "risk_score", analysis.RiskScore)
}
