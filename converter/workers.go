package main

import (
	"fmt"
	"sync"

	converter "github.com/medal-daq/converter_go/pkg"
)

type convertFunc func(input string) (converter.Result, error)

type WorkerJob struct {
	Index int
	Input string
}

type WorkerResult struct {
	Index  int
	Input  string
	Result converter.Result
	Err    error
}

func worker(id int, convert convertFunc, jobs <-chan WorkerJob, results chan<- WorkerResult) {
	for job := range jobs {
		results <- convertFile(id, convert, job)
	}
}

func convertFile(id int, convert convertFunc, job WorkerJob) (result WorkerResult) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("worker %d recovered from panic on %s: %v", id, job.Input, r)
			result = WorkerResult{Index: job.Index, Input: job.Input, Err: err}
		}
	}()
	res, err := convert(job.Input)
	return WorkerResult{Index: job.Index, Input: job.Input, Result: res, Err: err}
}

// convertAll converts inputs with numWorkers goroutines. Results are
// returned in input order.
func convertAll(inputs []string, numWorkers int, convert convertFunc) []WorkerResult {
	if numWorkers < 1 {
		numWorkers = 1
	}
	if numWorkers > len(inputs) {
		numWorkers = len(inputs)
	}

	jobs := make(chan WorkerJob, len(inputs))
	results := make(chan WorkerResult, len(inputs))
	var wg sync.WaitGroup
	for id := 0; id < numWorkers; id++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			worker(id, convert, jobs, results)
		}(id)
	}
	for i, input := range inputs {
		jobs <- WorkerJob{Index: i, Input: input}
	}
	close(jobs)
	wg.Wait()
	close(results)

	ordered := make([]WorkerResult, len(inputs))
	for r := range results {
		ordered[r.Index] = r
	}
	return ordered
}
