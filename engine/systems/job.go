package systems

import (
	"fmt"
	"sync"

	"github.com/spaghettifunk/anima-atlas/engine/core"
	"github.com/spaghettifunk/anima-atlas/engine/renderer/metadata"
)

type JobSystem struct {
	numWorkers int
	jobQueue   chan metadata.JobTask
	wg         sync.WaitGroup
	closeOnce  sync.Once
}

var ErrNoWorkers = fmt.Errorf("attempting to create worker pool with less than 1 worker")
var ErrNegativeChannelSize = fmt.Errorf("attempting to create worker pool with a negative channel size")

func NewJobSystem(numWorkers int, channelSize int) (*JobSystem, error) {
	if numWorkers <= 0 {
		return nil, ErrNoWorkers
	}
	if channelSize < 0 {
		return nil, ErrNegativeChannelSize
	}

	jq := make(chan metadata.JobTask, channelSize)
	js := &JobSystem{
		numWorkers: numWorkers,
		jobQueue:   jq,
	}

	js.start()

	return js, nil
}

func (js *JobSystem) start() {
	for i := 0; i < js.numWorkers; i++ {
		js.wg.Add(1)
		go func() {
			defer js.wg.Done()
			for job := range js.jobQueue {
				var err error
				if job.OnStart != nil {
					err = job.OnStart()
				}
				if err != nil {
					core.LogDebug("%s job %s failed: %s", job.JobType, job.Name, err)
				}
				if job.OnCompletion != nil {
					job.OnCompletion(err)
				}
			}
		}()
	}
}

/**
 * @brief Shuts the job system down, waiting for every queued job to finish.
 */
func (js *JobSystem) Shutdown() error {
	js.closeOnce.Do(func() {
		close(js.jobQueue)
	})
	js.wg.Wait()
	return nil
}

/**
 * @brief Submits the provided job to be queued for execution.
 * @param jt The description of the job to be executed.
 */
func (js *JobSystem) Submit(jt metadata.JobTask) {
	js.jobQueue <- jt
}

// RunAll executes the tasks on a fresh pool of workers and returns the error
// of the lowest-indexed failing task.
func RunAll(workers int, tasks []metadata.JobTask) error {
	if len(tasks) == 0 {
		return nil
	}
	js, err := NewJobSystem(min(workers, len(tasks)), len(tasks))
	if err != nil {
		return err
	}

	errs := make([]error, len(tasks))
	for i, t := range tasks {
		onComplete := t.OnCompletion
		t.OnCompletion = func(err error) {
			errs[i] = err
			if onComplete != nil {
				onComplete(err)
			}
		}
		js.Submit(t)
	}
	if err := js.Shutdown(); err != nil {
		return err
	}

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
