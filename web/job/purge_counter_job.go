package job

import (
	"github.com/leadmap/leadmap/logger"
	"github.com/leadmap/leadmap/util/common"
)

// Purger drops expired entries from an in-memory store.
type Purger interface {
	Purge()
	Len() int
}

// PurgeCounterJob evicts closed rate limit windows.
type PurgeCounterJob struct {
	counter Purger
}

func NewPurgeCounterJob(counter Purger) *PurgeCounterJob {
	return &PurgeCounterJob{counter: counter}
}

func (j *PurgeCounterJob) Run() {
	defer common.Recover("purge counter job")

	j.counter.Purge()
	logger.Debugf("rate limit counters after purge: %d", j.counter.Len())
}
