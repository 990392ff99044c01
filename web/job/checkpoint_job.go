// Package job holds the periodic maintenance tasks scheduled by the web server.
package job

import (
	"github.com/leadmap/leadmap/database"
	"github.com/leadmap/leadmap/logger"
	"github.com/leadmap/leadmap/util/common"
)

// CheckpointJob truncates the SQLite write-ahead log.
type CheckpointJob struct{}

func NewCheckpointJob() *CheckpointJob {
	return new(CheckpointJob)
}

// Run is a no-op on other database engines.
func (j *CheckpointJob) Run() {
	defer common.Recover("checkpoint job")

	if !database.IsSQLite() {
		return
	}
	if err := database.Checkpoint(); err != nil {
		logger.Warning("checkpoint job err:", err)
		return
	}
	logger.Debug("wal checkpoint done")
}
