package job

import (
	"os"

	"github.com/leadmap/leadmap/logger"
	"github.com/leadmap/leadmap/util/common"
)

// ClearLogsJob keeps one day of history: the current log file is copied to
// <name>.prev and emptied.
type ClearLogsJob struct{}

func NewClearLogsJob() *ClearLogsJob {
	return new(ClearLogsJob)
}

func (j *ClearLogsJob) Run() {
	defer common.Recover("clear logs job")

	path := logger.GetLogFilePath()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warning("clear logs job err:", err)
		return
	}
	if err := os.WriteFile(path+".prev", data, 0o660); err != nil {
		logger.Warning("clear logs job err:", err)
		return
	}
	if err := os.Truncate(path, 0); err != nil {
		logger.Warning("clear logs job err:", err)
	}
}
