package tasks

import (
  "time"

  "github.com/hibiken/asynq"

  "social.local/twitter-api/common"
  "social.local/twitter-api/config"
  "social.local/twitter-api/queue/asynq/jobs"
)

type StorageTask struct {
  Job         *jobs.Storage
  AnsqContext *common.AnsqClientContext
}

func NewStorageTask(ansqContext *common.AnsqClientContext) *StorageTask {
  return &StorageTask{
    AnsqContext: ansqContext,
  }
}

func (t *StorageTask) Purge(keys []string) (err error) {
  if len(keys) == 0 {
    return
  }
  if job, err := t.Job.Purge(keys); err == nil {
    t.AnsqContext.Conn.Enqueue(
      job,
      asynq.Queue(config.ASYNQ_QUEUE_STORAGE),
      asynq.MaxRetry(2),
      asynq.Timeout(5*time.Minute),
    )
  }
  return
}
