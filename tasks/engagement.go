package tasks

import (
  "log"
  "time"

  "github.com/hibiken/asynq"

  "social.local/twitter-api/common"
  "social.local/twitter-api/config"
  "social.local/twitter-api/queue/asynq/jobs"
)

type EngagementTask struct {
  Job         *jobs.Engagement
  AnsqContext *common.AnsqClientContext
}

func NewEngagementTask(ansqContext *common.AnsqClientContext) *EngagementTask {
  return &EngagementTask{
    AnsqContext: ansqContext,
  }
}

func (t *EngagementTask) Flush() (err error) {
  log.Println("tasks engagement flush")
  if job, err := t.Job.Flush(); err == nil {
    t.AnsqContext.Conn.Enqueue(
      job,
      asynq.Queue(config.ASYNQ_QUEUE_ENGAGEMENT),
      asynq.MaxRetry(0),
      asynq.Timeout(5*time.Minute),
    )
  }
  return
}
