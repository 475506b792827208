package jobs

import (
  "github.com/hibiken/asynq"

  "social.local/twitter-api/config"
)

type Engagement struct{}

func (h *Engagement) Flush() (*asynq.Task, error) {
  return asynq.NewTask(config.ASYNQ_JOBS_ENGAGEMENT_FLUSH, nil), nil
}
