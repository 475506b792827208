package asynq

import (
  "social.local/twitter-api/common"
  "social.local/twitter-api/queue/asynq/workers"
)

type Workers struct {
  AnsqContext *common.AnsqServerContext
}

func NewWorkers(ansqContext *common.AnsqServerContext) *Workers {
  return &Workers{
    AnsqContext: ansqContext,
  }
}

func (h *Workers) Register() error {
  workers.NewStorage(h.AnsqContext).Register()
  workers.NewEngagement(h.AnsqContext).Register()
  return nil
}
