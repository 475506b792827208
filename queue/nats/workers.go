package nats

import (
  "social.local/twitter-api/common"
  "social.local/twitter-api/queue/nats/workers"
)

type Workers struct {
  NatsContext *common.NatsContext
}

func NewWorkers(natsContext *common.NatsContext) *Workers {
  return &Workers{
    NatsContext: natsContext,
  }
}

func (h *Workers) Subscribe() error {
  workers.NewEngagement(h.NatsContext).Subscribe()
  return nil
}
