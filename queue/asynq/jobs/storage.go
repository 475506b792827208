package jobs

import (
  "encoding/json"

  "github.com/hibiken/asynq"

  "social.local/twitter-api/config"
)

type Storage struct{}

type StoragePurgePayload struct {
  Keys []string `json:"keys"`
}

func (h *Storage) Purge(keys []string) (*asynq.Task, error) {
  data, err := json.Marshal(&StoragePurgePayload{
    Keys: keys,
  })
  if err != nil {
    return nil, err
  }
  return asynq.NewTask(config.ASYNQ_JOBS_STORAGE_PURGE, data), nil
}
