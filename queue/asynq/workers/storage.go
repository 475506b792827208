package workers

import (
  "context"
  "crypto/md5"
  "encoding/json"
  "fmt"
  "log"
  "time"

  "github.com/hibiken/asynq"

  "social.local/twitter-api/common"
  "social.local/twitter-api/config"
  "social.local/twitter-api/queue/asynq/jobs"
  storageRepositories "social.local/twitter-api/repositories/storage"
)

type Storage struct {
  AnsqContext *common.AnsqServerContext
  Repository  *storageRepositories.SignerRepository
}

func NewStorage(ansqContext *common.AnsqServerContext) *Storage {
  h := &Storage{
    AnsqContext: ansqContext,
  }
  h.Repository = storageRepositories.NewSigner(h.AnsqContext.Ctx)
  return h
}

// Purge deletes the objects freed by a post delete. The lock keys on
// the payload hash so a redelivered job does not race itself.
func (h *Storage) Purge(ctx context.Context, t *asynq.Task) error {
  var payload *jobs.StoragePurgePayload
  if err := json.Unmarshal(t.Payload(), &payload); err != nil {
    return err
  }

  mutex := common.NewMutex(
    h.AnsqContext.Rdb,
    h.AnsqContext.Ctx,
    fmt.Sprintf(config.LOCKS_TASKS_STORAGE_PURGE, fmt.Sprintf("%x", md5.Sum(t.Payload()))),
  )
  if !mutex.Lock(30 * time.Second) {
    return nil
  }
  defer mutex.Unlock()

  for _, key := range payload.Keys {
    if err := h.Repository.Remove(key); err != nil {
      log.Println("storage purge error", key, err)
      return err
    }
  }
  return nil
}

func (h *Storage) Register() error {
  h.AnsqContext.Mux.HandleFunc(config.ASYNQ_JOBS_STORAGE_PURGE, h.Purge)
  return nil
}
