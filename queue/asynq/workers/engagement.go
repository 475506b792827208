package workers

import (
  "context"
  "time"

  "github.com/go-redis/redis/v8"
  "github.com/hibiken/asynq"

  "social.local/twitter-api/common"
  "social.local/twitter-api/config"
  "social.local/twitter-api/repositories"
)

type Engagement struct {
  AnsqContext *common.AnsqServerContext
  Repository  *repositories.PostsRepository
}

func NewEngagement(ansqContext *common.AnsqServerContext) *Engagement {
  h := &Engagement{
    AnsqContext: ansqContext,
  }
  h.Repository = &repositories.PostsRepository{
    Db:   h.AnsqContext.Db,
    Nats: h.AnsqContext.Nats,
  }
  return h
}

// Flush rebuilds the trending set from the reaction totals. The
// incremental updates applied by the nats workers drift over time,
// this is the periodic correction.
func (h *Engagement) Flush(ctx context.Context, t *asynq.Task) error {
  mutex := common.NewMutex(
    h.AnsqContext.Rdb,
    h.AnsqContext.Ctx,
    config.LOCKS_TASKS_ENGAGEMENT_FLUSH,
  )
  if !mutex.Lock(5 * time.Minute) {
    return nil
  }
  defer mutex.Unlock()

  items, err := h.Repository.EngagementRanking(config.TRENDING_LIMIT)
  if err != nil {
    return err
  }
  members := make([]*redis.Z, len(items))
  for i, item := range items {
    members[i] = &redis.Z{
      Score:  float64(item.Qty),
      Member: item.ID,
    }
  }

  pipe := h.AnsqContext.Rdb.TxPipeline()
  pipe.Del(h.AnsqContext.Ctx, config.REDIS_KEY_POSTS_TRENDING)
  if len(members) > 0 {
    pipe.ZAdd(h.AnsqContext.Ctx, config.REDIS_KEY_POSTS_TRENDING, members...)
  }
  _, err = pipe.Exec(h.AnsqContext.Ctx)
  return err
}

func (h *Engagement) Register() error {
  h.AnsqContext.Mux.HandleFunc(config.ASYNQ_JOBS_ENGAGEMENT_FLUSH, h.Flush)
  return nil
}
