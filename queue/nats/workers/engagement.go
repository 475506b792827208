package workers

import (
  "encoding/json"

  "github.com/nats-io/nats.go"

  "social.local/twitter-api/common"
  "social.local/twitter-api/config"
)

type Engagement struct {
  NatsContext *common.NatsContext
}

type ReactionEventPayload struct {
  PostID string `json:"post_id"`
}

type PostDeletePayload struct {
  ID string `json:"id"`
}

func NewEngagement(natsContext *common.NatsContext) *Engagement {
  return &Engagement{
    NatsContext: natsContext,
  }
}

func (h *Engagement) Subscribe() error {
  h.NatsContext.Conn.Subscribe(config.NATS_REACTIONS_CREATE, h.Increase)
  h.NatsContext.Conn.Subscribe(config.NATS_REACTIONS_DELETE, h.Decrease)
  h.NatsContext.Conn.Subscribe(config.NATS_POSTS_DELETE, h.Remove)
  return nil
}

func (h *Engagement) Increase(m *nats.Msg) {
  var payload *ReactionEventPayload
  json.Unmarshal(m.Data, &payload)
  if payload == nil || payload.PostID == "" {
    return
  }
  h.NatsContext.Rdb.ZIncrBy(h.NatsContext.Ctx, config.REDIS_KEY_POSTS_TRENDING, 1, payload.PostID)
}

func (h *Engagement) Decrease(m *nats.Msg) {
  var payload *ReactionEventPayload
  json.Unmarshal(m.Data, &payload)
  if payload == nil || payload.PostID == "" {
    return
  }
  h.NatsContext.Rdb.ZIncrBy(h.NatsContext.Ctx, config.REDIS_KEY_POSTS_TRENDING, -1, payload.PostID)
}

func (h *Engagement) Remove(m *nats.Msg) {
  var payload *PostDeletePayload
  json.Unmarshal(m.Data, &payload)
  if payload == nil || payload.ID == "" {
    return
  }
  h.NatsContext.Rdb.ZRem(h.NatsContext.Ctx, config.REDIS_KEY_POSTS_TRENDING, payload.ID)
}
