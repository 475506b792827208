package config

const (
  NATS_POSTS_CREATE     = "posts.create"
  NATS_POSTS_DELETE     = "posts.delete"
  NATS_REACTIONS_CREATE = "reactions.create"
  NATS_REACTIONS_DELETE = "reactions.delete"
  NATS_CHAT_MESSAGES    = "chat.messages.%v"
)

const (
  REDIS_KEY_USERS_COUNT    = "twitter:users:count:[%s]"
  REDIS_KEY_POSTS_TRENDING = "twitter:posts:trending"
  REDIS_KEY_TOKENS_REFRESH = "twitter:tokens:refresh:%s"
)

const (
  ASYNQ_JOBS_STORAGE_PURGE    = "storage:purge"
  ASYNQ_JOBS_ENGAGEMENT_FLUSH = "engagement:flush"
)

const (
  ASYNQ_QUEUE_STORAGE    = "storage"
  ASYNQ_QUEUE_ENGAGEMENT = "engagement"
)

const (
  LOCKS_TASKS_STORAGE_PURGE    = "locks:tasks:storage:purge:%s"
  LOCKS_TASKS_ENGAGEMENT_FLUSH = "locks:tasks:engagement:flush"
)

const (
  POST_CONTENT_LIMIT    = 240
  POST_IMAGES_LIMIT     = 4
  MESSAGE_CONTENT_LIMIT = 1000
  TRENDING_LIMIT        = 100
)
