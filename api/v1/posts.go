package v1

import (
  "encoding/json"
  "net/http"

  "github.com/go-chi/chi/v5"

  "social.local/twitter-api/api"
  "social.local/twitter-api/common"
  "social.local/twitter-api/config"
  "social.local/twitter-api/repositories"
  "social.local/twitter-api/tasks"
)

// Handlers hold only construction-time dependencies; per-request state
// such as the response writer stays on the stack so concurrent
// requests never touch shared fields.
type PostsHandler struct {
  ApiContext         *common.ApiContext
  TimelineRepository *repositories.TimelineRepository
  StorageTask        *tasks.StorageTask
}

func NewPostsRouter(
  apiContext *common.ApiContext,
  ansqContext *common.AnsqClientContext,
  signer repositories.Signer,
) http.Handler {
  h := PostsHandler{
    ApiContext:  apiContext,
    StorageTask: tasks.NewStorageTask(ansqContext),
  }
  users := &repositories.UsersRepository{
    Db: h.ApiContext.Db,
  }
  follows := &repositories.FollowsRepository{
    Db: h.ApiContext.Db,
  }
  h.TimelineRepository = &repositories.TimelineRepository{
    Posts: &repositories.PostsRepository{
      Db:   h.ApiContext.Db,
      Nats: ansqContext.Nats,
    },
    Users:   users,
    Follows: follows,
    Visibility: &repositories.VisibilityRepository{
      Users:   users,
      Follows: follows,
    },
    Signer: signer,
  }

  r := chi.NewRouter()
  r.Get("/", h.Timeline)
  r.Get("/trending", h.Trending)
  r.Get("/user/{userId}", h.ByAuthor)
  r.Get("/{id}", h.Show)
  r.Post("/", h.Create)
  r.Delete("/{id}", h.Delete)

  return r
}

func (h *PostsHandler) Timeline(
  w http.ResponseWriter,
  r *http.Request,
) {
  response := &api.ResponseHandler{
    Writer: w,
  }

  pagination, ok := parsePagination(r)
  if !ok {
    response.Error(http.StatusBadRequest, 1004, "pagination not valid")
    return
  }

  items, err := h.TimelineRepository.Timeline(api.UserID(r), pagination)
  if err != nil {
    response.Abort(err)
    return
  }
  response.Json(items)
}

// Trending reads the ranked id set maintained by the queue workers and
// lets the composer drop whatever the viewer may not see.
func (h *PostsHandler) Trending(
  w http.ResponseWriter,
  r *http.Request,
) {
  response := &api.ResponseHandler{
    Writer: w,
  }

  ids, err := h.ApiContext.Rdb.ZRevRange(
    h.ApiContext.Ctx,
    config.REDIS_KEY_POSTS_TRENDING,
    0,
    config.TRENDING_LIMIT-1,
  ).Result()
  if err != nil {
    response.Abort(err)
    return
  }

  items, err := h.TimelineRepository.PostsByIDs(api.UserID(r), ids)
  if err != nil {
    response.Abort(err)
    return
  }
  response.Json(items)
}

func (h *PostsHandler) ByAuthor(
  w http.ResponseWriter,
  r *http.Request,
) {
  response := &api.ResponseHandler{
    Writer: w,
  }

  items, err := h.TimelineRepository.PostsByAuthor(api.UserID(r), chi.URLParam(r, "userId"))
  if err != nil {
    response.Abort(err)
    return
  }
  response.Json(items)
}

func (h *PostsHandler) Show(
  w http.ResponseWriter,
  r *http.Request,
) {
  response := &api.ResponseHandler{
    Writer: w,
  }

  item, err := h.TimelineRepository.Post(api.UserID(r), chi.URLParam(r, "id"))
  if err != nil {
    response.Abort(err)
    return
  }
  response.Json(item)
}

func (h *PostsHandler) Create(
  w http.ResponseWriter,
  r *http.Request,
) {
  response := &api.ResponseHandler{
    Writer: w,
  }

  var payload *repositories.CreatePostPayload
  if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload == nil {
    response.Error(http.StatusBadRequest, 1004, "payload not valid")
    return
  }
  payload.ParentID = ""

  item, err := h.TimelineRepository.CreatePost(api.UserID(r), payload)
  if err != nil {
    response.Abort(err)
    return
  }
  response.Created(item)
}

func (h *PostsHandler) Delete(
  w http.ResponseWriter,
  r *http.Request,
) {
  response := &api.ResponseHandler{
    Writer: w,
  }

  keys, err := h.TimelineRepository.DeletePost(api.UserID(r), chi.URLParam(r, "id"))
  if err != nil {
    response.Abort(err)
    return
  }
  h.StorageTask.Purge(keys)
  response.Json(nil)
}
