package v1

import (
  "encoding/json"
  "net/http"

  "github.com/go-chi/chi/v5"

  "social.local/twitter-api/api"
  "social.local/twitter-api/common"
  "social.local/twitter-api/repositories"
  "social.local/twitter-api/tasks"
)

type CommentsHandler struct {
  ApiContext         *common.ApiContext
  TimelineRepository *repositories.TimelineRepository
  StorageTask        *tasks.StorageTask
}

func NewCommentsRouter(
  apiContext *common.ApiContext,
  ansqContext *common.AnsqClientContext,
  signer repositories.Signer,
) http.Handler {
  h := CommentsHandler{
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
  r.Get("/post/{postId}", h.ByPost)
  r.Get("/user/{userId}", h.ByAuthor)
  r.Post("/", h.Create)
  r.Delete("/{id}", h.Delete)

  return r
}

// ByPost pages a post's comments by engagement, most reacted first.
func (h *CommentsHandler) ByPost(
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

  items, err := h.TimelineRepository.CommentsByPost(chi.URLParam(r, "postId"), pagination)
  if err != nil {
    response.Abort(err)
    return
  }
  response.Json(items)
}

func (h *CommentsHandler) ByAuthor(
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

  items, err := h.TimelineRepository.LatestComments(api.UserID(r), chi.URLParam(r, "userId"), pagination)
  if err != nil {
    response.Abort(err)
    return
  }
  response.Json(items)
}

func (h *CommentsHandler) Create(
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
  if payload.ParentID == "" {
    response.Error(http.StatusBadRequest, 1004, "parentId is required")
    return
  }

  item, err := h.TimelineRepository.CreatePost(api.UserID(r), payload)
  if err != nil {
    response.Abort(err)
    return
  }
  response.Created(item)
}

func (h *CommentsHandler) Delete(
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
