package v1

import (
  "encoding/json"
  "errors"
  "fmt"
  "net/http"
  "unicode/utf8"

  "github.com/go-chi/chi/v5"
  "gorm.io/gorm"

  "social.local/twitter-api/api"
  "social.local/twitter-api/common"
  "social.local/twitter-api/config"
  "social.local/twitter-api/models"
  "social.local/twitter-api/repositories"
)

type ChatsHandler struct {
  ApiContext        *common.ApiContext
  Signer            repositories.Signer
  UsersRepository   *repositories.UsersRepository
  FollowsRepository *repositories.FollowsRepository
  ChatsRepository   *repositories.ChatsRepository
}

func NewChatsRouter(
  apiContext *common.ApiContext,
  ansqContext *common.AnsqClientContext,
  signer repositories.Signer,
) http.Handler {
  h := ChatsHandler{
    ApiContext: apiContext,
    Signer:     signer,
  }
  h.UsersRepository = &repositories.UsersRepository{
    Db: h.ApiContext.Db,
  }
  h.FollowsRepository = &repositories.FollowsRepository{
    Db: h.ApiContext.Db,
  }
  h.ChatsRepository = &repositories.ChatsRepository{
    Db:   h.ApiContext.Db,
    Nats: ansqContext.Nats,
  }

  r := chi.NewRouter()
  r.Post("/", h.Create)
  r.Get("/", h.Contacts)
  r.Get("/{id}/messages", h.Messages)
  r.Post("/{id}/messages", h.CreateMessage)

  return r
}

// Create opens the chat between the caller and the other user, or
// returns the existing one. Chats require a mutual follow.
func (h *ChatsHandler) Create(
  w http.ResponseWriter,
  r *http.Request,
) {
  response := &api.ResponseHandler{
    Writer: w,
  }

  var payload *CreateChatPayload
  if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload == nil || payload.OtherUserID == "" {
    response.Error(http.StatusBadRequest, 1004, "otherUserId is required")
    return
  }

  userID := api.UserID(r)
  if userID == payload.OtherUserID {
    response.Error(http.StatusBadRequest, 1004, "cannot chat with yourself")
    return
  }
  if _, err := h.UsersRepository.Find(payload.OtherUserID); err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      response.Error(http.StatusNotFound, 1003, "user not exists")
      return
    }
    response.Abort(err)
    return
  }

  mutual, err := h.FollowsRepository.Relationship(userID, payload.OtherUserID)
  if err != nil {
    response.Abort(err)
    return
  }
  if !mutual {
    response.Error(http.StatusForbidden, 1006, "users must follow each other")
    return
  }

  chat, err := h.ChatsRepository.GetByUsers(userID, payload.OtherUserID)
  if err == nil {
    response.Json(h.view(chat))
    return
  }
  if !errors.Is(err, gorm.ErrRecordNotFound) {
    response.Abort(err)
    return
  }

  if chat, err = h.ChatsRepository.Create(userID, payload.OtherUserID); err != nil {
    response.Abort(err)
    return
  }
  response.Created(h.view(chat))
}

// Contacts lists the users the caller can chat with, the mutual
// follows.
func (h *ChatsHandler) Contacts(
  w http.ResponseWriter,
  r *http.Request,
) {
  response := &api.ResponseHandler{
    Writer: w,
  }

  ids, err := h.FollowsRepository.RelatedUserIds(api.UserID(r))
  if err != nil {
    response.Abort(err)
    return
  }

  views := []*repositories.UserView{}
  for _, id := range ids {
    user, err := h.UsersRepository.Find(id)
    if errors.Is(err, gorm.ErrRecordNotFound) {
      continue
    }
    if err != nil {
      response.Abort(err)
      return
    }
    view := &repositories.UserView{
      ID:        user.ID,
      Username:  user.Username,
      Name:      user.Name,
      IsPrivate: user.IsPrivate,
      CreatedAt: user.CreatedAt,
    }
    if user.Image != "" {
      if view.Image, err = h.Signer.SignGet(user.Image); err != nil {
        response.Abort(err)
        return
      }
    }
    views = append(views, view)
  }
  response.Json(views)
}

func (h *ChatsHandler) Messages(
  w http.ResponseWriter,
  r *http.Request,
) {
  response := &api.ResponseHandler{
    Writer: w,
  }

  chat, ok := h.member(response, r)
  if !ok {
    return
  }

  messages := h.ChatsRepository.Messages(chat.ID)
  views := make([]*MessageInfo, len(messages))
  for i, message := range messages {
    views[i] = &MessageInfo{
      ID:        message.ID,
      ChatID:    message.ChatID,
      SenderID:  message.SenderID,
      Content:   message.Content,
      CreatedAt: message.CreatedAt,
    }
  }
  response.Json(views)
}

func (h *ChatsHandler) CreateMessage(
  w http.ResponseWriter,
  r *http.Request,
) {
  response := &api.ResponseHandler{
    Writer: w,
  }

  chat, ok := h.member(response, r)
  if !ok {
    return
  }

  var payload *CreateMessagePayload
  if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload == nil {
    response.Error(http.StatusBadRequest, 1004, "payload not valid")
    return
  }
  if payload.Content == "" || utf8.RuneCountInString(payload.Content) > config.MESSAGE_CONTENT_LIMIT {
    response.Error(http.StatusBadRequest, 1004, fmt.Sprintf("content must be 1-%d characters", config.MESSAGE_CONTENT_LIMIT))
    return
  }

  message, err := h.ChatsRepository.CreateMessage(chat.ID, api.UserID(r), payload.Content)
  if err != nil {
    response.Abort(err)
    return
  }
  response.Created(&MessageInfo{
    ID:        message.ID,
    ChatID:    message.ChatID,
    SenderID:  message.SenderID,
    Content:   message.Content,
    CreatedAt: message.CreatedAt,
  })
}

func (h *ChatsHandler) member(response *api.ResponseHandler, r *http.Request) (*models.Chat, bool) {
  chat, err := h.ChatsRepository.Find(chi.URLParam(r, "id"))
  if errors.Is(err, gorm.ErrRecordNotFound) {
    response.Error(http.StatusNotFound, 1003, "chat not exists")
    return nil, false
  }
  if err != nil {
    response.Abort(err)
    return nil, false
  }
  if !h.ChatsRepository.IsMember(chat, api.UserID(r)) {
    response.Error(http.StatusForbidden, 1006, "not a chat member")
    return nil, false
  }
  return chat, true
}

func (h *ChatsHandler) view(chat *models.Chat) map[string]interface{} {
  return map[string]interface{}{
    "id":           chat.ID,
    "firstUserId":  chat.FirstUserID,
    "secondUserId": chat.SecondUserID,
    "createdAt":    chat.CreatedAt,
    "subject":      fmt.Sprintf(config.NATS_CHAT_MESSAGES, chat.ID),
  }
}
