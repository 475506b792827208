package repositories

import (
  "database/sql"
  "encoding/json"
  "fmt"

  "github.com/nats-io/nats.go"
  "github.com/rs/xid"
  "gorm.io/gorm"

  "social.local/twitter-api/config"
  "social.local/twitter-api/models"
)

type ChatsRepository struct {
  Db   *gorm.DB
  Nats *nats.Conn
}

func (r *ChatsRepository) Find(id string) (entity *models.Chat, err error) {
  err = r.Db.First(&entity, "id=?", id).Error
  return
}

func (r *ChatsRepository) GetByUsers(userID string, otherUserID string) (entity *models.Chat, err error) {
  err = r.Db.Where(
    "(first_user_id=@a AND second_user_id=@b) OR (first_user_id=@b AND second_user_id=@a)",
    sql.Named("a", userID),
    sql.Named("b", otherUserID),
  ).Take(&entity).Error
  return
}

func (r *ChatsRepository) Create(userID string, otherUserID string) (entity *models.Chat, err error) {
  entity = &models.Chat{
    ID:           xid.New().String(),
    FirstUserID:  userID,
    SecondUserID: otherUserID,
  }
  err = r.Db.Create(&entity).Error
  return
}

func (r *ChatsRepository) IsMember(chat *models.Chat, userID string) bool {
  return chat.FirstUserID == userID || chat.SecondUserID == userID
}

func (r *ChatsRepository) Messages(chatID string) []*models.Message {
  var messages []*models.Message
  r.Db.Where("chat_id", chatID).Order("created_at asc").Find(&messages)
  return messages
}

// CreateMessage persists the message and pushes it onto the chat's
// NATS subject, which is the real-time delivery channel.
func (r *ChatsRepository) CreateMessage(chatID string, senderID string, content string) (entity *models.Message, err error) {
  entity = &models.Message{
    ID:       xid.New().String(),
    ChatID:   chatID,
    SenderID: senderID,
    Content:  content,
  }
  err = r.Db.Create(&entity).Error
  if err == nil {
    data, _ := json.Marshal(map[string]interface{}{
      "id":        entity.ID,
      "chat_id":   entity.ChatID,
      "sender_id": entity.SenderID,
      "content":   entity.Content,
    })
    r.Nats.Publish(fmt.Sprintf(config.NATS_CHAT_MESSAGES, chatID), data)
    r.Nats.Flush()
  }
  return
}
