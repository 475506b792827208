package repositories

import (
  "github.com/rs/xid"
  "gorm.io/gorm"

  "social.local/twitter-api/common"
  "social.local/twitter-api/models"
)

type UsersRepository struct {
  Db *gorm.DB
}

func (r *UsersRepository) Find(id string) (entity *models.User, err error) {
  err = r.Db.First(&entity, "id=?", id).Error
  return
}

func (r *UsersRepository) Get(username string) (entity *models.User, err error) {
  err = r.Db.Where("username", username).Take(&entity).Error
  return
}

func (r *UsersRepository) GetByEmailOrUsername(email string, username string) (entity *models.User, err error) {
  err = r.Db.Where("email=? OR username=?", email, username).Take(&entity).Error
  return
}

func (r *UsersRepository) Privacy(id string) (isPrivate bool, err error) {
  var entity *models.User
  err = r.Db.Select("is_private").First(&entity, "id=?", id).Error
  if err != nil {
    return
  }
  isPrivate = entity.IsPrivate
  return
}

func (r *UsersRepository) Create(
  username string,
  email string,
  password string,
) (entity *models.User, err error) {
  salt := common.GenerateSalt()
  entity = &models.User{
    ID:       xid.New().String(),
    Username: username,
    Email:    email,
    Name:     username,
    Password: common.HashPassword(password, salt),
    Salt:     salt,
  }
  err = r.Db.Create(&entity).Error
  return
}

func (r *UsersRepository) Updates(user *models.User, values map[string]interface{}) (err error) {
  err = r.Db.Model(&user).Updates(values).Error
  return
}

func (r *UsersRepository) Delete(id string) (err error) {
  err = r.Db.Delete(&models.User{}, "id=?", id).Error
  return
}

func (r *UsersRepository) Count(conditions map[string]interface{}) int64 {
  var total int64
  query := r.Db.Model(&models.User{})
  if _, ok := conditions["username"]; ok {
    query.Where("username ILIKE ?", "%"+conditions["username"].(string)+"%")
  }
  query.Count(&total)
  return total
}

func (r *UsersRepository) Listings(conditions map[string]interface{}, current int, pageSize int) []*models.User {
  var users []*models.User
  query := r.Db.Select([]string{
    "id",
    "username",
    "name",
    "image",
    "is_private",
    "created_at",
  })
  if _, ok := conditions["username"]; ok {
    query.Where("username ILIKE ?", "%"+conditions["username"].(string)+"%")
  }
  query.Order("created_at desc")
  query.Offset((current - 1) * pageSize).Limit(pageSize).Find(&users)
  return users
}

func (r *UsersRepository) Recommended(current int, pageSize int) []*models.User {
  var users []*models.User
  query := r.Db.Select([]string{
    "id",
    "username",
    "name",
    "image",
    "is_private",
    "created_at",
  })
  query.Order("id asc")
  query.Offset((current - 1) * pageSize).Limit(pageSize).Find(&users)
  return users
}
