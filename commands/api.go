package commands

import (
  "context"
  "fmt"
  "log"
  "net/http"
  "os"

  "github.com/go-chi/chi/v5"
  "github.com/go-redis/redis/v8"
  "github.com/urfave/cli/v2"
  "gorm.io/gorm"

  "social.local/twitter-api/api"
  "social.local/twitter-api/api/v1"
  "social.local/twitter-api/common"
  jwtRepositories "social.local/twitter-api/repositories/jwt"
  storageRepositories "social.local/twitter-api/repositories/storage"
)

type ApiHandler struct {
  Db  *gorm.DB
  Rdb *redis.Client
  Ctx context.Context
}

func NewApiCommand() *cli.Command {
  var h ApiHandler
  return &cli.Command{
    Name:  "api",
    Usage: "",
    Before: func(c *cli.Context) error {
      h = ApiHandler{
        Db:  common.NewDB(),
        Rdb: common.NewRedis(),
        Ctx: context.Background(),
      }
      return nil
    },
    Action: func(c *cli.Context) error {
      if err := h.Run(); err != nil {
        return cli.Exit(err.Error(), 1)
      }
      return nil
    },
  }
}

func (h *ApiHandler) Run() error {
  log.Println("api running...")

  apiContext := &common.ApiContext{
    Db:  h.Db,
    Rdb: h.Rdb,
    Ctx: h.Ctx,
  }
  ansqContext := &common.AnsqClientContext{
    Db:   h.Db,
    Rdb:  h.Rdb,
    Ctx:  h.Ctx,
    Conn: common.NewAsynqClient(),
    Nats: common.NewNats(),
  }
  signer := storageRepositories.NewSigner(h.Ctx)
  tokenRepository := &jwtRepositories.TokenRepository{
    Rdb: h.Rdb,
    Ctx: h.Ctx,
  }

  r := chi.NewRouter()
  r.Route("/v1", func(r chi.Router) {
    r.Mount("/health", v1.NewHealthRouter(apiContext))
    r.Mount("/auth", v1.NewAuthRouter(apiContext))
    r.Group(func(r chi.Router) {
      r.Use(api.Authenticator(tokenRepository))
      r.Mount("/users", v1.NewUsersRouter(apiContext, signer))
      r.Mount("/posts", v1.NewPostsRouter(apiContext, ansqContext, signer))
      r.Mount("/comments", v1.NewCommentsRouter(apiContext, ansqContext, signer))
      r.Mount("/follows", v1.NewFollowsRouter(apiContext))
      r.Mount("/reactions", v1.NewReactionsRouter(apiContext, ansqContext))
      r.Mount("/chats", v1.NewChatsRouter(apiContext, ansqContext, signer))
    })
  })

  err := http.ListenAndServe(
    fmt.Sprintf("127.0.0.1:%v", os.Getenv("API_PORT")),
    r,
  )
  if err != nil {
    return err
  }

  return nil
}
