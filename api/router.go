// Package api contains all endpoints available
package api

import (
	"fmt"
	"time"

	"devlink/connect-api/aws"
	"devlink/connect-api/db"
	"devlink/connect-api/internal/service"
	"devlink/connect-api/pkg/middleware"
	"devlink/connect-api/pkg/security"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

var store = persist.NewMemoryStore(time.Minute)

type API struct {
	DB      *gorm.DB
	Router  *gin.Engine
	Argon   *security.ArgonHash
	Tokens  *security.TokenIssuer
	Avatars service.AvatarStore
}

func NewRouter() (*API, error) {
	a := &API{
		Argon:  security.NewArgon(),
		Tokens: security.NewTokenIssuer(),
	}

	db, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}
	a.DB = db

	s3, err := aws.NewS3()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize S3 client, %w", err)
	}
	a.Avatars = service.NewS3AvatarStore(s3)

	makeLogger()

	router := gin.New()
	a.Router = router

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     []string{viper.GetString("host.cors_origin")},
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true
	a.Router.MaxMultipartMemory = 5 << 20

	a.registerRoutes()

	return a, nil
}

func (a *API) registerRoutes() {
	jwt := middleware.NewJWTMiddleware(a.DB, a.Tokens)
	maxAvatarSize := viper.GetInt64("upload.max_avatar_size")

	main := a.Router.Group("/api")
	{
		// HEAD /api/heartbeat 		-> Used to check if the server is alive
		main.HEAD("/heartbeat", a.Heartbeat)
	}

	users := main.Group("/users")
	{
		// POST /api/users/register	-> Registers a new user, multipart with avatar
		users.POST("/register", middleware.BodySizeLimiter(maxAvatarSize+1<<20), a.UserRegister)

		// POST /api/users/login	-> Verifies credentials, sets the token pair cookies
		users.POST("/login", middleware.BodySizeLimiter(1<<20), a.UserLogin)

		// POST /api/users/logout	-> Clears the stored refresh token and cookies
		users.POST("/logout", jwt, a.UserLogout)

		// POST /api/users/refresh-token -> Rotates the token pair
		users.POST("/refresh-token", middleware.BodySizeLimiter(1<<20), a.UserRefreshToken)

		// POST /api/users/reset-password -> Replaces the password after policy checks
		users.POST("/reset-password", middleware.BodySizeLimiter(1<<20), a.UserResetPassword)

		// GET /api/users/feed		-> Lists all users without credentials
		users.GET("/feed", cacheFor(30), a.UserFeed)

		// GET /api/users/details/:id	-> Returns a single profile
		users.GET("/details/:id", a.UserDetails)

		// PUT /api/users/details/:id	-> Partially updates the mutable profile fields
		users.PUT("/details/:id", middleware.BodySizeLimiter(1<<20), a.UserUpdate)

		// PATCH /api/users/avatar	-> Replaces the profile image
		users.PATCH("/avatar", jwt, middleware.BodySizeLimiter(maxAvatarSize+1<<20), a.UserAvatar)
	}

	connections := main.Group("/connections", jwt)
	{
		// POST /api/connections/send/:status/:toUserId		-> Sends a request (ignored|interested)
		connections.POST("/send/:status/:toUserId", a.ConnectionSend)

		// POST /api/connections/review/:status/:requestId	-> Reviews a request (accepted|rejected)
		connections.POST("/review/:status/:requestId", a.ConnectionReview)

		// POST /api/connections/requests/:status		-> Lists incoming requests (interested|accepted)
		connections.POST("/requests/:status", a.ConnectionRequests)
	}
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

func cacheFor(sec int) gin.HandlerFunc {
	return cache.CacheByRequestURI(store, time.Second*time.Duration(sec))
}
