// Package api contains all endpoints available
package api

import (
	"fmt"
	"murmur/feedback-api/db"
	"murmur/feedback-api/middleware"
	"murmur/feedback-api/store"
	"murmur/feedback-api/suggest"
	"time"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	ginzap "github.com/gin-contrib/zap"

	"github.com/gin-contrib/cors"
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

var cacheStore = persist.NewMemoryStore(time.Minute)

type API struct {
	DB      *gorm.DB
	Router  *gin.Engine
	Store   *store.Store
	Suggest *suggest.Client
}

func NewRouter() (*API, error) {
	a := &API{}

	conn, err := db.Connect()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}
	a.DB = conn
	a.Store = store.New(conn)
	a.Suggest = suggest.NewClient()

	makeLogger()

	router := gin.New()
	a.Router = router

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     viper.GetStringSlice("host.cors_origins"),
			AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
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

	jwt := middleware.NewJWTMiddleware(conn)
	authLimiter := middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: 2,
		Burst:             5,
	})

	main := router.Group("/api", middleware.BodySizeLimiter(1<<20))
	{
		// HEAD /api/heartbeat 		-> Used to check if the server is alive
		main.HEAD("/heartbeat", a.Heartbeat)

		// HEAD /api/validate		-> Validates a session cookie
		main.HEAD("/validate", jwt, a.Validate)

		// POST /api/sign-up		-> Registers a pending user and mails a code
		main.POST("/sign-up", authLimiter, a.UserRegister)

		// POST /api/verify-code	-> Confirms a verification code
		main.POST("/verify-code", a.UserVerify)

		// GET /api/check-username-unique -> Advisory availability check
		main.GET("/check-username-unique", cacheFor(2), a.UsernameCheck)

		// POST /api/sign-in		-> Logs in a user and sets the session cookie
		main.POST("/sign-in", authLimiter, a.UserLogin)

		// GET  /api/accept-messages	-> Returns the owner's accept flag
		main.GET("/accept-messages", jwt, a.AcceptMessagesFetch)

		// POST /api/accept-messages	-> Overwrites the owner's accept flag
		main.POST("/accept-messages", jwt, a.AcceptMessagesUpdate)

		// GET /api/get-messages	-> Lists the owner's messages newest-first
		main.GET("/get-messages", jwt, a.MessagesFetch)

		// DELETE /api/delete-message/:id -> Deletes one owned message
		main.DELETE("/delete-message/:id", jwt, a.MessageDelete)

		// POST /api/send-message	-> Anonymous message submission, no auth
		main.POST("/send-message", a.MessageSend)

		// POST /api/suggest-messages	-> Streams AI prompt suggestions
		main.POST("/suggest-messages", a.SuggestMessages)
	}

	return a, nil
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
	return cache.CacheByRequestURI(cacheStore, time.Second*time.Duration(sec))
}
