package config

import (
	"errors"
	"log"

	"frontoffice/middleware"
	"frontoffice/models"
	"frontoffice/services/notification"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

var errRedisDisabled = errors.New("REDIS_ADDR not set")

// App giữ các thành phần hạ tầng đã khởi tạo
type App struct {
	Settings *Settings
	Router   *gin.Engine
	Melody   *melody.Melody
	Cron     *cron.Cron
	DB       *gorm.DB
	Redis    *redis.Client
}

func InitApp(s *Settings) (*App, error) {
	if s.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.Use(cors.New(corsConfig(s)))
	router.Use(middleware.RequestIDMiddleware(), middleware.MetricsMiddleware(), middleware.ErrorHandler())
	if err := router.SetTrustedProxies(nil); err != nil {
		return nil, err
	}

	db, err := ConnectDB(s)
	if err != nil {
		return nil, err
	}
	if err := models.Migrate(db); err != nil {
		return nil, err
	}

	rdb, err := ConnectRedis(s)
	if err != nil {
		log.Printf("Redis unavailable, running without tax cache and audit stream: %v", err)
		rdb = nil
	}

	log.Println("All components initialized successfully")
	return &App{
		Settings: s,
		Router:   router,
		Melody:   melody.New(),
		Cron:     cron.New(),
		DB:       db,
		Redis:    rdb,
	}, nil
}

func corsConfig(s *Settings) cors.Config {
	configCors := cors.DefaultConfig()
	configCors.AddAllowHeaders("Authorization", middleware.RequestIDHeader)
	configCors.AddExposeHeaders(middleware.RequestIDHeader)
	configCors.AllowCredentials = true
	if len(s.CorsOrigins) > 0 {
		configCors.AllowOrigins = s.CorsOrigins
	} else {
		configCors.AllowOriginFunc = func(origin string) bool {
			return true
		}
	}
	return configCors
}

// InitWebSocket mở /ws cho bảng phòng; token phải hợp lệ để nhận sự kiện của business
func InitWebSocket(router *gin.Engine, m *melody.Melody, jwtSecret string) {
	router.GET("/ws", middleware.AuthMiddleware(jwtSecret), func(c *gin.Context) {
		actor, _ := middleware.ActorFrom(c)
		keys := map[string]interface{}{notification.SessionBusinessKey: actor.BusinessID}
		if err := m.HandleRequestWithKeys(c.Writer, c.Request, keys); err != nil {
			log.Printf("websocket upgrade failed: %v", err)
		}
	})
	m.HandleConnect(func(s *melody.Session) {
		if v, ok := s.Get(notification.SessionBusinessKey); ok {
			log.Printf("room board connected for business %v", v)
		}
	})
	log.Println("WebSocket initialized successfully")
}
