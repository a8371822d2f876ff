package main

import (
	"time"

	"go.uber.org/zap"

	dbadapter "sns/internal/adapters/database"
	"sns/internal/adapters/httpapi"
	"sns/internal/adapters/httpapi/middleware"
	redisadapter "sns/internal/adapters/redis"
	wsadapter "sns/internal/adapters/websocket"
	"sns/internal/config"
	authapp "sns/internal/core/auth/service"
	"sns/internal/core/chat"
	chatapp "sns/internal/core/chat/service"
	"sns/internal/core/comment"
	commentapp "sns/internal/core/comment/service"
	"sns/internal/core/post"
	postapp "sns/internal/core/post/service"
	"sns/internal/core/user"
	userapp "sns/internal/core/user/service"
	"sns/internal/upload"
)

func main() {
	config.InitLogger()
	config.Init()
	config.InitDB()

	if err := config.DB.AutoMigrate(
		&user.User{},
		&user.UserFollow{},
		&post.Post{},
		&post.PostImage{},
		&comment.Comment{},
		&chat.Chat{},
		&chat.Message{},
	); err != nil {
		config.Logger.Fatal("Error during migrations:", zap.Error(err))
	}
	config.Logger.Info("Database migrations completed")

	config.InitRedis()
	defer closeResources(config.Logger)

	if err := upload.EnsureDirs(); err != nil {
		config.Logger.Fatal("Error creating upload directories:", zap.Error(err))
	}

	userRepo := dbadapter.NewUserRepositoryDatabase()
	postRepo := dbadapter.NewPostRepositoryDatabase()
	commentRepo := dbadapter.NewCommentRepositoryDatabase()
	chatRepo := dbadapter.NewChatRepositoryDatabase()
	messageRepo := dbadapter.NewMessageRepositoryDatabase()
	userCache := redisadapter.NewUserCacheRedis(config.RedisClient, 5*time.Minute)

	userSvc := userapp.NewUserService(userRepo)
	authSvc := authapp.NewAuthService(
		userSvc,
		config.App.JWTSecret,
		config.App.AccessTTL,
		config.App.RefreshTTL,
		config.App.HashRounds,
	)
	postSvc := postapp.NewPostService(postRepo)
	commentSvc := commentapp.NewCommentService(commentRepo)
	chatSvc := chatapp.NewChatService(chatRepo, messageRepo)

	guards := middleware.NewGuards(authSvc, userSvc, userCache)
	gateway := wsadapter.NewGateway(chatSvc, authSvc, userSvc)

	r := httpapi.SetupRoutes(authSvc, userSvc, postSvc, commentSvc, chatSvc, guards, gateway.Handler())

	config.Logger.Info("App is running...")
	if err := r.Run(":" + config.App.Port); err != nil {
		config.Logger.Fatal("Server failed to start:", zap.Error(err))
	}
}

// closeResources closes the Redis and database connections.
func closeResources(logger *zap.Logger) {
	if err := config.RedisClient.Close(); err != nil {
		logger.Error("Error closing Redis connection:", zap.Error(err))
	}

	sqlDB, err := config.DB.DB()
	if err != nil {
		logger.Error("Error getting raw DB:", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error("Error closing database connection:", zap.Error(err))
	}
}
