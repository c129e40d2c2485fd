package main

import (
	"context"
	"time"

	"inkwell.io/blog/internal/adapter"
	"inkwell.io/blog/internal/config"
	"inkwell.io/blog/internal/domain"
	"inkwell.io/blog/internal/handler"
	"inkwell.io/blog/internal/repository/memory"
	"inkwell.io/blog/internal/repository/mongo"
	"inkwell.io/blog/internal/repository/postgres"
	"inkwell.io/blog/internal/service"
	"inkwell.io/blog/pkg/jwt"
	"inkwell.io/blog/pkg/logger"
)

type repositories struct {
	users domain.UserRepository
	posts domain.PostRepository
	likes domain.LikeRepository
	feed  domain.FeedRepository
}

func main() {
	conf := config.LoadAppConfig()
	log := logger.New(conf.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	repos, closeStore, err := openStore(ctx, conf, log)
	if err != nil {
		log.WithError(err).Fatal("failed to open store")
	}
	images, err := openImageStore(ctx, conf, log)
	if err != nil {
		log.WithError(err).Fatal("failed to open image store")
	}
	cancel()
	defer closeStore()

	tokenManager, err := jwt.NewTokenManager(conf.AccessTokenSecret, conf.RefreshTokenSecret, conf.AccessTTL(), conf.RefreshTTL())
	if err != nil {
		log.WithError(err).Fatal("failed to create token manager")
	}

	tokens := service.NewTokenService(repos.users, tokenManager)
	guard := service.NewSessionGuard(tokens, repos.users, log)
	authSvc := service.NewAuthService(repos.users, tokens, images, log)
	postSvc := service.NewPostService(repos.posts, images, log)
	likeSvc := service.NewLikeService(repos.likes, repos.posts)
	feedSvc := service.NewFeedService(repos.feed)

	cookies := handler.CookieConfig{
		Secure:     conf.CookieSecure,
		AccessTTL:  conf.AccessTTL(),
		RefreshTTL: conf.RefreshTTL(),
	}
	r := handler.NewRouter(handler.RouterConfig{
		Users:       handler.NewUserHandler(authSvc, feedSvc, cookies, log),
		Posts:       handler.NewPostHandler(postSvc, feedSvc, log),
		Likes:       handler.NewLikeHandler(likeSvc, feedSvc, log),
		Auth:        guard,
		CORSOrigins: conf.CORSOrigins,
		Log:         log,
	})

	log.WithField("port", conf.ServerPort).WithField("store", conf.StoreDriver).Info("server starting")
	if err := r.Run(":" + conf.ServerPort); err != nil {
		log.WithError(err).Fatal("failed to run server")
	}
}

func openStore(ctx context.Context, conf *config.AppConfig, log *logger.Logger) (*repositories, func(), error) {
	switch conf.StoreDriver {
	case config.StoreDriverMongo:
		db, disconnect, err := mongo.Connect(ctx, conf.MongoURI, conf.MongoDatabase)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := disconnect(context.Background()); err != nil {
				log.WithError(err).Warn("failed to disconnect from mongo")
			}
		}
		return &repositories{
			users: mongo.NewUserRepository(db),
			posts: mongo.NewPostRepository(db),
			likes: mongo.NewLikeRepository(db),
			feed:  mongo.NewFeedRepository(db),
		}, closeFn, nil
	case config.StoreDriverMemory:
		log.Warn("using in-memory store, data is lost on restart")
		db := memory.New()
		return &repositories{
			users: db,
			posts: db.Posts(),
			likes: db.Likes(),
			feed:  db.Feed(),
		}, func() {}, nil
	default:
		db, err := postgres.Open(conf.PostgresDSN, log.Gorm())
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return &repositories{
			users: postgres.NewUserRepository(db),
			posts: postgres.NewPostRepository(db),
			likes: postgres.NewLikeRepository(db),
			feed:  postgres.NewFeedRepository(db),
		}, closeFn, nil
	}
}

func openImageStore(ctx context.Context, conf *config.AppConfig, log *logger.Logger) (domain.ImageStore, error) {
	if conf.ImageStore == config.ImageStoreAzure {
		return adapter.NewAzureBlobStore(ctx, conf.AzureStorageConnectionString, conf.BlobContainerName, log)
	}
	return adapter.NewCloudinaryStore(conf.CloudinaryURL, conf.CloudinaryFolder)
}
