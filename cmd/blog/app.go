package main

import (
	"context"
	"fmt"

	"github.com/hashfx/techblog/cmd/blog/auth"
	"github.com/hashfx/techblog/cmd/blog/handlers"
	"github.com/hashfx/techblog/cmd/blog/router"
	"github.com/hashfx/techblog/internal/logger"
	"github.com/hashfx/techblog/config"
	"github.com/hashfx/techblog/db"
	"github.com/hashfx/techblog/eventbus"
	"github.com/hashfx/techblog/notify"
	"github.com/hashfx/techblog/repositories"
	"github.com/hashfx/techblog/services"
	"github.com/hashfx/techblog/storage"
	"github.com/hashfx/techblog/web"
)

const serviceName = "techblog-web"

// app 은 main 이 소유하는 외부 자원과 라우터 의존성이다.
type app struct {
	deps    router.Deps
	closers []func()
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func build(ctx context.Context, cfg *config.AppConfig) (*app, error) {
	a := &app{}

	posts, contacts, pinger, err := a.openDatabase(ctx, cfg.Database)
	if err != nil {
		a.close()
		return nil, err
	}

	notifier, err := a.openNotifier(ctx, cfg)
	if err != nil {
		a.close()
		return nil, err
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		a.close()
		return nil, err
	}

	tokens, err := auth.NewJWTManager(cfg.Server.SessionSecret, cfg.Server.SessionTTL)
	if err != nil {
		a.close()
		return nil, err
	}

	a.deps = router.Deps{
		Site:     web.NewSite(cfg.Params),
		Posts:    services.NewPostService(posts, cfg.Params.NoOfPosts),
		Contacts: services.NewContactService(contacts, notifier),
		Auth:     services.NewAuthService(cfg.Params.AdminUser, cfg.Params.AdminPassword, tokens),
		Uploads:  services.NewUploadService(store, cfg.Uploads.MaxBytes),
		Cookie:   auth.CookieOptions{Secure: cfg.Server.CookieSecure, TTL: tokens.TTL()},
		DB:       pinger,
	}
	if local, ok := store.(*storage.LocalStore); ok {
		a.deps.UploadDir = local.Dir()
	}
	return a, nil
}

func (a *app) openDatabase(ctx context.Context, cfg config.DatabaseConfig) (repositories.PostRepository, repositories.ContactRepository, handlers.Pinger, error) {
	switch cfg.Driver {
	case config.DriverMySQL:
		m, err := db.NewMySQL(ctx, cfg.MySQL)
		if err != nil {
			return nil, nil, nil, err
		}
		a.closers = append(a.closers, func() { _ = m.Close(context.Background()) })
		return repositories.NewGormPostRepository(m.DB), repositories.NewGormContactRepository(m.DB), m, nil

	case config.DriverMongo:
		m, err := db.NewMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, nil, nil, err
		}
		a.closers = append(a.closers, func() { _ = m.Close(context.Background()) })
		return repositories.NewMongoPostRepository(m.Database), repositories.NewMongoContactRepository(m.Database), m, nil

	case config.DriverMemory:
		logger.Log.Warn("database.driver=memory: posts and contacts are lost on restart")
		alive := handlers.PingFunc(func(context.Context) error { return nil })
		return repositories.NewMemoryPostRepository(), repositories.NewMemoryContactRepository(), alive, nil
	}
	return nil, nil, nil, fmt.Errorf("unknown database.driver %q", cfg.Driver)
}

func (a *app) openNotifier(ctx context.Context, cfg *config.AppConfig) (notify.Notifier, error) {
	switch cfg.Mail.Mode {
	case config.MailModeSMTP:
		n, err := notify.NewSMTPNotifier(cfg.Mail)
		if err != nil {
			return nil, err
		}
		return n, nil

	case config.MailModeKafka:
		topic := eventbus.ContactTopic(cfg.Kafka.Topic)
		if err := eventbus.EnsureTopics(ctx, cfg.Kafka.Brokers, topic, 3); err != nil {
			logger.WarnWithFields("failed to ensure contact topics", logger.Fields{"topic": topic.Base(), "error": err.Error()})
		}
		bus, err := eventbus.NewKafkaEventBus(cfg.Kafka.Brokers)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, bus.Close)
		return notify.NewKafkaNotifier(bus, topic, serviceName), nil
	}
	return notify.NopNotifier{}, nil
}

func openStore(ctx context.Context, cfg *config.AppConfig) (storage.Store, error) {
	if cfg.Uploads.Backend == config.UploadBackendS3 {
		s3, err := storage.NewS3Store(ctx, cfg.Uploads.S3)
		if err != nil {
			return nil, err
		}
		return s3, nil
	}
	local, err := storage.NewLocalStore(cfg.Params.UploadLocation)
	if err != nil {
		return nil, err
	}
	return local, nil
}
