// Package main (in api-subfolder) provides launch of the whole application except the downstream processor
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnendingLoop/ImageManager/internal/auth"
	"github.com/UnendingLoop/ImageManager/internal/cache"
	"github.com/UnendingLoop/ImageManager/internal/events"
	"github.com/UnendingLoop/ImageManager/internal/kafka"
	"github.com/UnendingLoop/ImageManager/internal/mwlogger"
	"github.com/UnendingLoop/ImageManager/internal/repository"
	"github.com/UnendingLoop/ImageManager/internal/service"
	"github.com/UnendingLoop/ImageManager/internal/storage"
	"github.com/UnendingLoop/ImageManager/internal/taskpool"
	"github.com/UnendingLoop/ImageManager/internal/transport"
	"github.com/UnendingLoop/ImageManager/internal/worker"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"
)

func main() {
	// инициализировать конфиг/ считать энвы
	appConfig := config.New()
	appConfig.EnableEnv("")
	if err := appConfig.LoadEnvFiles("./.env"); err != nil {
		log.Fatalf("Failed to load envs: %s\nExiting app...", err)
	}

	// стартуем логгер
	zlog.InitConsole()
	err := zlog.SetLevel("info")
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	// готовим заранее слушатель прерываний - контекст для всего приложения
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// подключитсья к базе
	dbConn := repository.ConnectWithRetries(appConfig, 5, 10*time.Second)
	// накатываем миграцию
	repository.MigrateWithRetries(dbConn.Master, "./migrations", 10, 15*time.Second)

	// подключиться к хранилищу
	strg := storage.NewImgStorage(appConfig, 10*time.Second)
	// создаем экземпляры репо
	imgRepo := repository.NewPostgresImageRepo(dbConn)
	usrRepo := repository.NewPostgresUserRepo(dbConn)

	// ждем пока кафка раздуплится
	broker := appConfig.GetString("KAFKA_BROKER")
	kafka.WaitKafkaReady(broker)
	// создаем топик заранее, сам паблишер дообъявляет его на каждой отправке
	topic := appConfig.GetString("KAFKA_TOPIC")
	kafka.InitKafkaTopics(ctx, broker, 10*time.Second, topic)
	pub := events.NewPublisher([]string{broker}, topic)

	// пул фоновых задач: трансформации и публикации событий
	pool := taskpool.New(4, 64)
	// генератор деривативов поверх хранилища
	transformer := worker.NewTransformer(strg, worker.DefaultSizes)
	// кэш страниц листинга
	pageCache := cache.New(128)

	// создаем экземпляры сервисов
	var svc ImageAPIService = service.NewImageService(imgRepo, strg, pub, transformer, pool, pageCache)
	usvc := service.NewUserService(usrRepo)
	// токены для bearer-аутентификации
	tokens := auth.NewManager(appConfig.GetString("JWT_SECRET"), 24*time.Hour)

	// cоздаем экземпляры хендлеров HTTP
	handlers := transport.NewImageHandler(svc)
	authHandlers := transport.NewAuthHandler(usvc, tokens)
	// сетапим сервер
	mode := appConfig.GetString("GIN_MODE")
	engine := ginext.New(mode)

	engine.GET("/ping", handlers.SimplePinger)
	engine.POST("/api/v1/auth/signup", authHandlers.Signup) // регистрация
	engine.POST("/api/v1/auth/token", authHandlers.Token)   // выдача bearer-токена
	engine.POST("/api/v1/images", handlers.Upload)          // загрузка картинки
	engine.GET("/api/v1/images", handlers.GetAllImages)     // список с пагинацией skip/limit
	engine.GET("/api/v1/images/:id", handlers.GetByID)      // одна запись
	engine.PUT("/api/v1/images/:id", handlers.Update)       // правка name/tags
	engine.DELETE("/api/v1/images/:id", handlers.Delete)    // удаление записи каталога

	srv := &http.Server{
		Addr:    ":" + appConfig.GetString("APP_PORT"),
		Handler: mwlogger.NewMWLogger(tokens.Guard(engine, usvc)),
	}

	// Server launch
	go func() {
		log.Printf("Server running on http://localhost%s\n", srv.Addr)
		err := srv.ListenAndServe()
		if err != nil {
			switch {
			case errors.Is(err, http.ErrServerClosed):
				log.Println("Server gracefully stopping...")
			default:
				log.Printf("Server stopped: %v", err)
				stop()
			}
		}
	}()

	// ждем отмены контекста для запуска грейсфул закрытия пула и соединения бд
	<-ctx.Done()

	shutdown(pool, dbConn)
	log.Println("Exiting app...")
}

func shutdown(pool *taskpool.Pool, dbConn *dbpg.DB) {
	log.Println("Interrupt received!!! Starting shutdown sequence...")

	// Дожидаемся уже принятых фоновых задач - паблишер свои соединения закрывает сам
	pool.Stop()
	log.Println("Background taskpool drained.")

	// Closing DB connection
	if err := dbConn.Master.Close(); err != nil {
		log.Println("Failed to close DB-conn correctly:", err)
		return
	}
	log.Println("DBconn closed")
}
