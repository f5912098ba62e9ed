package cli

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"edu-quiz-service/internal/app"
	"edu-quiz-service/internal/config"
	"edu-quiz-service/internal/domain"
	"edu-quiz-service/internal/infra/genai"
	"edu-quiz-service/internal/infra/memory"
	"edu-quiz-service/internal/infra/postgres"
	rediscache "edu-quiz-service/internal/infra/redis"
	transport "edu-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var (
		quizStore app.QuizStore
		attempts  app.AttemptStore
		courses   app.CourseStore
		flash     app.FlashcardStore
		users     app.UserStore
		loader    rediscache.QuizContentLoader
	)

	if cfg.Postgres.URL != "" {
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
		db := bun.NewDB(sqldb, pgdialect.New())
		defer db.Close()

		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()

		pg := postgres.NewQuizStore(db, pool)
		edu := postgres.NewEduStore(db)
		quizStore, attempts, loader = pg, pg, pg
		courses, flash, users = edu, edu, edu
	} else {
		mem := memory.NewQuizStore()
		edu := seedDemoData(memory.NewEduStore())
		quizStore, attempts, loader = mem, mem, mem
		courses, flash, users = edu, edu, edu
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var content app.QuizContentSource
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		content = rediscache.NewContentCache(client, loader, quizTTL)
	} else {
		content = memory.NewContentSource(loader, quizTTL)
	}

	var generator app.QuestionGenerator
	if cfg.Generator.URL != "" {
		timeout := config.TTLDuration(cfg.Generator.Timeout, 30*time.Second)
		generator = genai.NewClient(cfg.Generator.URL, timeout)
	} else {
		generator = &memory.StaticGenerator{}
	}

	quizService := app.NewQuizService(quizStore, attempts, courses, content, generator)
	reminderService := app.NewReminderService(app.DefaultProducers(quizStore, attempts, courses, flash)...)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      transport.NewRouter(quizService, reminderService, users),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// seedDemoData fills the in-memory stores with a small data set so the server
// is usable without postgres; swap in real stores for production.
func seedDemoData(edu *memory.EduStore) *memory.EduStore {
	edu.AddUser(domain.User{ID: 1, Name: "Demo Learner", Role: domain.RoleLearner})
	edu.AddUser(domain.User{ID: 2, Name: "Demo Instructor", Role: domain.RoleInstructor})
	edu.AddUser(domain.User{ID: 3, Name: "Demo Admin", Role: domain.RoleAdmin})
	edu.AddCourse(domain.Course{ID: 1, Title: "Introduction to Go", CreatedBy: 2})
	edu.AddLesson(domain.Lesson{ID: 1, CourseID: 1, Title: "Getting Started", Content: "Go is a statically typed language.", OrderIndex: 1})
	edu.AddLesson(domain.Lesson{ID: 2, CourseID: 1, Title: "Slices and Maps", Content: "Slices wrap arrays with a length and capacity.", OrderIndex: 2})
	edu.Enroll(1, 1)
	edu.MarkCompleted(1, 1)
	edu.AddDeck(domain.FlashcardDeck{ID: 1, OwnerID: 1, Name: "Go Vocabulary"})
	edu.AddCard(1, 1)
	edu.AddReview(domain.DueCard{FlashcardID: 1, UserID: 1, DueAt: time.Now().Add(-time.Hour)})
	return edu
}
