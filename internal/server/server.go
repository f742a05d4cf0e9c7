package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	mid "github.com/stackscout/backend/internal/server/middleware"
	"github.com/stackscout/backend/internal/util"
	"github.com/stackscout/backend/pkg/ai"
	"github.com/stackscout/backend/pkg/ai/ollama"
	"github.com/stackscout/backend/pkg/ai/openai"
	"github.com/stackscout/backend/pkg/build"
	"github.com/stackscout/backend/pkg/catalog"
	"github.com/stackscout/backend/pkg/classify"
	"github.com/stackscout/backend/pkg/logger"
	"github.com/stackscout/backend/pkg/preview"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

// Init wires the collaborators, starts the HTTP server, and blocks until
// shutdown.
func Init() {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &mid.App{
		Classifier: classify.NewClassifier(newAIClient()),
		Catalog: catalog.NewClient(catalog.NewClientParams{
			BaseURL: util.GetEnvString("SEARCH_SERVER_URL", "http://localhost:4000"),
		}),
		Previews: preview.NewFetcher(preview.NewFetcherParams{
			RequestsPerSec: util.GetEnvNumeric("PREVIEW_RATE", 10),
		}),
		BuildConfig: buildConfig(),
	}

	e.Use(mid.AppContextMiddleware(app))
	e.Use(echomw.CORS())
	e.Use(echomw.RequestLogger())
	e.Use(echomw.Recover())
	e.Use(echomw.BodyLimit("1M"))

	RegisterRoutes(e)

	go func() {
		port := util.GetEnvString("PORT", "3000")
		logger.Info("Starting server", "port", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}

func newAIClient() ai.Client {
	switch util.GetEnv("AI_ADAPTER") {
	case "ollama":
		client, err := ollama.NewOllamaClient(ollama.NewOllamaClientParams{
			ChatModel:             util.GetEnvString("AI_CHAT_MODEL", "llama3.1"),
			BaseURL:               util.GetEnv("AI_CHAT_URL"),
			APIKey:                util.GetEnv("AI_CHAT_KEY"),
			MaxConcurrentRequests: int64(util.GetEnvNumeric("AI_PARALLEL_REQ", 4)),
		})
		if err != nil {
			logger.Fatal("Failed to create Ollama client", "err", err)
		}
		return client
	default:
		return openai.NewOpenAIClient(openai.NewOpenAIClientParams{
			ChatModel: util.GetEnvString("AI_CHAT_MODEL", "gpt-4o-mini"),
			ChatURL:   util.GetEnv("AI_CHAT_URL"),
			ChatKey:   util.GetEnv("AI_CHAT_KEY"),
		})
	}
}

func buildConfig() build.Config {
	policy := build.Sequential
	if util.GetEnvBool("BUILD_FANOUT", false) {
		policy = build.FanOut
	}
	return build.Config{
		Policy:      policy,
		Concurrency: int64(util.GetEnvNumeric("BUILD_CONCURRENCY", 8)),
		PageGraphs:  util.GetEnvBool("BUILD_PAGE_GRAPHS", false),
	}
}
