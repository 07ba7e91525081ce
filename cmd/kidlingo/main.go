// Command kidlingo runs the practice server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kidlingo/kidlingo"
	"github.com/kidlingo/kidlingo/coach"
	"github.com/kidlingo/kidlingo/config"
	"github.com/kidlingo/kidlingo/core"
	"github.com/kidlingo/kidlingo/curriculum"
	"github.com/kidlingo/kidlingo/engine"
	"github.com/kidlingo/kidlingo/lexicon"
	"github.com/kidlingo/kidlingo/logging"
	"github.com/kidlingo/kidlingo/server"
	"github.com/kidlingo/kidlingo/store/sqlite"
	"github.com/kidlingo/kidlingo/vector"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "kidlingo:", err)
		os.Exit(1)
	}
}

func run() error {
	settings, err := config.Load()
	if err != nil {
		return err
	}

	flag.StringVar(&settings.Addr, "addr", settings.Addr, "HTTP listen address")
	flag.StringVar(&settings.DatabasePath, "db", settings.DatabasePath, "SQLite database path (empty: in-memory)")
	flag.StringVar(&settings.CurriculumPath, "curriculum", settings.CurriculumPath, "curriculum JSON path (empty: embedded)")
	flag.StringVar(&settings.ReferencesPath, "references", settings.ReferencesPath, "reference lexicon directory")
	flag.StringVar(&settings.LogLevel, "log-level", settings.LogLevel, "log level (debug, info, warn, error)")
	flag.Parse()

	logger := logging.NewJSONLogger(logging.ParseLevel(settings.LogLevel), os.Stdout)

	var engineOpts []func(o *engine.Options)
	engineOpts = append(engineOpts, func(o *engine.Options) { o.Logger = logger })

	if settings.DatabasePath != "" {
		db, err := sqlite.Open(settings.DatabasePath)
		if err != nil {
			return err
		}
		defer db.Close()
		engineOpts = append(engineOpts, func(o *engine.Options) {
			o.Sessions = db
			o.Reviews = db
			o.Notes = db
		})
	}

	if settings.CurriculumPath != "" {
		catalog, err := curriculum.Load(settings.CurriculumPath)
		if err != nil {
			return err
		}
		engineOpts = append(engineOpts, func(o *engine.Options) { o.Catalog = catalog })
	}

	if settings.ReferencesPath != "" {
		lex := lexicon.NewDir(settings.ReferencesPath)
		engineOpts = append(engineOpts, func(o *engine.Options) { o.Lexicon = lex })
	}

	var searcher core.Searcher
	if settings.OpenAIEmbeddings {
		searcher = vector.NewOpenAISearcher(func(o *vector.OpenAIOptions) {
			o.MinScore = settings.MinSimilarity
		})
	} else {
		searcher = vector.NewInMemorySearcher(func(o *vector.Options) {
			o.Dim = settings.EmbeddingDim
			o.MinScore = settings.MinSimilarity
		})
	}
	engineOpts = append(engineOpts, func(o *engine.Options) { o.Searcher = searcher })

	if settings.AnthropicCoach {
		writer := coach.NewAnthropicWriter()
		engineOpts = append(engineOpts, func(o *engine.Options) { o.Writer = writer })
	}

	app := kidlingo.New(func(o *kidlingo.Options) {
		o.Engine = engineOpts
		o.Server = []func(so *server.Options){
			func(so *server.Options) { so.Logger = logger },
		}
	})

	httpServer := &http.Server{
		Addr:              settings.Addr,
		Handler:           app.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", "addr", settings.Addr)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
