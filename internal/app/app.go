package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/time/rate"

	"github.com/hitoshi/bistro/internal/auth"
	"github.com/hitoshi/bistro/internal/cart"
	"github.com/hitoshi/bistro/internal/config"
	"github.com/hitoshi/bistro/internal/database"
	"github.com/hitoshi/bistro/internal/handler"
	"github.com/hitoshi/bistro/internal/logger"
	"github.com/hitoshi/bistro/internal/metrics"
	"github.com/hitoshi/bistro/internal/middleware"
	"github.com/hitoshi/bistro/internal/repository"
	"github.com/hitoshi/bistro/internal/security"
	"github.com/hitoshi/bistro/internal/user"
	"github.com/hitoshi/bistro/internal/worker/cleanup"
)

const (
	// defaultPort はSERVER_PORT未設定時の待ち受けポート。
	defaultPort = "5000"
	// dbConnectAttempts は起動時のDB接続試行回数。
	dbConnectAttempts = 5
)

// Init はアプリケーションの初期化を行う。
// JSON構造化ログをセットアップし、環境変数からConfigを読み込む。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w, logger.ParseLevel(os.Getenv("LOG_LEVEL")))

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = defaultPort
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	switch cmd {
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// runServe はAPIサーバーモードで起動する。
// DB接続を開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. DB接続
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.DBMaxOpenConns)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := database.WaitForDB(ctx, db, dbConnectAttempts); err != nil {
		return err
	}

	slog.Info("database connection established")

	// 2. メトリクスレジストリ
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db, "bistro"),
	)

	server, limiter := newServer(cfg, db, reg)
	defer limiter.Stop()

	// 放置カートの定期削除
	cleanupJob := cleanup.NewCartCleanupJob(db, slog.Default(), cfg.CartRetentionDays)
	go cleanupJob.Start(ctx, cfg.CartCleanupInterval)

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-stop:
	case err := <-errCh:
		return fmt.Errorf("server listen error: %w", err)
	}
	slog.Info("shutting down API server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// newServer はリポジトリ、サービス、ルーターを組み立てたhttp.Serverを返す。
// 返されるRateLimiterはサーバー停止後にStopすること。
func newServer(cfg *config.Config, db *sql.DB, reg *prometheus.Registry) (*http.Server, *middleware.RateLimiter) {
	// リポジトリ
	userRepo := repository.NewPostgresUserRepo(db)
	cartRepo := repository.NewPostgresCartRepo(db)
	menuRepo := repository.NewPostgresMenuRepo(db)
	reviewRepo := repository.NewPostgresReviewRepo(db)

	// セキュリティ・トークン
	sanitizer := security.NewTextSanitizer()
	codec := auth.NewTokenCodec(cfg.AccessTokenSecret)

	// ドメインサービス
	userService := user.NewService(userRepo, sanitizer)
	cartService := cart.NewService(cartRepo, sanitizer)

	collector := metrics.NewCollector(reg)
	limiter := middleware.NewRateLimiter(rateLimiterConfig(cfg))

	router := handler.NewRouter(&handler.RouterDeps{
		Gate:              middleware.NewGate(codec, userRepo, collector),
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       limiter,
		Logger:            slog.Default(),
		HTTPRecorder:      collector,
		HealthChecker:     db,
		MetricsHandler:    metrics.Handler(reg),
		TokenIssuer:       codec,
		TokenRecorder:     collector,
		UserService:       userService,
		CartService:       cartService,
		MenuLister:        menuRepo,
		ReviewLister:      reviewRepo,
	})

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return server, limiter
}

// rateLimiterConfig は設定値（req/min）からレート制限設定（req/sec）を作る。
// バーストは1分あたりの上限と同じにする。
func rateLimiterConfig(cfg *config.Config) middleware.RateLimiterConfig {
	rlCfg := middleware.DefaultRateLimiterConfig()
	rlCfg.GeneralRate = rate.Limit(float64(cfg.RateLimitGeneral) / 60.0)
	rlCfg.GeneralBurst = cfg.RateLimitGeneral
	rlCfg.TokenRate = rate.Limit(float64(cfg.RateLimitToken) / 60.0)
	rlCfg.TokenBurst = cfg.RateLimitToken
	return rlCfg
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	version, err := database.RunMigrations(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully",
		slog.Uint64("schema_version", uint64(version)),
	)
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	target := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(target)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLのパスワードをマスクする。
// 解析できないURLは全体を伏せる。
func maskDatabaseURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "***"
	}
	return u.Redacted()
}
