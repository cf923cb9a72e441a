package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/hitoshi/bistro/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Gate              *middleware.Gate
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger
	HTTPRecorder      middleware.HTTPRecorder

	// 運用エンドポイント
	HealthChecker  HealthChecker
	MetricsHandler http.Handler

	// トークン
	TokenIssuer   TokenIssuer
	TokenRecorder TokenRecorder

	// ドメイン
	UserService  UserServiceInterface
	CartService  CartServiceInterface
	MenuLister   MenuLister
	ReviewLister ReviewLister
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RealIP → Logging → Metrics → Recovery → SecurityHeaders → CORS
//
// ルートごとの権限はGate.Requireで決定し、認証後に一般レート制限を適用する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(logger))
	if deps.HTTPRecorder != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.HTTPRecorder))
	}
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	tokenHandler := NewTokenHandler(deps.TokenIssuer, deps.TokenRecorder)
	userHandler := NewUserHandler(deps.UserService)
	cartHandler := NewCartHandler(deps.CartService)
	catalogHandler := NewCatalogHandler(deps.MenuLister, deps.ReviewLister)

	// require は権限ゲートの内側に一般レート制限を挟む。
	require := func(level middleware.Privilege) func(http.Handler) http.Handler {
		gate := deps.Gate.Require(level)
		limit := deps.RateLimiter.GeneralMiddleware()
		return func(next http.Handler) http.Handler {
			return gate(limit(next))
		}
	}

	// --- 運用 ---
	r.Get("/", rootHandler)
	r.Get("/health", healthHandler(deps.HealthChecker))
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	// --- トークン発行（IP単位のレート制限） ---
	r.With(deps.RateLimiter.TokenIssueMiddleware()).Post("/jwt", tokenHandler.IssueToken)

	// --- ユーザー ---
	r.Route("/users", func(r chi.Router) {
		r.With(require(middleware.Elevated)).Get("/", userHandler.ListUsers)
		r.With(require(middleware.Public)).Post("/", userHandler.RegisterUser)
		r.With(require(middleware.Authenticated)).Get("/admin/{email}", userHandler.CheckAdmin)
		r.With(require(middleware.Elevated)).Patch("/admin/{id}", userHandler.MakeAdmin)
	})

	// --- メニュー・レビュー ---
	r.With(require(middleware.Public)).Get("/menu", catalogHandler.ListMenu)
	r.With(require(middleware.Public)).Get("/reviews", catalogHandler.ListReviews)

	// --- カート ---
	r.Route("/carts", func(r chi.Router) {
		r.Use(require(middleware.Authenticated))
		r.Get("/", cartHandler.ListCart)
		r.Post("/", cartHandler.AddCartItem)
		r.Delete("/{id}", cartHandler.RemoveCartItem)
	})

	return r
}
