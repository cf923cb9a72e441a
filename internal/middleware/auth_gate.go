// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hitoshi/bistro/internal/auth"
	"github.com/hitoshi/bistro/internal/model"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// claimsContextKey はリクエストコンテキストに検証済みClaimsを格納するためのキー。
var claimsContextKey = contextKey("claims")

// 認証拒否の理由。メトリクスのラベルとして使用し、レスポンスでは区別しない。
const (
	RejectReasonMissing   = "missing"
	RejectReasonInvalid   = "invalid"
	RejectReasonExpired   = "expired"
	RejectReasonForbidden = "forbidden"
)

// TokenVerifier はトークン検証に必要なインターフェース。
// auth.TokenCodecが実装する。
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// RoleFinder は管理者判定のためのユーザー検索インターフェース。
// repository.UserRepositoryの部分集合として定義する。
type RoleFinder interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

// AuthRecorder は認証・認可の拒否を記録するインターフェース。
type AuthRecorder interface {
	RecordAuthRejection(reason string)
}

// Privilege はルートが要求する権限レベルを表す。
type Privilege int

const (
	// Public は認証不要のルート。
	Public Privilege = iota
	// Authenticated は有効なトークンを要求するルート。
	Authenticated
	// Elevated は有効なトークンに加えて管理者ロールを要求するルート。
	Elevated
)

// String は権限レベルの名前を返す。
func (p Privilege) String() string {
	switch p {
	case Public:
		return "public"
	case Authenticated:
		return "authenticated"
	case Elevated:
		return "elevated"
	default:
		return fmt.Sprintf("privilege(%d)", int(p))
	}
}

// Gate は認証ゲートと認可ゲートを提供する。
// 生成後は不変で、複数のリクエストから並行に使用できる。
type Gate struct {
	verifier TokenVerifier
	users    RoleFinder
	recorder AuthRecorder
}

// NewGate はGateを生成する。recorderはnilでもよい。
func NewGate(verifier TokenVerifier, users RoleFinder, recorder AuthRecorder) *Gate {
	return &Gate{
		verifier: verifier,
		users:    users,
		recorder: recorder,
	}
}

// Require は指定された権限レベルに対応するミドルウェアを返す。
// ルートごとのゲート構成はこの関数でのみ決定する。
func (g *Gate) Require(level Privilege) func(next http.Handler) http.Handler {
	switch level {
	case Public:
		return func(next http.Handler) http.Handler { return next }
	case Authenticated:
		return g.Authenticate
	case Elevated:
		return func(next http.Handler) http.Handler {
			return g.Authenticate(g.RequireAdmin(next))
		}
	default:
		panic(fmt.Sprintf("middleware: unknown privilege level %v", level))
	}
}

// Authenticate はAuthorizationヘッダーのBearerトークンを検証するミドルウェア。
// 検証に成功した場合はClaimsをリクエストコンテキストに注入する。
// ヘッダーなし・署名不正・期限切れはすべて同一の401レスポンスを返す。
func (g *Gate) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 1. Authorizationヘッダーを取得
		authorization := r.Header.Get("Authorization")
		if authorization == "" {
			g.reject(w, model.NewUnauthorizedError(), RejectReasonMissing)
			return
		}

		// 2. "<scheme> <token>" の2番目の要素を取り出す（schemeは検証しない）
		token := credentialFromHeader(authorization)

		// 3. トークンを検証
		claims, err := g.verifier.Verify(token)
		if err != nil {
			reason := RejectReasonInvalid
			if errors.Is(err, auth.ErrExpired) {
				reason = RejectReasonExpired
			}
			g.reject(w, model.NewUnauthorizedError(), reason)
			return
		}

		// 4. 検証済みClaimsをコンテキストに注入
		setLoggedEmail(r.Context(), claims.Email)
		ctx := ContextWithClaims(r.Context(), claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin は認証済みユーザーのロールを確認するミドルウェア。
// Authenticateの後に配置する必要があり、Claimsのないリクエストで呼ばれた場合はpanicする。
// emailはリクエスト入力ではなくトークンのClaimsから取得する。
func (g *Gate) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			panic("middleware: RequireAdmin used without Authenticate")
		}

		user, err := g.users.FindByEmail(r.Context(), claims.Email)
		if err != nil {
			slog.Error("failed to find user for admin check",
				slog.String("error", err.Error()),
			)
			WriteInternalServerError(w)
			return
		}
		if !user.IsAdmin() {
			g.reject(w, model.NewForbiddenError(), RejectReasonForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (g *Gate) reject(w http.ResponseWriter, apiErr *model.APIError, reason string) {
	if g.recorder != nil {
		g.recorder.RecordAuthRejection(reason)
	}
	WriteAPIError(w, apiErr)
}

// credentialFromHeader は "Bearer <token>" 形式のヘッダー値からトークン部分を返す。
// 2番目の要素がない場合は空文字列を返す。
func credentialFromHeader(header string) string {
	parts := strings.Split(header, " ")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// ClaimsFromContext はリクエストコンテキストから検証済みClaimsを取得する。
// Authenticateを通過したリクエストでのみ有効。
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*auth.Claims)
	if !ok || claims == nil {
		return nil, false
	}
	return claims, true
}

// EmailFromContext はリクエストコンテキストから認証済みユーザーのemailを取得する。
func EmailFromContext(ctx context.Context) (string, error) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok || claims.Email == "" {
		return "", fmt.Errorf("email not found in context")
	}
	return claims.Email, nil
}

// ContextWithClaims はコンテキストにClaimsを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// ContextWithEmail はemailのみを持つClaimsをコンテキストに注入する。テスト用。
func ContextWithEmail(ctx context.Context, email string) context.Context {
	return ContextWithClaims(ctx, &auth.Claims{Email: email})
}
