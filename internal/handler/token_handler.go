package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/hitoshi/bistro/internal/auth"
	"github.com/hitoshi/bistro/internal/model"
)

// TokenIssuer はアクセストークンを発行するインターフェース。
// auth.TokenCodecが実装する。
type TokenIssuer interface {
	Issue(claims auth.Claims) (string, error)
}

// TokenRecorder はトークン発行を記録するインターフェース。
type TokenRecorder interface {
	RecordTokenIssued()
}

// TokenHandler はトークン発行のHTTPハンドラー。
type TokenHandler struct {
	issuer   TokenIssuer
	recorder TokenRecorder
}

// NewTokenHandler はTokenHandlerを生成する。recorderはnilでもよい。
func NewTokenHandler(issuer TokenIssuer, recorder TokenRecorder) *TokenHandler {
	return &TokenHandler{
		issuer:   issuer,
		recorder: recorder,
	}
}

// issueTokenRequest はトークン発行リクエストのボディ。
// email以外のフィールドは無視する。
type issueTokenRequest struct {
	Email string `json:"email"`
}

// tokenResponse はトークン発行のレスポンス。
type tokenResponse struct {
	Token string `json:"token"`
}

// IssueToken はemailを含む1時間有効のトークンを発行する。
// POST /jwt
func (h *TokenHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req issueTokenRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewBadRequestError("email is required"))
		return
	}

	token, err := h.issuer.Issue(auth.Claims{Email: email})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.recorder != nil {
		h.recorder.RecordTokenIssued()
	}
	slog.Debug("token issued", slog.String("email", email))

	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}
