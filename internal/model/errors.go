package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// Codeはステータスコードへのマッピングにのみ使用し、レスポンスにはMessageのみを含める。
type APIError struct {
	Code    string // エラーコード
	Message string // エラーメッセージ
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// 利用者に返す固定メッセージ。
// 認証失敗の原因（署名不正か期限切れか）はメッセージで区別しない。
const (
	MessageUnauthorized     = "unauthorized access"
	MessageForbidden        = "forbidden message"
	MessageForbiddenAccess  = "forbidden access"
	MessageTooManyRequests  = "too many requests"
	MessageInternal         = "internal server error"
	MessageUserAlreadyExist = "user already exist!"
)

// NewUnauthorizedError は認証失敗エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{Code: ErrCodeUnauthorized, Message: MessageUnauthorized}
}

// NewForbiddenError は権限不足エラーを生成する。
func NewForbiddenError() *APIError {
	return &APIError{Code: ErrCodeForbidden, Message: MessageForbidden}
}

// NewForbiddenAccessError は他ユーザーのリソースへのアクセスを拒否するエラーを生成する。
func NewForbiddenAccessError() *APIError {
	return &APIError{Code: ErrCodeForbidden, Message: MessageForbiddenAccess}
}

// NewBadRequestError はリクエスト不正エラーを生成する。
func NewBadRequestError(reason string) *APIError {
	return &APIError{Code: ErrCodeBadRequest, Message: reason}
}

// NewNotFoundError はリソース未検出エラーを生成する。
func NewNotFoundError(resource string) *APIError {
	return &APIError{Code: ErrCodeNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

// NewTooManyRequestsError はレート制限超過エラーを生成する。
func NewTooManyRequestsError() *APIError {
	return &APIError{Code: ErrCodeRateLimited, Message: MessageTooManyRequests}
}

// NewInternalError は内部エラーを生成する。
// 詳細はログのみに記録し、利用者には一般的なメッセージを返す。
func NewInternalError() *APIError {
	return &APIError{Code: ErrCodeInternal, Message: MessageInternal}
}
