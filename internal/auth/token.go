// Package auth は署名付きセッショントークンの発行と検証を提供する。
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL はトークンの有効期間。発行時刻から固定で1時間。
const TokenTTL = time.Hour

var (
	// ErrInvalidSignature はトークンの署名が秘密鍵と一致しない、
	// またはトークンの形式が不正であることを示す。
	ErrInvalidSignature = errors.New("invalid token signature")
	// ErrExpired はトークンの有効期限が切れていることを示す。
	ErrExpired = errors.New("token expired")
)

// Claims はトークンに埋め込まれる本人性の主張。
// iat/expは発行時に計算され、呼び出し側は指定できない。
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenCodec はHS256で署名されたトークンの発行と検証を行う。
// 秘密鍵は生成後に変更されない。
type TokenCodec struct {
	secret []byte
	now    func() time.Time
}

// NewTokenCodec はTokenCodecを生成する。
func NewTokenCodec(secret string) *TokenCodec {
	return &TokenCodec{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// WithClock は現在時刻の取得関数を差し替えたTokenCodecを返す。テスト用。
func (c *TokenCodec) WithClock(now func() time.Time) *TokenCodec {
	return &TokenCodec{secret: c.secret, now: now}
}

// Issue はclaimsを主張とするトークンを発行する。
// iat/expは呼び出し側の値に関わらず上書きされ、有効期限は発行時刻からTokenTTL後になる。
func (c *TokenCodec) Issue(claims Claims) (string, error) {
	if claims.Email == "" {
		return "", errors.New("email is required")
	}

	issuedAt := c.now()
	claims.IssuedAt = jwt.NewNumericDate(issuedAt)
	claims.ExpiresAt = jwt.NewNumericDate(issuedAt.Add(TokenTTL))

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify はトークンの署名と有効期限を検証し、埋め込まれたClaimsを返す。
// 署名不一致・形式不正はErrInvalidSignature、期限切れはErrExpiredを返す。
// emailが既存ユーザーに対応するかは検証しない。
func (c *TokenCodec) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (any, error) {
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalidSignature
	}
	return claims, nil
}
