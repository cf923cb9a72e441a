// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TextSanitizer は利用者が送信したプレーンテキスト（名前、カート商品名など）から
// HTMLを取り除き、保存前に正規化する。
// 値はフロントエンドでそのまま描画されるため、タグは一切許可しない。
package security

import (
	"html"
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// maxTextLength は1フィールドあたりの最大文字数（rune数）。
const maxTextLength = 200

var angleBrackets = strings.NewReplacer("<", "", ">", "")

// TextSanitizerService はテキスト入力のサニタイズ機能のインターフェースを定義する。
type TextSanitizerService interface {
	// SanitizeText は全てのHTMLタグを除去し、前後の空白を取り除いた文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	SanitizeText(raw string) string

	// SanitizeURL はhttp/httpsの絶対URLのみを受け付け、それ以外は空文字列を返す。
	SanitizeURL(raw string) string
}

// textSanitizer はTextSanitizerServiceの実装。
// bluemondayのポリシーはスレッドセーフなので共有してよい。
type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerServiceの新しいインスタンスを生成する。
func NewTextSanitizer() TextSanitizerService {
	return &textSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// SanitizeText は全てのHTMLタグを除去したプレーンテキストを返す。
func (s *textSanitizer) SanitizeText(raw string) string {
	// StrictPolicyは&などをエスケープするため、保存用に元へ戻す。
	// 戻した結果に山括弧が現れてもタグとして解釈されないよう除去する
	cleaned := angleBrackets.Replace(html.UnescapeString(s.policy.Sanitize(raw)))
	cleaned = strings.Join(strings.Fields(cleaned), " ")

	if r := []rune(cleaned); len(r) > maxTextLength {
		cleaned = string(r[:maxTextLength])
	}
	return cleaned
}

// SanitizeURL はhttp/httpsの絶対URLであればそのまま返す。
func (s *textSanitizer) SanitizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	if u.Host == "" {
		return ""
	}
	return u.String()
}
