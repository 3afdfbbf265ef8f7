package domain

import (
	"errors"
	"fmt"
)

// ドメインエラー定義
var (
	// ErrInvalid は不正な値が設定された場合のエラー
	ErrInvalid = errors.New("ドメイン: 不正な値です")

	// ErrNotCommentEvent はコメント追加以外の Webhook イベントを受信した場合のエラー。
	// 課題の作成・更新などほとんどの配信がここに該当するため、
	// 解析失敗（ParseError）とは区別して扱います
	ErrNotCommentEvent = errors.New("ドメイン: コメント追加イベントではありません")
)

// ParseError は Webhook ペイロードの解析失敗を表します。
// 原因となったデコードエラーを保持します
type ParseError struct {
	// Reason は解析失敗の内容
	Reason string

	// Err はデコード時の元エラー（ない場合は nil）
	Err error
}

// NewParseError は解析エラーを作成します
func NewParseError(reason string, err error) *ParseError {
	return &ParseError{Reason: reason, Err: err}
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("webhook解析失敗: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("webhook解析失敗: %s", e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsParseError は err が ParseError かどうかを判定します
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
