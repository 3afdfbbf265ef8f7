package domain

import (
	"fmt"
	"strings"
)

// AccountMapping は Backlog ユーザー名と Slack ユーザー ID の対応を表します
type AccountMapping struct {
	// BacklogUserName は Backlog 上の表示ユーザー名
	BacklogUserName string

	// SlackUserID は DM の宛先となる Slack ユーザー ID
	SlackUserID string
}

// Validate は AccountMapping の必須項目を検証します
func (m AccountMapping) Validate() error {
	if strings.TrimSpace(m.BacklogUserName) == "" {
		return fmt.Errorf("%w: BacklogUserNameは必須項目です", ErrInvalid)
	}
	if strings.TrimSpace(m.SlackUserID) == "" {
		return fmt.Errorf("%w: SlackUserIDは必須項目です", ErrInvalid)
	}
	return nil
}

// AccountDirectory は設定から一度だけ構築される読み取り専用のユーザー対応表です。
// 構築後に変更されることはありません
type AccountDirectory struct {
	mappings []AccountMapping
}

// NewAccountDirectory はマッピング一覧からディレクトリを構築します。
// Backlog ユーザー名が重複している場合は ErrInvalid を返します
func NewAccountDirectory(mappings []AccountMapping) (*AccountDirectory, error) {
	seen := make(map[string]bool, len(mappings))
	for _, m := range mappings {
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("account directory: マッピング検証失敗: %w", err)
		}
		if seen[m.BacklogUserName] {
			return nil, fmt.Errorf("%w: Backlogユーザー名が重複しています (name=%s)", ErrInvalid, m.BacklogUserName)
		}
		seen[m.BacklogUserName] = true
	}

	return &AccountDirectory{mappings: mappings}, nil
}

// Lookup は Backlog ユーザー名に対応する Slack ユーザー ID を返します。
// 登録されていない場合は ok=false を返します（エラーではありません）
func (d *AccountDirectory) Lookup(backlogUserName string) (slackUserID string, ok bool) {
	// 登録ユーザー数は高々数十件の想定なので線形探索で十分
	for _, m := range d.mappings {
		if m.BacklogUserName == backlogUserName {
			return m.SlackUserID, true
		}
	}
	return "", false
}

// BacklogUserNames はメンション抽出の候補となる全ユーザー名を登録順で返します
func (d *AccountDirectory) BacklogUserNames() []string {
	names := make([]string, 0, len(d.mappings))
	for _, m := range d.mappings {
		names = append(names, m.BacklogUserName)
	}
	return names
}

// Len は登録されているマッピング数を返します
func (d *AccountDirectory) Len() int {
	return len(d.mappings)
}

// コメント追加イベントを検証・解析済みの形で表す構造体
type CommentedIssue struct {
	// ProjectKey は課題が属するプロジェクトのキー（例: "ABC"）
	ProjectKey string

	// IssueKey はプロジェクト内の課題番号
	IssueKey int

	// IssueSubject は課題の件名
	IssueSubject string

	// CommentID は追加されたコメントの ID
	CommentID int

	// CommentContent はコメント本文（加工なし）
	CommentContent string

	// CommentCreator はコメントを投稿した Backlog ユーザー名
	CommentCreator string

	// MentionedUserNames はコメント内でメンションされた登録済みユーザー名。
	// ディレクトリの候補順を保ち、重複はありません
	MentionedUserNames []string
}

// IssueRef は "ABC-42" 形式の課題参照を返します
func (c CommentedIssue) IssueRef() string {
	return fmt.Sprintf("%s-%d", c.ProjectKey, c.IssueKey)
}
