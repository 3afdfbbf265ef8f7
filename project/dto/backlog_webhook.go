package dto

// BacklogEventTypeCommentAdded はコメント追加イベントの type 値です
const BacklogEventTypeCommentAdded = 3

// BacklogWebhookPayload は Backlog 課題 Webhook のリクエスト全体を表します。
// ここで定義していないフィールドは無視されます
type BacklogWebhookPayload struct {
	ID            int                   `json:"id"`
	Project       BacklogProject        `json:"project"`
	Type          int                   `json:"type"` // 3 = コメント追加
	Content       BacklogCommentContent `json:"content"`
	Notifications []BacklogNotification `json:"notifications,omitempty"`
	CreatedUser   BacklogUser           `json:"createdUser"`
}

// BacklogProject は課題が属するプロジェクト情報です
type BacklogProject struct {
	ProjectKey string `json:"projectKey"`
	Name       string `json:"name"`
}

// BacklogUser は Backlog ユーザー情報です
type BacklogUser struct {
	Name string `json:"name"`
}

// BacklogNotification は Backlog 側で「お知らせ」指定されたユーザーです。
// 現状は通知先決定に使用していません（コメント本文のメンションで判定）
type BacklogNotification struct {
	User BacklogUser `json:"user"`
}

// BacklogCommentContent はコメント追加イベントの content 部です
type BacklogCommentContent struct {
	KeyID   int            `json:"key_id"` // プロジェクト内の課題番号
	Summary string         `json:"summary"`
	Comment BacklogComment `json:"comment"`
}

// BacklogComment は追加されたコメントです
type BacklogComment struct {
	ID      int    `json:"id"`
	Content string `json:"content"`
}
