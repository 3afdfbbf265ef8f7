package service

import (
	"bytes"
	"encoding/json"

	"github.com/RikiyaOta/backlog-mention-notifier/project/domain"
	"github.com/RikiyaOta/backlog-mention-notifier/project/dto"
)

// ParseWebhookPayload は Backlog Webhook のリクエスト本体を解析し、
// コメント追加イベントであれば CommentedIssue に変換します。
// - 本体が空の場合は ParseError
// - JSON として解析できない場合は ParseError（デコードエラーを保持）
// - コメント追加以外のイベントは domain.ErrNotCommentEvent
// メンション抽出はディレクトリの候補ユーザー名をもとにここで行います
func ParseWebhookPayload(body []byte, directory *domain.AccountDirectory) (*domain.CommentedIssue, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, domain.NewParseError("payload is empty", nil)
	}

	var payload dto.BacklogWebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, domain.NewParseError("JSONデコード失敗", err)
	}

	if payload.Type != dto.BacklogEventTypeCommentAdded {
		return nil, domain.ErrNotCommentEvent
	}

	if err := validatePayload(&payload); err != nil {
		return nil, err
	}

	comment := payload.Content.Comment.Content

	return &domain.CommentedIssue{
		ProjectKey:         payload.Project.ProjectKey,
		IssueKey:           payload.Content.KeyID,
		IssueSubject:       payload.Content.Summary,
		CommentID:          payload.Content.Comment.ID,
		CommentContent:     comment,
		CommentCreator:     payload.CreatedUser.Name,
		MentionedUserNames: ExtractMentionedUsers(comment, directory.BacklogUserNames()),
	}, nil
}

// validatePayload はコメント追加イベントとして必須のフィールドを確認します
func validatePayload(payload *dto.BacklogWebhookPayload) error {
	if payload.Project.ProjectKey == "" {
		return domain.NewParseError("project.projectKey がありません", nil)
	}
	if payload.Content.KeyID == 0 {
		return domain.NewParseError("content.key_id がありません", nil)
	}
	if payload.Content.Comment.ID == 0 {
		return domain.NewParseError("content.comment.id がありません", nil)
	}
	if payload.CreatedUser.Name == "" {
		return domain.NewParseError("createdUser.name がありません", nil)
	}
	return nil
}
