package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/RikiyaOta/backlog-mention-notifier/project/domain"
)

func newTestDirectory(t *testing.T) *domain.AccountDirectory {
	t.Helper()
	dir, err := domain.NewAccountDirectory([]domain.AccountMapping{
		{BacklogUserName: "Rikiya", SlackUserID: "U000"},
		{BacklogUserName: "RikiyaOta", SlackUserID: "U001"},
		{BacklogUserName: "Test1", SlackUserID: "U002"},
		{BacklogUserName: "Test2", SlackUserID: "U003"},
	})
	require.NoError(t, err)
	return dir
}

const commentAddedPayload = `{
	"id": 12345,
	"project": {"projectKey": "ABC", "name": "サンプルプロジェクト"},
	"type": 3,
	"content": {
		"key_id": 42,
		"summary": "ログイン画面の不具合",
		"comment": {"id": 7, "content": "@Test1 確認お願いします"}
	},
	"notifications": [{"user": {"name": "Test2"}}],
	"createdUser": {"name": "RikiyaOta"}
}`

func TestParseWebhookPayload(t *testing.T) {
	dir := newTestDirectory(t)

	issue, err := ParseWebhookPayload([]byte(commentAddedPayload), dir)
	require.NoError(t, err)

	require.Equal(t, "ABC", issue.ProjectKey)
	require.Equal(t, 42, issue.IssueKey)
	require.Equal(t, "ログイン画面の不具合", issue.IssueSubject)
	require.Equal(t, 7, issue.CommentID)
	require.Equal(t, "@Test1 確認お願いします", issue.CommentContent)
	require.Equal(t, "RikiyaOta", issue.CommentCreator)
	require.Equal(t, []string{"Test1"}, issue.MentionedUserNames)
}

func TestParseWebhookPayloadNotCommentEvent(t *testing.T) {
	dir := newTestDirectory(t)

	// type=1 (課題追加) など、コメント追加以外はすべてスキップ対象
	tests := []struct {
		name      string
		eventType string
	}{
		{name: "issue_created", eventType: "1"},
		{name: "issue_updated", eventType: "2"},
		{name: "wiki_created", eventType: "6"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := `{"id": 1, "project": {"projectKey": "ABC"}, "type": ` + tt.eventType + `, "content": {"key_id": 1, "summary": "x", "comment": {"id": 1, "content": "x"}}, "createdUser": {"name": "Test1"}}`

			_, err := ParseWebhookPayload([]byte(payload), dir)
			require.Error(t, err)
			require.True(t, errors.Is(err, domain.ErrNotCommentEvent))
			require.False(t, domain.IsParseError(err))
		})
	}
}

func TestParseWebhookPayloadEmptyBody(t *testing.T) {
	dir := newTestDirectory(t)

	for _, body := range [][]byte{nil, []byte(""), []byte("   \n")} {
		_, err := ParseWebhookPayload(body, dir)
		require.Error(t, err)
		require.True(t, domain.IsParseError(err))
		require.Contains(t, err.Error(), "payload is empty")
	}
}

func TestParseWebhookPayloadMalformedJSON(t *testing.T) {
	dir := newTestDirectory(t)

	_, err := ParseWebhookPayload([]byte(`{"type": 3, "project":`), dir)
	require.Error(t, err)
	require.True(t, domain.IsParseError(err))
	require.False(t, errors.Is(err, domain.ErrNotCommentEvent))
}

func TestParseWebhookPayloadWrongFieldType(t *testing.T) {
	dir := newTestDirectory(t)

	// type が文字列だとデコードエラー
	_, err := ParseWebhookPayload([]byte(`{"type": "3"}`), dir)
	require.Error(t, err)
	require.True(t, domain.IsParseError(err))
}

func TestParseWebhookPayloadMissingRequiredField(t *testing.T) {
	dir := newTestDirectory(t)

	tests := []struct {
		name    string
		payload string
	}{
		{
			name:    "missing_project_key",
			payload: `{"id": 1, "project": {"name": "x"}, "type": 3, "content": {"key_id": 1, "summary": "x", "comment": {"id": 1, "content": "x"}}, "createdUser": {"name": "Test1"}}`,
		},
		{
			name:    "missing_key_id",
			payload: `{"id": 1, "project": {"projectKey": "ABC"}, "type": 3, "content": {"summary": "x", "comment": {"id": 1, "content": "x"}}, "createdUser": {"name": "Test1"}}`,
		},
		{
			name:    "missing_comment_id",
			payload: `{"id": 1, "project": {"projectKey": "ABC"}, "type": 3, "content": {"key_id": 1, "summary": "x", "comment": {"content": "x"}}, "createdUser": {"name": "Test1"}}`,
		},
		{
			name:    "missing_created_user",
			payload: `{"id": 1, "project": {"projectKey": "ABC"}, "type": 3, "content": {"key_id": 1, "summary": "x", "comment": {"id": 1, "content": "x"}}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseWebhookPayload([]byte(tt.payload), dir)
			require.Error(t, err)
			require.True(t, domain.IsParseError(err))
		})
	}
}

// 接頭辞関係にある候補は両方マッチした状態で CommentedIssue に載る
func TestParseWebhookPayloadPrefixOverlapMentions(t *testing.T) {
	dir := newTestDirectory(t)

	payload := `{"id": 1, "project": {"projectKey": "ABC"}, "type": 3, "content": {"key_id": 1, "summary": "x", "comment": {"id": 1, "content": "@RikiyaOta thanks"}}, "createdUser": {"name": "Test1"}}`

	issue, err := ParseWebhookPayload([]byte(payload), dir)
	require.NoError(t, err)
	require.Equal(t, []string{"Rikiya", "RikiyaOta"}, issue.MentionedUserNames)
}
