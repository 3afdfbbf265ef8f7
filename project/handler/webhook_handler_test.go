package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/RikiyaOta/backlog-mention-notifier/project/domain"
	"github.com/RikiyaOta/backlog-mention-notifier/project/service"
)

type slackPortFake struct {
	mu      sync.Mutex
	calls   []string
	failFor map[string]error
}

var _ service.SlackPort = (*slackPortFake)(nil)

func (f *slackPortFake) PostDM(_ context.Context, slackUserID string, _ []slack.Block) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, slackUserID)
	if err, ok := f.failFor[slackUserID]; ok {
		return "", err
	}
	return "channel=D123 ts=1725100000.000100", nil
}

func (f *slackPortFake) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newTestHandler(t *testing.T, fake *slackPortFake) *WebhookHandler {
	t.Helper()

	dir, err := domain.NewAccountDirectory([]domain.AccountMapping{
		{BacklogUserName: "Test1", SlackUserID: "U001"},
		{BacklogUserName: "Test2", SlackUserID: "U002"},
		{BacklogUserName: "Test3", SlackUserID: "U003"},
	})
	require.NoError(t, err)

	ns := service.NewNotifyService(dir, fake, "acme", 5*time.Second, zap.NewNop().Sugar())
	return NewWebhookHandler(ns, zap.NewNop().Sugar())
}

func postWebhook(t *testing.T, h *WebhookHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/backlog/events", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestWebhookHandlerCommentAdded(t *testing.T) {
	fake := &slackPortFake{}
	h := newTestHandler(t, fake)

	payload := `{"id": 1, "project": {"projectKey": "ABC"}, "type": 3, "content": {"key_id": 42, "summary": "x", "comment": {"id": 7, "content": "@Test1 確認お願いします"}}, "createdUser": {"name": "Test2"}}`

	rec := postWebhook(t, h, payload)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	require.Equal(t, []string{"U001"}, fake.calls)
}

// 内部の結果にかかわらず Backlog 側へは常に 200 を返す
func TestWebhookHandlerAlwaysRespondsOK(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not_comment_event", body: `{"id": 1, "project": {"projectKey": "ABC"}, "type": 1, "content": {"key_id": 1, "summary": "x", "comment": {"id": 1, "content": "x"}}, "createdUser": {"name": "Test1"}}`},
		{name: "malformed_json", body: `{"type": 3,`},
		{name: "empty_body", body: ""},
		{name: "missing_required_field", body: `{"type": 3, "content": {"key_id": 1, "summary": "x", "comment": {"id": 1, "content": "x"}}, "createdUser": {"name": "Test1"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &slackPortFake{}
			h := newTestHandler(t, fake)

			rec := postWebhook(t, h, tt.body)
			require.Equal(t, http.StatusOK, rec.Code)
			require.Equal(t, 0, fake.callCount())
		})
	}
}

// 一部の配信が失敗しても応答は 200 のまま
func TestWebhookHandlerRespondsOKOnDeliveryFailure(t *testing.T) {
	fake := &slackPortFake{
		failFor: map[string]error{"U002": errors.New("invalid_auth")},
	}
	h := newTestHandler(t, fake)

	payload := `{"id": 1, "project": {"projectKey": "ABC"}, "type": 3, "content": {"key_id": 42, "summary": "x", "comment": {"id": 7, "content": "@Test1 @Test2 @Test3"}}, "createdUser": {"name": "Test1"}}`

	rec := postWebhook(t, h, payload)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 3, fake.callCount())
}

func TestWebhookHandlerMethodNotAllowed(t *testing.T) {
	h := newTestHandler(t, &slackPortFake{})

	req := httptest.NewRequest(http.MethodGet, "/backlog/events", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
