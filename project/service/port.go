package service

import (
	"context"

	"github.com/slack-go/slack"
)

// SlackPort は Slack API 呼び出しのポートです
type SlackPort interface {
	// PostDM は指定されたユーザーに Block Kit メッセージの DM を送信します。
	// 成功時は Slack API の応答（投稿先チャンネルとメッセージ TS）を返します
	PostDM(ctx context.Context, slackUserID string, blocks []slack.Block) (response string, err error)
}
