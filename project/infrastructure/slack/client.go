package slack

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/slack-go/slack"
)

// Client は service.SlackPort の Slack SDK 実装です。
// chat.postMessage を Bot トークンの Bearer 認証で呼び出します
type Client struct {
	cli *slack.Client
}

// NewClient は Slack クライアントを初期化します。
// timeout は chat.postMessage 呼び出し一回あたりの HTTP タイムアウトです
func NewClient(botToken string, timeout time.Duration) *Client {
	httpClient := &http.Client{Timeout: timeout}

	return &Client{
		cli: slack.New(botToken, slack.OptionHTTPClient(httpClient)),
	}
}

// PostDM はユーザーに Block Kit メッセージの DM を送信します。
// channel にユーザー ID を指定することで DM チャンネルへの投稿になります
func (c *Client) PostDM(ctx context.Context, slackUserID string, blocks []slack.Block) (string, error) {
	channel, ts, err := c.cli.PostMessageContext(
		ctx,
		slackUserID,
		slack.MsgOptionBlocks(blocks...),
	)
	if err != nil {
		return "", fmt.Errorf("slack: DM 送信失敗 (user=%s): %w", slackUserID, err)
	}

	// Slack API の応答からログ用に投稿先と TS を残す
	return fmt.Sprintf("channel=%s ts=%s", channel, ts), nil
}
