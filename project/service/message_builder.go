package service

import (
	"fmt"

	"github.com/slack-go/slack"

	"github.com/RikiyaOta/backlog-mention-notifier/project/domain"
)

// BuildIssueLink は課題のコメントへのディープリンクを組み立てます。
// 形式: https://<スペースID>.backlog.com/view/<プロジェクトキー>-<課題番号>#comment-<コメントID>
func BuildIssueLink(backlogSpaceID string, issue *domain.CommentedIssue) string {
	return fmt.Sprintf(
		"https://%s.backlog.com/view/%s#comment-%d",
		backlogSpaceID,
		issue.IssueRef(),
		issue.CommentID,
	)
}

// BuildNotificationBlocks は通知 DM の Block Kit ブロックを組み立てます。
// 構成（上から順に）:
//  1. コメント投稿者を伝えるヘッダー（plain_text）
//  2. 区切り線
//  3. 課題へのリンク付きタイトル（mrkdwn）
//  4. コメント本文そのまま（mrkdwn）
//
// I/O は行わない純粋な変換です。宛先の指定（channel）は送信側で行います
func BuildNotificationBlocks(backlogSpaceID string, issue *domain.CommentedIssue) []slack.Block {
	header := slack.NewSectionBlock(
		slack.NewTextBlockObject(
			slack.PlainTextType,
			fmt.Sprintf(":memo: %s さんが課題にコメントしました。", issue.CommentCreator),
			true,
			false,
		),
		nil,
		nil,
	)

	title := slack.NewSectionBlock(
		slack.NewTextBlockObject(
			slack.MarkdownType,
			fmt.Sprintf(
				"*<%s|%s %s>*",
				BuildIssueLink(backlogSpaceID, issue),
				issue.IssueRef(),
				issue.IssueSubject,
			),
			false,
			false,
		),
		nil,
		nil,
	)

	body := slack.NewSectionBlock(
		slack.NewTextBlockObject(slack.MarkdownType, issue.CommentContent, false, false),
		nil,
		nil,
	)

	return []slack.Block{
		header,
		slack.NewDividerBlock(),
		title,
		body,
	}
}
