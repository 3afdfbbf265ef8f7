package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/RikiyaOta/backlog-mention-notifier/project/domain"
)

// NotifyService は Backlog Webhook の受付からメンション通知の配信までを管理するサービスです
type NotifyService interface {
	// OnWebhook は Webhook 受信時に呼ばれ、ペイロードの解析・メンション抽出・
	// 宛先ごとの DM 配信までを行い、配信結果の一覧を返します。
	// コメント追加以外のイベントは domain.ErrNotCommentEvent、
	// 解析失敗は domain.ParseError を返します（どちらも配信は行いません）
	OnWebhook(ctx context.Context, body []byte) ([]DeliveryOutcome, error)

	// Dispatch は解析済みイベントのメンション対象者それぞれに DM を配信します。
	// 一人への配信失敗は他の宛先への配信に影響しません
	Dispatch(ctx context.Context, issue *domain.CommentedIssue) []DeliveryOutcome
}

// notifyService は NotifyService の実装です
type notifyService struct {
	directory       *domain.AccountDirectory
	sp              SlackPort
	backlogSpaceID  string
	deliveryTimeout time.Duration
	logger          *zap.SugaredLogger
}

// NewNotifyService は NotifyService のインスタンスを作成します
func NewNotifyService(
	directory *domain.AccountDirectory,
	sp SlackPort,
	backlogSpaceID string,
	deliveryTimeout time.Duration,
	logger *zap.SugaredLogger,
) NotifyService {
	return &notifyService{
		directory:       directory,
		sp:              sp,
		backlogSpaceID:  backlogSpaceID,
		deliveryTimeout: deliveryTimeout,
		logger:          logger,
	}
}

// OnWebhook は Webhook 本体の解析と通知配信を行います
func (ns *notifyService) OnWebhook(ctx context.Context, body []byte) ([]DeliveryOutcome, error) {
	issue, err := ParseWebhookPayload(body, ns.directory)
	if err != nil {
		return nil, err
	}

	if len(issue.MentionedUserNames) == 0 {
		// 登録ユーザーへのメンションがないためスキップ
		ns.logger.Infow("メンション対象者なし", "issue", issue.IssueRef(), "comment_id", issue.CommentID)
		return nil, nil
	}

	return ns.Dispatch(ctx, issue), nil
}

// deliveryTarget はディレクトリで解決済みの配信先です
type deliveryTarget struct {
	backlogUserName string
	slackUserID     string
}

// Dispatch はメンション対象者それぞれに DM を配信し、結果を収集します。
// 配信は宛先ごとに並行して行い、全宛先の完了を待ってから結果を返します。
// ディレクトリに登録されていないメンションは配信対象外として黙ってスキップします
// （エラーでも結果記録対象でもありません）
func (ns *notifyService) Dispatch(ctx context.Context, issue *domain.CommentedIssue) []DeliveryOutcome {
	// ディレクトリで解決できた宛先のみを配信対象とする
	targets := make([]deliveryTarget, 0, len(issue.MentionedUserNames))
	for _, name := range issue.MentionedUserNames {
		slackUserID, ok := ns.directory.Lookup(name)
		if !ok {
			continue
		}
		targets = append(targets, deliveryTarget{backlogUserName: name, slackUserID: slackUserID})
	}

	blocks := BuildNotificationBlocks(ns.backlogSpaceID, issue)

	// 宛先ごとに独立したゴルーチンで配信し、全件の結果を集める。
	// 一件のハングが他の宛先を塞がないよう、呼び出し単位でタイムアウトを設定する
	outcomes := make([]DeliveryOutcome, len(targets))
	var wg sync.WaitGroup

	for i, target := range targets {
		wg.Add(1)
		go func(i int, target deliveryTarget) {
			defer wg.Done()

			callCtx, cancel := context.WithTimeout(ctx, ns.deliveryTimeout)
			defer cancel()

			response, err := ns.sp.PostDM(callCtx, target.slackUserID, blocks)
			if err != nil {
				outcomes[i] = DeliveryOutcome{
					BacklogUserName: target.backlogUserName,
					SlackUserID:     target.slackUserID,
					OK:              false,
					Cause:           err.Error(),
				}
				ns.logger.Errorw("DM配信失敗",
					"backlog_user", target.backlogUserName,
					"slack_user", target.slackUserID,
					"issue", issue.IssueRef(),
					"error", err,
				)
				return
			}

			outcomes[i] = DeliveryOutcome{
				BacklogUserName: target.backlogUserName,
				SlackUserID:     target.slackUserID,
				OK:              true,
				Response:        response,
			}
			ns.logger.Infow("DM配信成功",
				"backlog_user", target.backlogUserName,
				"slack_user", target.slackUserID,
				"issue", issue.IssueRef(),
				"response", response,
			)
		}(i, target)
	}

	wg.Wait()
	return outcomes
}
