package service

// DeliveryOutcome は宛先ごとの DM 配信結果を表します。
// イベント全体の成否に集約されることはなく、宛先単位で独立に記録されます
type DeliveryOutcome struct {
	// BacklogUserName はメンションされた Backlog ユーザー名
	BacklogUserName string

	// SlackUserID は配信先の Slack ユーザー ID
	SlackUserID string

	// OK は配信に成功したかどうか
	OK bool

	// Response は成功時に Slack API から返された応答（channel と ts）
	Response string

	// Cause は失敗時の原因
	Cause string
}
