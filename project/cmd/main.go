package main

import (
	"context"
	"log"
	"net/http"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/RikiyaOta/backlog-mention-notifier/project/domain"
	"github.com/RikiyaOta/backlog-mention-notifier/project/handler"
	"github.com/RikiyaOta/backlog-mention-notifier/project/infrastructure/config"
	"github.com/RikiyaOta/backlog-mention-notifier/project/infrastructure/secret"
	slackinfra "github.com/RikiyaOta/backlog-mention-notifier/project/infrastructure/slack"
	"github.com/RikiyaOta/backlog-mention-notifier/project/service"
)

func main() {
	ctx := context.Background()

	// 1. 設定を読み込む
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("設定読み込み失敗: %v", err)
	}

	// 2. ロガーを初期化
	logger, err := newLogger(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("ロガー初期化失敗: %v", err)
	}
	defer logger.Sync()

	// 3. Bot トークンを決定（設定に無ければ Secret Manager から取得）
	botToken := cfg.SlackBotOauthToken
	if botToken == "" {
		secretMgr, err := secret.NewManager(ctx, cfg.GcpProject)
		if err != nil {
			logger.Fatalw("Secret Manager 初期化失敗", "error", err)
		}
		defer secretMgr.Close()

		botToken, err = secretMgr.GetSecret(ctx, cfg.SlackTokenSecretName)
		if err != nil {
			logger.Fatalw("Bot トークン取得失敗", "error", err)
		}
	}

	// 4. アカウントディレクトリを構築
	mappings := make([]domain.AccountMapping, 0, len(cfg.UserAccountMapping))
	for _, m := range cfg.UserAccountMapping {
		mappings = append(mappings, domain.AccountMapping{
			BacklogUserName: m.BacklogUserName,
			SlackUserID:     m.SlackUserID,
		})
	}
	directory, err := domain.NewAccountDirectory(mappings)
	if err != nil {
		logger.Fatalw("アカウントディレクトリ構築失敗", "error", err)
	}

	// 5. サービス層を初期化
	slackClient := slackinfra.NewClient(botToken, cfg.Slack.Timeout)
	notifyService := service.NewNotifyService(
		directory,
		slackClient,
		cfg.BacklogSpaceID,
		cfg.Slack.Timeout,
		logger,
	)

	// 6. HTTP ハンドラーを設定
	mux := http.NewServeMux()

	// Backlog Webhook 受信
	mux.Handle("/backlog/events", handler.NewWebhookHandler(notifyService, logger))

	// ヘルスチェック
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// 7. サーバー起動
	addr := cfg.ServerAddr()
	logger.Infow("サーバー起動", "addr", addr, "known_users", directory.Len())

	if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
		logger.Fatalw("サーバーエラー", "error", err)
	}
}

// newLogger は設定されたレベルで zap ロガーを作成します
func newLogger(level string) (*zap.SugaredLogger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(lvl)

	l, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}

	return l.Sugar(), nil
}
