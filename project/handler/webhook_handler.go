package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/RikiyaOta/backlog-mention-notifier/project/domain"
	"github.com/RikiyaOta/backlog-mention-notifier/project/service"
)

// WebhookHandler は Backlog からの課題 Webhook を処理します
type WebhookHandler struct {
	notifyService service.NotifyService
	logger        *zap.SugaredLogger
}

// NewWebhookHandler は Webhook ハンドラーを作成します
func NewWebhookHandler(notifyService service.NotifyService, logger *zap.SugaredLogger) *WebhookHandler {
	return &WebhookHandler{
		notifyService: notifyService,
		logger:        logger,
	}
}

// ServeHTTP は Backlog Webhook 受信エンドポイントです。
// 解析エラーや配信失敗があっても Backlog 側へは常に 200 で応答します。
// （200 以外を返すと Backlog 側の再送を誘発してしまうため）
func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// リクエスト本体を読み込む
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Warnw("リクエスト本体の読み込み失敗", "error", err)
		h.respondOK(w)
		return
	}
	defer r.Body.Close()

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	outcomes, err := h.notifyService.OnWebhook(ctx, body)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotCommentEvent):
			// コメント追加以外のイベントは想定内のスキップ
			h.logger.Infow("コメント追加イベントではないためスキップ", "path", r.URL.Path)
		case domain.IsParseError(err):
			h.logger.Warnw("webhookペイロード解析失敗", "error", err)
		default:
			h.logger.Errorw("webhook処理エラー", "error", err)
		}
		h.respondOK(w)
		return
	}

	h.logger.Infow("webhook処理完了",
		"method", r.Method,
		"path", r.URL.Path,
		"deliveries", len(outcomes),
		"duration_ms", float64(time.Since(start).Microseconds())/1000.0,
	)

	h.respondOK(w)
}

// respondOK は Backlog への応答を返します。内部の結果にかかわらず常に 200 です
func (h *WebhookHandler) respondOK(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
