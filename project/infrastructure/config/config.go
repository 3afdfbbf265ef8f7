package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config は APP_ENV で選択されたプロファイルから読み込まれるアプリケーション設定です
type Config struct {
	// SlackBotOauthToken は Slack Bot の OAuth トークン。
	// 空の場合は SlackTokenSecretName から Secret Manager 経由で取得します
	SlackBotOauthToken string `mapstructure:"slack_bot_oauth_token"`

	// BacklogSpaceID は課題リンクの組み立てに使う Backlog スペース ID
	BacklogSpaceID string `mapstructure:"backlog_space_id"`

	// UserAccountMapping は Backlog ユーザー名と Slack ユーザー ID の対応表
	UserAccountMapping []UserAccountMapping `mapstructure:"user_account_mapping"`

	// SlackTokenSecretName は Secret Manager 上の Bot トークンのシークレット名（任意）
	SlackTokenSecretName string `mapstructure:"slack_token_secret_name"`

	// GcpProject は Secret Manager を使う場合の GCP プロジェクト ID
	GcpProject string `mapstructure:"gcp_project"`

	Server  ServerConfig  `mapstructure:"server"`
	Slack   SlackConfig   `mapstructure:"slack"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// UserAccountMapping は設定ファイル上のアカウント対応エントリです
type UserAccountMapping struct {
	BacklogUserName string `mapstructure:"backlog_user_name"`
	SlackUserID     string `mapstructure:"slack_user_id"`
}

// ServerConfig は HTTP サーバー設定です
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// SlackConfig は Slack API 呼び出しの設定です
type SlackConfig struct {
	// Timeout は DM 配信一回あたりの HTTP タイムアウト
	Timeout time.Duration `mapstructure:"timeout"`
}

// LoggingConfig はロガー設定です
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

const envFile = "config/.env"

// NewConfig は APP_ENV に対応するプロファイル（config/config.<APP_ENV>.json）を
// 読み込み、環境変数による上書きを適用して Config を返します。
// 読み込み・検証の失敗はプロセス起動不能として扱ってください
func NewConfig() (*Config, error) {
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "development"
	}

	// ローカル開発用の .env があれば環境変数に反映（既存の値は優先）
	if envMap, err := godotenv.Read(envFile); err == nil {
		for k, val := range envMap {
			if _, exists := os.LookupEnv(k); !exists {
				_ = os.Setenv(k, val)
			}
		}
	}

	v := viper.New()
	v.SetConfigFile(fmt.Sprintf("config/config.%s.json", appEnv))
	v.SetConfigType("json")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("設定ファイル読み込み失敗 (env=%s): %w", appEnv, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("設定の変換失敗: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("server.port", 8080)
	v.SetDefault("slack.timeout", 10*time.Second)
}

// Validate は必須項目の存在を検証します
func (c Config) Validate() error {
	if c.BacklogSpaceID == "" {
		return errors.New("backlog_space_id は必須項目です")
	}
	if c.SlackBotOauthToken == "" && c.SlackTokenSecretName == "" {
		return errors.New("slack_bot_oauth_token か slack_token_secret_name のどちらかは必須です")
	}
	if c.SlackTokenSecretName != "" && c.SlackBotOauthToken == "" && c.GcpProject == "" {
		return errors.New("slack_token_secret_name を使う場合は gcp_project が必須です")
	}
	return nil
}

// ServerAddr は HTTP サーバーのバインド先を返します
func (c Config) ServerAddr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
