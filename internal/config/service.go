package config

import "time"

type ServiceConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Version     string `mapstructure:"version"`

	// ClientURL is the applicant-facing web app; approval deep links and
	// hosted-onboarding return URLs point into it.
	ClientURL string `mapstructure:"client_url"`

	Auth    AuthConfig    `mapstructure:"auth"`
	Stripe  StripeConfig  `mapstructure:"stripe"`
	Plaid   PlaidConfig   `mapstructure:"plaid"`
	Storage StorageConfig `mapstructure:"storage"`
	Redis   RedisConfig   `mapstructure:"redis"`
}

type AuthConfig struct {
	// JWTSecret verifies bearer tokens minted by the identity service.
	JWTSecret string `mapstructure:"jwt_secret"`

	// ApprovalTokenSecret signs the phase-2 approval tokens.
	ApprovalTokenSecret string        `mapstructure:"approval_token_secret"`
	ApprovalTokenTTL    time.Duration `mapstructure:"approval_token_ttl"`

	// BankTokenKey is the hex-encoded AES-256 key sealing aggregator
	// access tokens at rest.
	BankTokenKey string `mapstructure:"bank_token_key"`
}

type StripeConfig struct {
	SecretKey     string `mapstructure:"secret_key"`
	WebhookSecret string `mapstructure:"webhook_secret"`
}

type PlaidConfig struct {
	ClientID    string `mapstructure:"client_id"`
	Secret      string `mapstructure:"secret"`
	Environment string `mapstructure:"environment"`
}

type StorageConfig struct {
	Region          string `mapstructure:"region"`
	Bucket          string `mapstructure:"bucket"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`

	// Endpoint overrides the S3 endpoint for local development against
	// MinIO or localstack.
	Endpoint string `mapstructure:"endpoint"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// NotificationChannel is the pub/sub channel the notification worker
	// consumes.
	NotificationChannel string `mapstructure:"notification_channel"`
}
