package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/devstack-game/leaderboard/internal/platform/logging"
)

const (
	EnvDev     = "dev"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration

	CORSAllowedOrigins []string

	DBURL                   string
	DBDisablePreparedBinary bool

	CacheEnabled bool
	CacheTTL     time.Duration

	// Fixed-window limiter classes. Submission writes are throttled an
	// order of magnitude harder than general traffic.
	RateLimitGeneralMax       int
	RateLimitGeneralWindow    time.Duration
	RateLimitSubmissionMax    int
	RateLimitSubmissionWindow time.Duration

	// Plausibility rule constants, lifted out of the validation logic
	// because they encode game-design assumptions.
	ScoreBase          int
	ScoreMaxRounds     int
	ScorePerRoundBonus int
	MinSecondsPerRound int

	HermesBaseURL               string
	HermesIntrospectPath        string
	HermesTimeout               time.Duration
	HermesCircuitEnabled        bool
	HermesCircuitFailureCount   int
	HermesCircuitOpenTimeout    time.Duration
	HermesCircuitHalfOpenMaxReq int

	WebhookEnabled               bool
	WebhookSinkURL               string
	WebhookToken                 string
	WebhookTimeout               time.Duration
	WebhookMaxAttempts           int
	WebhookCircuitEnabled        bool
	WebhookCircuitFailureCount   int
	WebhookCircuitOpenTimeout    time.Duration
	WebhookCircuitHalfOpenMaxReq int

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled       bool
	PyroscopeServerAddress string
	PyroscopeAppName       string
	PyroscopeAuthToken     string
	PyroscopeUploadRate    time.Duration

	PprofEnabled bool
	PprofAddr    string

	InternalJobToken  string
	RecountMaxWorkers int

	LogLevel logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := getEnvAsDuration("HTTP_READ_TIMEOUT", "10s")
	if err != nil {
		return Config{}, err
	}
	writeTimeout, err := getEnvAsDuration("HTTP_WRITE_TIMEOUT", "15s")
	if err != nil {
		return Config{}, err
	}

	dbDisablePreparedBinary, err := getEnvAsBool("DB_DISABLE_PREPARED_BINARY", "false")
	if err != nil {
		return Config{}, err
	}

	cacheEnabled, err := getEnvAsBool("CACHE_ENABLED", "true")
	if err != nil {
		return Config{}, err
	}
	cacheTTL, err := getEnvAsDuration("CACHE_TTL", "15s")
	if err != nil {
		return Config{}, err
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}

	generalMax, err := getEnvAsInt("RATE_LIMIT_GENERAL_MAX", 60)
	if err != nil {
		return Config{}, err
	}
	generalWindow, err := getEnvAsDuration("RATE_LIMIT_GENERAL_WINDOW", "1m")
	if err != nil {
		return Config{}, err
	}
	submissionMax, err := getEnvAsInt("RATE_LIMIT_SUBMISSION_MAX", 6)
	if err != nil {
		return Config{}, err
	}
	submissionWindow, err := getEnvAsDuration("RATE_LIMIT_SUBMISSION_WINDOW", "1m")
	if err != nil {
		return Config{}, err
	}
	if generalMax <= 0 || submissionMax <= 0 {
		return Config{}, fmt.Errorf("rate limit maximums must be > 0")
	}
	if generalWindow <= 0 || submissionWindow <= 0 {
		return Config{}, fmt.Errorf("rate limit windows must be > 0")
	}
	if submissionMax >= generalMax {
		return Config{}, fmt.Errorf("RATE_LIMIT_SUBMISSION_MAX must be below RATE_LIMIT_GENERAL_MAX")
	}

	scoreBase, err := getEnvAsInt("RULES_SCORE_BASE", 1000)
	if err != nil {
		return Config{}, err
	}
	scoreMaxRounds, err := getEnvAsInt("RULES_SCORE_MAX_ROUNDS", 100)
	if err != nil {
		return Config{}, err
	}
	scorePerRoundBonus, err := getEnvAsInt("RULES_SCORE_PER_ROUND_BONUS", 10)
	if err != nil {
		return Config{}, err
	}
	minSecondsPerRound, err := getEnvAsInt("RULES_MIN_SECONDS_PER_ROUND", 10)
	if err != nil {
		return Config{}, err
	}
	if scoreBase <= 0 || scoreMaxRounds <= 0 || scorePerRoundBonus < 0 || minSecondsPerRound <= 0 {
		return Config{}, fmt.Errorf("plausibility rule constants must be positive")
	}

	hermesTimeout, err := getEnvAsDuration("HERMES_TIMEOUT", "5s")
	if err != nil {
		return Config{}, err
	}
	hermesCircuitEnabled, err := getEnvAsBool("HERMES_CIRCUIT_ENABLED", "true")
	if err != nil {
		return Config{}, err
	}
	hermesCircuitFailureCount, err := getEnvAsInt("HERMES_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, err
	}
	hermesCircuitOpenTimeout, err := getEnvAsDuration("HERMES_CIRCUIT_OPEN_TIMEOUT", "15s")
	if err != nil {
		return Config{}, err
	}
	hermesCircuitHalfOpenMaxReq, err := getEnvAsInt("HERMES_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, err
	}

	webhookEnabled, err := getEnvAsBool("WEBHOOK_ENABLED", "false")
	if err != nil {
		return Config{}, err
	}
	webhookSinkURL := strings.TrimSpace(getEnv("WEBHOOK_SINK_URL", ""))
	if webhookEnabled && webhookSinkURL == "" {
		return Config{}, fmt.Errorf("WEBHOOK_SINK_URL is required when WEBHOOK_ENABLED=true")
	}
	webhookTimeout, err := getEnvAsDuration("WEBHOOK_TIMEOUT", "5s")
	if err != nil {
		return Config{}, err
	}
	webhookMaxAttempts, err := getEnvAsInt("WEBHOOK_MAX_ATTEMPTS", 3)
	if err != nil {
		return Config{}, err
	}
	webhookCircuitEnabled, err := getEnvAsBool("WEBHOOK_CIRCUIT_ENABLED", "true")
	if err != nil {
		return Config{}, err
	}
	webhookCircuitFailureCount, err := getEnvAsInt("WEBHOOK_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, err
	}
	webhookCircuitOpenTimeout, err := getEnvAsDuration("WEBHOOK_CIRCUIT_OPEN_TIMEOUT", "30s")
	if err != nil {
		return Config{}, err
	}
	webhookCircuitHalfOpenMaxReq, err := getEnvAsInt("WEBHOOK_CIRCUIT_HALF_OPEN_MAX_REQ", 1)
	if err != nil {
		return Config{}, err
	}

	uptraceEnabled, err := getEnvAsBool("UPTRACE_ENABLED", "false")
	if err != nil {
		return Config{}, err
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := getEnvAsBool("PYROSCOPE_ENABLED", "false")
	if err != nil {
		return Config{}, err
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := getEnvAsDuration("PYROSCOPE_UPLOAD_RATE", "15s")
	if err != nil {
		return Config{}, err
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	pprofEnabled, err := getEnvAsBool("PPROF_ENABLED", "false")
	if err != nil {
		return Config{}, err
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	recountMaxWorkers, err := getEnvAsInt("RECOUNT_MAX_WORKERS", 8)
	if err != nil {
		return Config{}, err
	}

	serviceName := strings.TrimSpace(getEnv("SERVICE_NAME", "devstack-leaderboard"))

	return Config{
		AppEnv:         appEnv,
		ServiceName:    serviceName,
		ServiceVersion: strings.TrimSpace(getEnv("SERVICE_VERSION", "dev")),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,

		CORSAllowedOrigins: splitAndTrim(getEnv("CORS_ALLOWED_ORIGINS", "*")),

		DBURL:                   strings.TrimSpace(getEnv("DB_URL", "")),
		DBDisablePreparedBinary: dbDisablePreparedBinary,

		CacheEnabled: cacheEnabled,
		CacheTTL:     cacheTTL,

		RateLimitGeneralMax:       generalMax,
		RateLimitGeneralWindow:    generalWindow,
		RateLimitSubmissionMax:    submissionMax,
		RateLimitSubmissionWindow: submissionWindow,

		ScoreBase:          scoreBase,
		ScoreMaxRounds:     scoreMaxRounds,
		ScorePerRoundBonus: scorePerRoundBonus,
		MinSecondsPerRound: minSecondsPerRound,

		HermesBaseURL:               strings.TrimSpace(getEnv("HERMES_BASE_URL", "")),
		HermesIntrospectPath:        getEnv("HERMES_INTROSPECT_PATH", "/v1/tokens/introspect"),
		HermesTimeout:               hermesTimeout,
		HermesCircuitEnabled:        hermesCircuitEnabled,
		HermesCircuitFailureCount:   hermesCircuitFailureCount,
		HermesCircuitOpenTimeout:    hermesCircuitOpenTimeout,
		HermesCircuitHalfOpenMaxReq: hermesCircuitHalfOpenMaxReq,

		WebhookEnabled:               webhookEnabled,
		WebhookSinkURL:               webhookSinkURL,
		WebhookToken:                 strings.TrimSpace(getEnv("WEBHOOK_TOKEN", "")),
		WebhookTimeout:               webhookTimeout,
		WebhookMaxAttempts:           webhookMaxAttempts,
		WebhookCircuitEnabled:        webhookCircuitEnabled,
		WebhookCircuitFailureCount:   webhookCircuitFailureCount,
		WebhookCircuitOpenTimeout:    webhookCircuitOpenTimeout,
		WebhookCircuitHalfOpenMaxReq: webhookCircuitHalfOpenMaxReq,

		UptraceEnabled: uptraceEnabled,
		UptraceDSN:     uptraceDSN,

		PyroscopeEnabled:       pyroscopeEnabled,
		PyroscopeServerAddress: pyroscopeServerAddress,
		PyroscopeAppName:       strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", serviceName)),
		PyroscopeAuthToken:     strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeUploadRate:    pyroscopeUploadRate,

		PprofEnabled: pprofEnabled,
		PprofAddr:    pprofAddr,

		InternalJobToken:  strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
		RecountMaxWorkers: recountMaxWorkers,

		LogLevel: parseLogLevel(getEnv("LOG_LEVEL", "info")),
	}, nil
}

func parseAppEnv(raw string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	switch value {
	case EnvDev, EnvStaging, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("APP_ENV must be one of %s, %s, %s", EnvDev, EnvStaging, EnvProd)
	}
}

func parseLogLevel(raw string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(getEnv(key, strconv.Itoa(fallback)))
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return value, nil
}

func getEnvAsBool(key, fallback string) (bool, error) {
	value, err := strconv.ParseBool(getEnv(key, fallback))
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return value, nil
}

func getEnvAsDuration(key, fallback string) (time.Duration, error) {
	value, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return value, nil
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
