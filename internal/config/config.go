package config

import (
	"os"
	"strconv"
	"strings"
)

const (
	DefaultOperatorEmail    = "operator@remote-config.local"
	DefaultOperatorPassword = "remote-config-operator"
)

type Config struct {
	AppEnv             string `json:"app_env"`
	ServerPort         int    `json:"server_port"`
	JWTSecretKey       string `json:"jwt_secret_key"`
	JWTExpirationHours int    `json:"jwt_expiration_hours"`
	DefaultRateLimit   int    `json:"default_rate_limit"`
	GlobalRateLimit    int    `json:"global_rate_limit"`

	// PublicAPIKey is the anonymous key external applications send in the
	// apikey header of the read API.
	PublicAPIKey string `json:"public_api_key"`
	// PublicBaseURL is the externally reachable origin used in generated
	// integration snippets.
	PublicBaseURL string `json:"public_base_url"`

	// The single operator account every console session signs in with.
	OperatorEmail    string `json:"operator_email"`
	OperatorPassword string `json:"operator_password"`

	AutoMigrate bool   `json:"auto_migrate"`
	AuthzMode   string `json:"authz_mode"`
}

func Load() (*Config, error) {
	serverPort, _ := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if serverPort == 0 {
		serverPort = 10000
	}

	jwtExpirationHours, _ := strconv.Atoi(os.Getenv("JWT_EXPIRATION_HOURS"))
	if jwtExpirationHours == 0 {
		jwtExpirationHours = 24
	}

	defaultRateLimit, _ := strconv.Atoi(os.Getenv("DEFAULT_RATE_LIMIT"))
	if defaultRateLimit == 0 {
		defaultRateLimit = 600 // 600 published reads per minute per IP
	}

	globalRateLimit, _ := strconv.Atoi(os.Getenv("GLOBAL_RATE_LIMIT"))
	if globalRateLimit == 0 {
		globalRateLimit = 10000 // 10000 requests per minute globally per IP
	}

	autoMigrate, _ := strconv.ParseBool(os.Getenv("AUTO_MIGRATE"))

	publicBaseURL := strings.TrimRight(getEnvOrDefault("PUBLIC_BASE_URL", ""), "/")
	if publicBaseURL == "" {
		publicBaseURL = "http://localhost:" + strconv.Itoa(serverPort)
	}

	return &Config{
		AppEnv:             getEnvOrDefault("APP_ENV", "development"),
		ServerPort:         serverPort,
		JWTSecretKey:       os.Getenv("JWT_SECRET_KEY"),
		JWTExpirationHours: jwtExpirationHours,
		DefaultRateLimit:   defaultRateLimit,
		GlobalRateLimit:    globalRateLimit,
		PublicAPIKey:       os.Getenv("PUBLIC_API_KEY"),
		PublicBaseURL:      publicBaseURL,
		OperatorEmail:      getEnvOrDefault("OPERATOR_EMAIL", DefaultOperatorEmail),
		OperatorPassword:   getEnvOrDefault("OPERATOR_PASSWORD", DefaultOperatorPassword),
		AutoMigrate:        autoMigrate,
		AuthzMode:          getEnvOrDefault("AUTHZ_MODE", "enforce"),
	}, nil
}
