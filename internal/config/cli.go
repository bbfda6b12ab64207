package config

// CLIConfig holds rcctl's environment defaults; flags override them.
type CLIConfig struct {
	Store            string
	CredentialsFile  string
	RedisAddr        string
	RedisHash        string
	OperatorEmail    string
	OperatorPassword string
}

func DefaultCLIConfig() *CLIConfig {
	return &CLIConfig{
		Store:            getEnvOrDefault("RCCTL_STORE", "file"),
		CredentialsFile:  getEnvOrDefault("RCCTL_CREDENTIALS_FILE", ""),
		RedisAddr:        getEnvOrDefault("RCCTL_REDIS_ADDR", "localhost:6379"),
		RedisHash:        getEnvOrDefault("RCCTL_REDIS_HASH", "rcctl:credentials"),
		OperatorEmail:    getEnvOrDefault("RCCTL_OPERATOR_EMAIL", DefaultOperatorEmail),
		OperatorPassword: getEnvOrDefault("RCCTL_OPERATOR_PASSWORD", DefaultOperatorPassword),
	}
}
