package config

import (
	"crypto/tls"
	"fmt"
	"net/http"

	"github.com/opensearch-project/opensearch-go/v2"
)

type OpenSearchConfig struct {
	Host      string
	Port      string
	Username  string
	Password  string
	IndexName string
	Enabled   bool
}

func DefaultOpenSearchConfig() *OpenSearchConfig {
	return &OpenSearchConfig{
		Host:      getEnvOrDefault("OPENSEARCH_HOST", "localhost"),
		Port:      getEnvOrDefault("OPENSEARCH_PORT", "9200"),
		Username:  getEnvOrDefault("OPENSEARCH_USERNAME", ""),
		Password:  getEnvOrDefault("OPENSEARCH_PASSWORD", ""),
		IndexName: getEnvOrDefault("OPENSEARCH_CONFIG_INDEX", "app_configs"),
		Enabled:   getEnvOrDefault("OPENSEARCH_ENABLED", "true") == "true",
	}
}

func (c *OpenSearchConfig) GetClient() (*opensearch.Client, error) {
	config := opensearch.Config{
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true,
			},
		},
		Addresses: []string{
			fmt.Sprintf("http://%s:%s", c.Host, c.Port),
		},
	}

	if c.Username != "" && c.Password != "" {
		config.Username = c.Username
		config.Password = c.Password
	}

	return opensearch.NewClient(config)
}
