package templates

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand/v2"
)

const (
	APIKeyPrefix        = "mfr_"
	DefaultAPIKeyLength = 12

	apiKeyAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var (
	tenantPrefixes = []string{"Production", "Staging", "Development", "Mobile", "Web", "API", "Backend", "Frontend"}
	tenantSuffixes = []string{"App", "Service", "Platform", "System", "Client", "Server"}
	configPrefixes = []string{"homepage", "app", "feature", "api", "ui", "mobile", "web", "settings", "config", "flags"}
	configSuffixes = []string{"flags", "config", "settings", "params", "options", "prefs", "data"}
)

// GenerateAPIKey returns "mfr_" followed by length random alphanumerics.
func GenerateAPIKey(length int) (string, error) {
	if length <= 0 {
		length = DefaultAPIKeyLength
	}
	max := big.NewInt(int64(len(apiKeyAlphabet)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = apiKeyAlphabet[n.Int64()]
	}
	return APIKeyPrefix + string(buf), nil
}

// GenerateTenantName returns a name such as "Staging Platform".
func GenerateTenantName() string {
	return pick(tenantPrefixes) + " " + pick(tenantSuffixes)
}

// GenerateConfigName returns a key such as "homepage_flags". A prefix equal
// to its suffix collapses to the single word.
func GenerateConfigName() string {
	prefix, suffix := pick(configPrefixes), pick(configSuffixes)
	if prefix == suffix {
		return prefix
	}
	return prefix + "_" + suffix
}

func pick(words []string) string {
	return words[mrand.IntN(len(words))]
}
