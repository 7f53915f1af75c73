package config

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// applyFallbacks applies environment variable fallbacks
func (c *Config) applyFallbacks() {
	c.applyServerAPIKeyFallbacks()
	c.applyGoogleClientFallbacks()
	c.applyObservabilityDefaults()
}

// applyServerAPIKeyFallbacks applies API key fallbacks from environment variables
func (c *Config) applyServerAPIKeyFallbacks() {
	if len(c.Server.APIKeys) == 0 {
		if apiKeysEnv := os.Getenv("CVINTAKE_SERVER_APIKEYS"); apiKeysEnv != "" {
			c.Server.APIKeys = strings.Split(apiKeysEnv, ",")
			// Trim whitespace from each key
			for i, key := range c.Server.APIKeys {
				c.Server.APIKeys[i] = strings.TrimSpace(key)
			}
		}
	}
}

// applyGoogleClientFallbacks supports the plain GOOGLE_CLIENT_ID /
// GOOGLE_CLIENT_SECRET variables used by provider tooling
func (c *Config) applyGoogleClientFallbacks() {
	if c.Google.ClientID == "" {
		c.Google.ClientID = os.Getenv("GOOGLE_CLIENT_ID")
	}
	if c.Google.ClientSecret == "" {
		c.Google.ClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	}
}

// applyObservabilityDefaults applies default observability configuration values
func (c *Config) applyObservabilityDefaults() {
	if c.Observability.ServiceInstance == "" {
		c.Observability.ServiceInstance = generateServiceInstanceID(c.Observability.ServiceName)
	}

	// Set console output based on log level if not explicitly configured
	if c.App.LogLevel == "debug" && !c.Observability.ConsoleOutput {
		c.Observability.ConsoleOutput = true
	}
}

// generateServiceInstanceID generates a unique service instance ID
func generateServiceInstanceID(serviceName string) string {
	// Try to get hostname, fallback to default
	if hostname, err := os.Hostname(); err == nil {
		return fmt.Sprintf("%s-%s", serviceName, hostname)
	}
	return fmt.Sprintf("%s-1", serviceName)
}

// logConfigurationSources logs a summary of configuration sources being used
func (c *Config) logConfigurationSources(configFileUsed string) {
	log.Println("[CONFIG] === Configuration Sources Summary ===")

	// Log config file source
	if configFileUsed != "" {
		log.Printf("[CONFIG] Config file: %s", configFileUsed)
	} else {
		log.Println("[CONFIG] Config file: None (using defaults)")
	}

	// Log environment variables that are set
	envVars := []string{
		"CVINTAKE_GOOGLE_CLIENTID",
		"CVINTAKE_GOOGLE_CLIENTSECRET",
		"CVINTAKE_GOOGLE_REDIRECTURL",
		"CVINTAKE_SERVER_PORT",
		"CVINTAKE_SERVER_HOST",
		"CVINTAKE_APP_LOGLEVEL",
		"CVINTAKE_VAULT_ENABLED",
		"GOOGLE_CLIENT_ID", // Legacy support
	}

	log.Println("[CONFIG] Environment variables:")
	hasEnvVars := false
	for _, envVar := range envVars {
		if value := os.Getenv(envVar); value != "" {
			// Mask sensitive values
			lower := strings.ToLower(envVar)
			if strings.Contains(lower, "secret") || strings.Contains(lower, "key") {
				log.Printf("[CONFIG]   %s=***MASKED***", envVar)
			} else {
				log.Printf("[CONFIG]   %s=%s", envVar, value)
			}
			hasEnvVars = true
		}
	}
	if !hasEnvVars {
		log.Println("[CONFIG]   None set")
	}

	// Log key configuration values (with sensitive data masked)
	log.Println("[CONFIG] === Key Configuration Values ===")
	if c.Google.ClientID != "" {
		log.Println("[CONFIG] Google OAuth Client: ***CONFIGURED***")
	} else if c.Google.CredentialsFile != "" {
		log.Printf("[CONFIG] Google OAuth Client: from file %s", c.Google.CredentialsFile)
	} else {
		log.Println("[CONFIG] Google OAuth Client: ***NOT SET***")
	}
	log.Printf("[CONFIG] Google Redirect URL: %s", c.Google.RedirectURL)
	log.Printf("[CONFIG] Google Calendar ID: %s", c.Google.CalendarID)
	log.Printf("[CONFIG] Timezone: %s", c.Google.Timezone)
	log.Printf("[CONFIG] Scheduling Window: %02d:00-%02d:00", c.Scheduling.StartHour, c.Scheduling.EndHour)
	log.Printf("[CONFIG] Server Host: %s", c.Server.Host)
	log.Printf("[CONFIG] Server Port: %s", c.Server.Port)
	log.Printf("[CONFIG] Log Level: %s", c.App.LogLevel)
	log.Printf("[CONFIG] Vault Enabled: %t", c.Vault.Enabled)
	log.Printf("[CONFIG] Observability Enabled: %t", c.Observability.Enabled)

	log.Println("[CONFIG] =====================================")
}
