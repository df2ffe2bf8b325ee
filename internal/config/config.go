package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port   string
	AppEnv string
}

// DatabaseConfig holds Postgres connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN renders the GORM Postgres connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// KafkaConfig holds event bus settings. Empty Brokers disables Kafka and
// the service runs on the in-memory channel alone.
type KafkaConfig struct {
	Brokers     []string
	GroupPrefix string
}

// Enabled reports whether a broker list is configured.
func (c KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

// ProvidersConfig holds external map/geocoding provider settings.
type ProvidersConfig struct {
	OSRMBaseURL        string
	NominatimBaseURL   string
	NominatimUserAgent string
	DistanceMatrixURL  string
	DistanceMatrixKey  string
}

// FallbackConfig is the coordinate assumed when no device position is
// available yet.
type FallbackConfig struct {
	Lat float64
	Lng float64
}

// Config is the full service configuration.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Kafka     KafkaConfig
	Providers ProvidersConfig
	Fallback  FallbackConfig
}

// Load reads configuration from NAVIGATION_-prefixed environment variables
// with defaults suitable for local development.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("NAVIGATION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", ":8080")
	v.SetDefault("app_env", "development")

	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", 5432)
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_password", "postgres")
	v.SetDefault("db_name", "navigation")
	v.SetDefault("db_sslmode", "disable")

	v.SetDefault("kafka_brokers", "")
	v.SetDefault("kafka_group_prefix", "smarter.")

	v.SetDefault("osrm_base_url", "https://router.project-osrm.org")
	v.SetDefault("nominatim_base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("nominatim_user_agent", "smarter-emergency-navigation")
	v.SetDefault("distance_matrix_url", "")
	v.SetDefault("distance_matrix_key", "")

	v.SetDefault("fallback_lat", 16.4575)
	v.SetDefault("fallback_lng", 80.5354)

	var brokers []string
	if raw := strings.TrimSpace(v.GetString("kafka_brokers")); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}

	port := v.GetString("port")
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	return &Config{
		Server: ServerConfig{
			Port:   port,
			AppEnv: v.GetString("app_env"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("db_host"),
			Port:     v.GetInt("db_port"),
			User:     v.GetString("db_user"),
			Password: v.GetString("db_password"),
			DBName:   v.GetString("db_name"),
			SSLMode:  v.GetString("db_sslmode"),
		},
		Kafka: KafkaConfig{
			Brokers:     brokers,
			GroupPrefix: v.GetString("kafka_group_prefix"),
		},
		Providers: ProvidersConfig{
			OSRMBaseURL:        v.GetString("osrm_base_url"),
			NominatimBaseURL:   v.GetString("nominatim_base_url"),
			NominatimUserAgent: v.GetString("nominatim_user_agent"),
			DistanceMatrixURL:  v.GetString("distance_matrix_url"),
			DistanceMatrixKey:  v.GetString("distance_matrix_key"),
		},
		Fallback: FallbackConfig{
			Lat: v.GetFloat64("fallback_lat"),
			Lng: v.GetFloat64("fallback_lng"),
		},
	}, nil
}
