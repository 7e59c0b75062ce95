package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	DatabaseURL      string
	Location         *time.Location
	ReminderInterval time.Duration

	TelegramToken       string
	FirebaseCredentials string
	GoogleProjectID     string
	GooglePubSubTopic   string
	GoogleCredentials   string

	ChromaURL      string
	ChromaAPIKey   string
	ChromaTenant   string
	ChromaDatabase string
	GeminiAPIKey   string

	SettingsFile string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:             getEnv("PORT", "8080"),
		JWTSecret:        getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTAccessExpiry:  getDuration("JWT_ACCESS_EXPIRY", 720*time.Hour), // 30 days
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		Location:         getLocation("TIMEZONE"),
		ReminderInterval: getDuration("REMINDER_CHECK_INTERVAL", 15*time.Minute),

		TelegramToken:       getEnv("TELEGRAM_TOKEN", ""),
		FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS", ""),
		GoogleProjectID:     getEnv("GOOGLE_PROJECT_ID", ""),
		GooglePubSubTopic:   getEnv("GOOGLE_PUBSUB_TOPIC", "reminder-events"),
		GoogleCredentials:   getEnv("GOOGLE_CREDENTIALS", ""),

		ChromaURL:      getEnv("CHROMA_URL", ""),
		ChromaAPIKey:   getEnv("CHROMA_API_KEY", ""),
		ChromaTenant:   getEnv("CHROMA_TENANT", ""),
		ChromaDatabase: getEnv("CHROMA_DATABASE", ""),
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),

		SettingsFile: getEnv("SETTINGS_FILE", "bot_settings.json"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		log.Printf("[Config] Invalid %s=%q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

// getLocation falls back to the host's local zone when the variable is unset
// or names an unknown zone
func getLocation(key string) *time.Location {
	name := os.Getenv(key)
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("[Config] Unknown %s=%q, using local time: %v", key, name, err)
		return time.Local
	}
	return loc
}
