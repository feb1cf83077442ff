// config/config.go
package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort     string `mapstructure:"APP_PORT"`
	DatabaseURL string `mapstructure:"DB_URL"`
	Env         string `mapstructure:"ENV"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`

	// Business calendar settings.
	Timezone         string `mapstructure:"BUSINESS_TIMEZONE"`
	ReminderInterval string `mapstructure:"REMINDER_INTERVAL"`

	// Twilio credentials for the SMS push channel.
	TwilioAccountSID string `mapstructure:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken  string `mapstructure:"TWILIO_AUTH_TOKEN"`
	TwilioFromNumber string `mapstructure:"TWILIO_PHONE_NUMBER"`
}

var AppConfig Config

// Location is the business's local time zone, resolved once at startup.
var Location *time.Location

func LoadConfig() {
	viper.AutomaticEnv()

	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("BUSINESS_TIMEZONE", "Europe/Oslo")
	viper.SetDefault("REMINDER_INTERVAL", "30m")
	viper.SetDefault("DB_URL", "")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("TWILIO_ACCOUNT_SID", "")
	viper.SetDefault("TWILIO_AUTH_TOKEN", "")
	viper.SetDefault("TWILIO_PHONE_NUMBER", "")

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	loc, err := time.LoadLocation(AppConfig.Timezone)
	if err != nil {
		log.Fatalf("Invalid BUSINESS_TIMEZONE %q: %v", AppConfig.Timezone, err)
	}
	Location = loc
}
