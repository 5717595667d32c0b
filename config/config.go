package config

import (
	"log"

	"github.com/shyamprakash123/sri-vijaya-lakshmi-agency-web-sub000/internal/models"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Payment  PaymentConfig
	Pricing  PricingConfig
	Defaults DefaultsConfig
	Site     models.SiteInfo
}

type ServerConfig struct {
	Port               string
	Env                string
	JWTSecret          string `mapstructure:"jwt_secret"`
	JWTExpirationHours int    `mapstructure:"jwt_expiration_hours"`
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	URL      string
}

type PaymentConfig struct {
	PayeeVPA   string `mapstructure:"payee_vpa"`
	PayeeName  string `mapstructure:"payee_name"`
	NoteSecret string `mapstructure:"note_secret"`
	// ConfirmToken authenticates the payment-verification automation;
	// confirmations are rejected outright while it is unset.
	ConfirmToken string `mapstructure:"confirm_token"`
}

type PricingConfig struct {
	// StrictSlabs rejects quantities no slab covers instead of falling
	// back to the first stored slab.
	StrictSlabs bool `mapstructure:"strict_slabs"`
}

type DefaultsConfig struct {
	AdminEmail     string `mapstructure:"admin_email"`
	AdminPassword  string `mapstructure:"admin_password"`
	OrderPrefix    string `mapstructure:"order_prefix"`
	WhatsappNumber string `mapstructure:"whatsapp_number"`
	CompanyName    string `mapstructure:"company_name"`
	CompanyAddress string `mapstructure:"company_address"`
	CompanyPhone   string `mapstructure:"company_phone"`
}

var AppConfig *Config

func LoadConfig() {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	// Read .env file
	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, checking environment variables: %v", err)
	}

	// Enable reading from OS environment variables as fallback/override
	viper.AutomaticEnv()

	// Explicitly bind environment variables for robustness
	viper.BindEnv("SERVER_PORT", "PORT") // Fallback to PORT if SERVER_PORT is missing
	viper.BindEnv("DATABASE_URL")

	AppConfig = &Config{
		Server: ServerConfig{
			Port:               viper.GetString("SERVER_PORT"),
			Env:                viper.GetString("SERVER_ENV"),
			JWTSecret:          viper.GetString("JWT_SECRET"),
			JWTExpirationHours: viper.GetInt("JWT_EXPIRATION_HOURS"),
		},
		Database: DatabaseConfig{
			Driver:   viper.GetString("DB_DRIVER"),
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
			URL:      viper.GetString("DATABASE_URL"),
		},
		Payment: PaymentConfig{
			PayeeVPA:     viper.GetString("UPI_PAYEE_VPA"),
			PayeeName:    viper.GetString("UPI_PAYEE_NAME"),
			NoteSecret:   viper.GetString("UPI_NOTE_SECRET"),
			ConfirmToken: viper.GetString("UPI_CONFIRM_TOKEN"),
		},
		Pricing: PricingConfig{
			StrictSlabs: viper.GetBool("PRICING_STRICT_SLABS"),
		},
		Defaults: DefaultsConfig{
			AdminEmail:     viper.GetString("ADMIN_EMAIL"),
			AdminPassword:  viper.GetString("ADMIN_PASSWORD"),
			OrderPrefix:    viper.GetString("ORDER_PREFIX"),
			WhatsappNumber: viper.GetString("WHATSAPP_NUMBER"),
			CompanyName:    viper.GetString("COMPANY_NAME"),
			CompanyAddress: viper.GetString("COMPANY_ADDRESS"),
			CompanyPhone:   viper.GetString("COMPANY_PHONE"),
		},
	}

	if AppConfig.Defaults.OrderPrefix == "" {
		AppConfig.Defaults.OrderPrefix = "SVL"
	}

	// Load TOML Config for Site Info
	siteViper := viper.New()
	siteViper.SetConfigFile("config/config.toml")
	siteViper.SetConfigType("toml")
	if err := siteViper.ReadInConfig(); err != nil {
		log.Printf("Warning: config/config.toml not found, using empty site info: %v", err)
	} else {
		if err := siteViper.UnmarshalKey("site", &AppConfig.Site); err != nil {
			log.Printf("Error: Failed to unmarshal site info from TOML: %v", err)
		}
	}

	log.Printf("Configuration loaded successfully:")
	log.Printf("- Server Port: %s", AppConfig.Server.Port)
	log.Printf("- Server Env: %s", AppConfig.Server.Env)
	log.Printf("- Database Driver: %s", AppConfig.Database.Driver)
	log.Printf("- Database Name: %s", AppConfig.Database.Name)
	log.Printf("- UPI Payee VPA: %s", func() string {
		if AppConfig.Payment.PayeeVPA != "" {
			return "SET"
		}
		return "NOT SET"
	}())
	log.Printf("- Company Name: %s", AppConfig.Defaults.CompanyName)
}
