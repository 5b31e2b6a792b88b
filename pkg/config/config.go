package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config carries every site-wide knob explicitly. Components receive it
// (or the slice of it they need) at construction time; nothing reads the
// environment after startup.
type Config struct {
	ServerPort      string
	Environment     string
	FirebaseProject string
	FirebaseApiKey  string
	StorageBucket   string

	MidtransServerKey   string
	MidtransClientKey   string
	MidtransEnvironment string

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	MailFrom string

	AdminEmail string

	// Commission = total * tier rate + flat fee.
	CommissionRateFree     float64
	CommissionRatePro      float64
	CommissionRateFeatured float64
	CommissionFlatFee      float64

	// Tolerated gap, in percent, between the client-submitted total and
	// the server-side price calculation before a booking is rejected.
	PriceTolerancePercent float64

	// Days past the event date before held escrow is force-released
	// without the customer's confirmation.
	AutoReleaseDays int

	ReminderDaysShort int
	ReminderDaysLong  int

	// Default bid deadline: event date minus this many days.
	BidDeadlineDays int
	MaxBidsPerEvent int

	// Achievement level cutoffs, compared top-down.
	LevelPlatinum int
	LevelGold     int
	LevelSilver   int

	SubscriptionPriceProMonthly      float64
	SubscriptionPriceProAnnual       float64
	SubscriptionPriceFeaturedMonthly float64
	SubscriptionPriceFeaturedAnnual  float64
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		FirebaseProject: getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseApiKey:  getEnv("FIREBASE_API_KEY", ""),
		StorageBucket:   getEnv("STORAGE_BUCKET", ""),

		MidtransServerKey:   getEnv("MIDTRANS_SERVER_KEY", ""),
		MidtransClientKey:   getEnv("MIDTRANS_CLIENT_KEY", ""),
		MidtransEnvironment: getEnv("MIDTRANS_ENVIRONMENT", "sandbox"),

		SMTPHost: getEnv("SMTP_HOST", ""),
		SMTPPort: getEnv("SMTP_PORT", "587"),
		SMTPUser: getEnv("SMTP_USER", ""),
		SMTPPass: getEnv("SMTP_PASS", ""),
		MailFrom: getEnv("MAIL_FROM", "no-reply@gigstage.app"),

		AdminEmail: getEnv("ADMIN_EMAIL", "admin@gigstage.app"),

		CommissionRateFree:     getEnvAsFloat("COMMISSION_RATE_FREE", 0.15),
		CommissionRatePro:      getEnvAsFloat("COMMISSION_RATE_PRO", 0.10),
		CommissionRateFeatured: getEnvAsFloat("COMMISSION_RATE_FEATURED", 0.08),
		CommissionFlatFee:      getEnvAsFloat("COMMISSION_FLAT_FEE", 0),

		PriceTolerancePercent: getEnvAsFloat("PRICE_TOLERANCE_PERCENT", 1.0),

		AutoReleaseDays:   getEnvAsInt("AUTO_RELEASE_DAYS", 7),
		ReminderDaysShort: getEnvAsInt("REMINDER_DAYS_SHORT", 1),
		ReminderDaysLong:  getEnvAsInt("REMINDER_DAYS_LONG", 7),

		BidDeadlineDays: getEnvAsInt("BID_DEADLINE_DAYS", 3),
		MaxBidsPerEvent: getEnvAsInt("MAX_BIDS_PER_EVENT", 10),

		LevelPlatinum: getEnvAsInt("ACHIEVEMENT_LEVEL_PLATINUM", 500),
		LevelGold:     getEnvAsInt("ACHIEVEMENT_LEVEL_GOLD", 250),
		LevelSilver:   getEnvAsInt("ACHIEVEMENT_LEVEL_SILVER", 100),

		SubscriptionPriceProMonthly:      getEnvAsFloat("SUBSCRIPTION_PRICE_PRO_MONTHLY", 19),
		SubscriptionPriceProAnnual:       getEnvAsFloat("SUBSCRIPTION_PRICE_PRO_ANNUAL", 190),
		SubscriptionPriceFeaturedMonthly: getEnvAsFloat("SUBSCRIPTION_PRICE_FEATURED_MONTHLY", 49),
		SubscriptionPriceFeaturedAnnual:  getEnvAsFloat("SUBSCRIPTION_PRICE_FEATURED_ANNUAL", 490),
	}

	return config, nil
}

// CommissionRate returns the rate for a performer tier, falling back to
// the free tier for unknown values.
func (c *Config) CommissionRate(tier string) float64 {
	switch tier {
	case "pro":
		return c.CommissionRatePro
	case "featured":
		return c.CommissionRateFeatured
	default:
		return c.CommissionRateFree
	}
}

func (c *Config) SubscriptionPrice(tier, plan string) float64 {
	switch {
	case tier == "pro" && plan == "monthly":
		return c.SubscriptionPriceProMonthly
	case tier == "pro" && plan == "annual":
		return c.SubscriptionPriceProAnnual
	case tier == "featured" && plan == "monthly":
		return c.SubscriptionPriceFeaturedMonthly
	case tier == "featured" && plan == "annual":
		return c.SubscriptionPriceFeaturedAnnual
	}
	return 0
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.Atoi(value)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		floatValue, err := strconv.ParseFloat(value, 64)
		if err == nil {
			return floatValue
		}
	}
	return defaultValue
}
