package configs

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/Strmly-Technologies/Delivery-Page-sub000/pkg/geo"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/pkg/timeslot"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver  string
	DBSource  string
	Port      string
	JWTSecret string
	JWTTTL    time.Duration

	// shop location + delivery pricing
	ShopLat         float64
	ShopLng         float64
	MaxRangeKm      float64
	FreeDeliveryMin int64

	// booking windows
	SameDayCutoffHour int
	MinLeadHours      int
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using process env")
	}

	return &Config{
		DBDriver:          getEnv("DB_DRIVER", "sqlite"),
		DBSource:          getEnv("DB_SOURCE", "freshsip.db"),
		Port:              getEnv("PORT", "8000"),
		JWTSecret:         getEnv("JWT_SECRET", "changeme"),
		JWTTTL:            time.Duration(24) * time.Hour,
		ShopLat:           getEnvFloat("SHOP_LAT", 12.9716),
		ShopLng:           getEnvFloat("SHOP_LNG", 77.5946),
		MaxRangeKm:        getEnvFloat("MAX_RANGE_KM", 10),
		FreeDeliveryMin:   int64(getEnvInt("FREE_DELIVERY_MIN", 99)),
		SameDayCutoffHour: getEnvInt("SAME_DAY_CUTOFF_HOUR", 18),
		MinLeadHours:      getEnvInt("SLOT_MIN_LEAD_HOURS", 2),
	}
}

// SlotConfig builds the calendar knobs from env.
func (c *Config) SlotConfig() timeslot.Config {
	return timeslot.Config{SameDayCutoffHour: c.SameDayCutoffHour, MinLeadHours: c.MinLeadHours}
}

// Pricing builds the geofenced fee table. The tier table itself is fixed;
// only the shop point, range and waiver threshold come from env.
func (c *Config) Pricing() (*geo.Pricing, error) {
	tiers := []geo.Tier{
		{UpToKm: 3, Charge: 20},
		{UpToKm: 6, Charge: 40},
		{UpToKm: 10, Charge: 60},
	}
	return geo.NewPricing(geo.Point{Lat: c.ShopLat, Lng: c.ShopLng}, tiers, c.MaxRangeKm, c.FreeDeliveryMin)
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("bad int for %s, using %d", key, fallback)
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("bad float for %s, using %f", key, fallback)
	}
	return fallback
}
