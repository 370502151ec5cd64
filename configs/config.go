package configs

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port     string `envconfig:"PORT" default:"8080"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	MongoURI  string `envconfig:"MONGODB_URI" default:"mongodb://localhost:27017"`
	MongoName string `envconfig:"MONGODB_NAME" default:"poonam_cosmetics"`

	JWTSecret string        `envconfig:"JWT_SECRET" default:"changeme"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"168h"`

	// CronSecret gates the auto-cancel sweep endpoint.
	CronSecret string `envconfig:"CRON_SECRET" default:"changeme"`

	AdminEmail    string `envconfig:"ADMIN_EMAIL"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD"`
}

func LoadConfig() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
