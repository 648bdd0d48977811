package main

import (
	"context"
	"expvar"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"spanco/internal/assets"
	"spanco/internal/auth"
	"spanco/internal/cache"
	"spanco/internal/domain/catalog"
	"spanco/internal/domain/storage"
	"spanco/internal/metrics"
	"spanco/internal/ratelimiter"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoadRateLimiterConfig retrieves rate limiter settings from environment variables
func LoadRateLimiterConfig() ratelimiter.Config {
	return ratelimiter.Config{
		RequestsPerTimeFrame: envInt("RATELIMITER_REQUESTS_COUNT", 200),
		TimeFrame:            5 * time.Second,
		Enabled:              envBool("RATE_LIMITER_ENABLED", false),
	}
}

// NewLogger creates a new zap logger with color.
func NewLogger(level string) (*zap.SugaredLogger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	consoleEncoder := zapcore.NewConsoleEncoder(encoderCfg)

	lvl := zapcore.InfoLevel
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", level, err)
		}
	}

	core := zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), lvl)

	return zap.New(core).Sugar(), nil
}

func envString(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func envInt(key string, fallback int) int {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		fmt.Printf("Invalid %s, defaulting to %d\n", key, fallback)
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		fmt.Printf("Invalid %s, defaulting to %t\n", key, fallback)
		return fallback
	}
	return b
}

func envDuration(key string, fallback time.Duration) time.Duration {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		fmt.Printf("Invalid %s, defaulting to %s\n", key, fallback)
		return fallback
	}
	return d
}

// loadConfig reads the process environment once. PORT is honoured when ADDR is unset.
func loadConfig() config {
	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":" + envString("PORT", "5000")
	}

	return config{
		addr:     addr,
		env:      envString("ENV", "development"),
		apiURL:   envString("EXTERNAL_URL", "localhost"+addr),
		logLevel: os.Getenv("LOG_LEVEL"),
		db: dbConfig{
			driver:        envString("DB_DRIVER", "mongo"),
			mongoURI:      envString("MONGODB_URI", "mongodb://localhost:27017/spanco"),
			mongoDatabase: envString("MONGODB_DATABASE", "spanco"),
			addr:          os.Getenv("DB_ADDR"),
			maxOpenConns:  envInt("DB_MAX_OPEN_CONNS", 30),
			maxIdleTime:   envString("DB_MAX_IDLE_TIME", "15m"),
		},
		assets: assetsConfig{
			driver:        envString("ASSET_DRIVER", "cloudinary"),
			cloudinaryURL: os.Getenv("CLOUDINARY_URL"),
			s3Bucket:      os.Getenv("ASSET_S3_BUCKET"),
			s3Region:      os.Getenv("ASSET_S3_REGION"),
			s3Endpoint:    os.Getenv("ASSET_S3_ENDPOINT"),
			s3PublicURL:   os.Getenv("ASSET_S3_PUBLIC_URL"),
			s3AccessKey:   os.Getenv("ASSET_S3_ACCESS_KEY"),
			s3SecretKey:   os.Getenv("ASSET_S3_SECRET_KEY"),
		},
		cache: cacheConfig{
			redisAddr:     os.Getenv("REDIS_ADDR"),
			redisPassword: os.Getenv("REDIS_PASSWORD"),
			redisDB:       envInt("REDIS_DB", 0),
			ttl:           envDuration("CACHE_TTL", 2*time.Minute),
		},
		auth: authConfig{
			basic: basicConfig{
				user: os.Getenv("AUTH_BASIC_USER"),
				pass: os.Getenv("AUTH_BASIC_PASS"),
			},
			token: tokenConfig{
				secret: os.Getenv("AUTH_TOKEN_SECRET"),
				exp:    envDuration("AUTH_TOKEN_EXP", time.Hour*24*3), // 3 days
				iss:    envString("AUTH_TOKEN_ISS", "spanco"),
			},
		},
		rateLimiter: LoadRateLimiterConfig(),
	}
}

var version = "1.0.0"

//	@title			Spanco Catalog API
//	@description	Catalog backend: categories, subcategories, lab categories and products.

//	@contact.name	API Support

//	@BasePath					/api
//	@securityDefinitions.apikey	ApiKeyAuth
//	@in							header
//	@name						Authorization
//	@description

func main() {
	envErr := godotenv.Load()

	cfg := loadConfig()

	logger, err := NewLogger(cfg.logLevel)
	if err != nil {
		fmt.Println("Error creating logger:", err)
		return
	}
	defer logger.Sync()

	if envErr != nil {
		logger.Infow("no .env file loaded, using process environment", "error", envErr)
	}
	if cfg.auth.token.secret == "" {
		logger.Fatal("AUTH_TOKEN_SECRET must be set")
	}

	ctx := context.Background()

	// Storage
	store, err := storage.Open(ctx, storage.Config{
		Driver:        cfg.db.driver,
		MongoURI:      cfg.db.mongoURI,
		MongoDatabase: cfg.db.mongoDatabase,
		Addr:          cfg.db.addr,
		MaxOpenConns:  cfg.db.maxOpenConns,
		MaxIdleTime:   cfg.db.maxIdleTime,
	})
	if err != nil {
		logger.Fatal(err)
	}
	defer store.Close(context.Background())
	logger.Infow("storage connection established", "driver", cfg.db.driver)

	// Assets
	assetStore, err := assets.Open(ctx, assets.Config{
		Driver:        cfg.assets.driver,
		CloudinaryURL: cfg.assets.cloudinaryURL,
		S3: assets.S3Config{
			Bucket:    cfg.assets.s3Bucket,
			Region:    cfg.assets.s3Region,
			Endpoint:  cfg.assets.s3Endpoint,
			PublicURL: cfg.assets.s3PublicURL,
			AccessKey: cfg.assets.s3AccessKey,
			SecretKey: cfg.assets.s3SecretKey,
		},
	})
	if err != nil {
		logger.Fatal(err)
	}

	// Cache
	var productCache cache.Cache = cache.Noop{}
	if cfg.cache.redisAddr != "" {
		rdb, err := cache.Dial(ctx, cfg.cache.redisAddr, cfg.cache.redisPassword, cfg.cache.redisDB)
		if err != nil {
			logger.Fatal(err)
		}
		defer rdb.Close()
		productCache = cache.NewRedis(rdb, "spanco:")
		catalog.ProductCacheTTL = cfg.cache.ttl
		logger.Infow("redis cache enabled", "addr", cfg.cache.redisAddr)
	}

	// Rate limiter
	rateLimiter := ratelimiter.NewFixedWindowLimiter(
		cfg.rateLimiter.RequestsPerTimeFrame,
		cfg.rateLimiter.TimeFrame,
	)
	defer rateLimiter.Stop()

	// Authenticator
	jwtAuthenticator := auth.NewJWTAuthenticator(
		cfg.auth.token.secret,
		cfg.auth.token.iss,
		cfg.auth.token.iss,
		cfg.auth.token.exp,
	)

	app := &application{
		config:        cfg,
		catalog:       catalog.NewService(store.Catalog, assetStore, productCache, logger),
		users:         store.Users,
		logger:        logger,
		authenticator: jwtAuthenticator,
		rateLimiter:   rateLimiter,
		metrics:       metrics.New(),
	}

	//Metrics collected http://localhost:5000/api/debug/vars
	expvar.NewString("version").Set(version)
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.mount()

	if err := app.run(mux); err != nil {
		logger.Fatal(err)
	}
}
