package config

import (
	"log"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Tables struct {
	Schema string
	Sync   string
}

type Kafka struct {
	Brokers []string
	Topic   string
	Group   string
	Workers int
}

type Postgres struct {
	Host     string
	Port     string
	DB       string
	User     string
	Password string
	SSLMode  string
}

type Breaker struct {
	Threshold   uint32
	OpenTimeout time.Duration
	MaxHalfOpen uint32
}

type Retry struct {
	Attempts     int
	Base         time.Duration
	Max          time.Duration
	JitterFactor float64
}

// ERP describes the remote accounting API and the document constants the
// target organisation expects on every created order.
type ERP struct {
	BaseURL      string
	OrgID        int64
	Token        string
	PageSize     int
	WarehouseID  int64
	AnalyticID   int64
	CountryID    int64
	CountryName  string
	CurrencyID   int64
	CurrencyName string
	DefaultUnit  string
}

// RateLimit controls how remote 429 responses are absorbed: one in-client
// retry after Delay, with MaxAttempts capping the total request count.
type RateLimit struct {
	Delay       time.Duration
	MaxAttempts int
}

// Poll controls reconciliation of ambiguous order-create responses.
type Poll struct {
	Attempts   int
	Delay      time.Duration
	FinalDelay time.Duration
}

type Config struct {
	HTTPAddr string
	CacheCap int

	Erp       ERP
	RateLimit RateLimit
	Poll      Poll

	Pg      Postgres
	Tables  Tables
	Kafka   Kafka
	Breaker Breaker
	Retry   Retry
}

// Load keeps the original API and fatals on error for simplicity in main().
func Load() Config {
	cfg, err := load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	return cfg
}

func load() (Config, error) {
	_ = godotenv.Load("env/.env")

	cfg := Config{
		HTTPAddr: envDefault("HTTP_ADDR", ":8081"),
		CacheCap: envInt("CACHE_CAP", 1000),

		Erp: ERP{
			BaseURL:      strings.TrimRight(strings.TrimSpace(os.Getenv("ERP_BASE_URL")), "/"),
			OrgID:        envInt64("ERP_ORG_ID", 0),
			Token:        strings.TrimSpace(os.Getenv("ERP_TOKEN")),
			PageSize:     envInt("ERP_PAGE_SIZE", 10000),
			WarehouseID:  envInt64("ERP_WAREHOUSE_ID", 0),
			AnalyticID:   envInt64("ERP_ANALYTIC_ID", 0),
			CountryID:    envInt64("ERP_COUNTRY_ID", 3),
			CountryName:  envDefault("ERP_COUNTRY_NAME", "RS"),
			CurrencyID:   envInt64("ERP_CURRENCY_ID", 2),
			CurrencyName: envDefault("ERP_CURRENCY_NAME", "RSD"),
			DefaultUnit:  envDefault("ERP_DEFAULT_UNIT", "kom"),
		},

		RateLimit: RateLimit{
			// One in-client retry; the sync engine contributes at most one
			// more submit round, keeping the system-wide cap at three.
			Delay:       envDurationMS("RATELIMIT_DELAY", 2*time.Second),
			MaxAttempts: envInt("RATELIMIT_MAXATTEMPTS", 2),
		},

		Poll: Poll{
			Attempts:   envInt("POLL_ATTEMPTS", 3),
			Delay:      envDurationMS("POLL_DELAY", 2*time.Second),
			FinalDelay: envDurationMS("POLL_FINALDELAY", 5*time.Second),
		},

		Pg: Postgres{
			Host:     strings.TrimSpace(os.Getenv("PG_HOST")),
			Port:     strings.TrimSpace(envDefault("PG_PORT", "5432")),
			DB:       strings.TrimSpace(os.Getenv("PG_DB")),
			User:     strings.TrimSpace(os.Getenv("PG_USER")),
			Password: strings.TrimSpace(os.Getenv("PG_PASSWORD")),
			SSLMode:  strings.TrimSpace(envDefault("PG_SSLMODE", "disable")),
		},

		Tables: Tables{
			Schema: strings.TrimSpace(os.Getenv("DB_SCHEMA")),
			Sync:   strings.TrimSpace(envDefault("TBL_SYNC", "order_sync")),
		},

		Kafka: Kafka{
			Brokers: splitCSV(strings.TrimSpace(os.Getenv("KAFKA_BROKERS"))),
			Topic:   strings.TrimSpace(os.Getenv("KAFKA_TOPIC")),
			Group:   strings.TrimSpace(os.Getenv("KAFKA_GROUP")),
			Workers: envInt("KAFKA_WORKERS", 10),
		},

		Breaker: Breaker{
			Threshold:   envUint32("BREAKER_THRESHOLD", 5),
			OpenTimeout: envDurationMS("BREAKER_OPENTIMEOUT", 10*time.Second),
			MaxHalfOpen: envUint32("BREAKER_MAXHALFOPEN", 3),
		},

		Retry: Retry{
			Attempts:     envInt("RETRY_ATTEMPTS", 3),
			Base:         envDurationMS("RETRY_BASE", 100*time.Millisecond),
			Max:          envDurationMS("RETRY_MAX", 5*time.Second),
			JitterFactor: envFloat64("RETRY_JITTERFACTOR", 0.3),
		},
	}

	// Validate required envs and basic sanity.
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var missing []string
	req := map[string]string{
		"ERP_BASE_URL":  c.Erp.BaseURL,
		"ERP_ORG_ID":    nonZero(c.Erp.OrgID),
		"ERP_TOKEN":     c.Erp.Token,
		"PG_HOST":       c.Pg.Host,
		"PG_DB":         c.Pg.DB,
		"PG_USER":       c.Pg.User,
		"PG_PASSWORD":   c.Pg.Password,
		"DB_SCHEMA":     c.Tables.Schema,
		"KAFKA_BROKERS": strings.Join(c.Kafka.Brokers, ","),
		"KAFKA_TOPIC":   c.Kafka.Topic,
		"KAFKA_GROUP":   c.Kafka.Group,
	}
	for k, v := range req {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return &missingEnvError{Keys: missing}
	}

	if c.CacheCap <= 0 {
		log.Printf("CACHE_CAP is %d, adjusting to 1", c.CacheCap)
	}
	if c.Erp.PageSize <= 0 {
		log.Printf("ERP_PAGE_SIZE is %d, adjusting to 10000", c.Erp.PageSize)
	}
	if c.RateLimit.MaxAttempts < 1 {
		log.Printf("RATELIMIT_MAXATTEMPTS is %d, adjusting to 1", c.RateLimit.MaxAttempts)
	}
	if c.Poll.Attempts < 0 {
		log.Printf("POLL_ATTEMPTS is %d, adjusting to 0", c.Poll.Attempts)
	}
	if c.Retry.Attempts < 0 {
		log.Printf("RETRY_ATTEMPTS is %d, adjusting to 0", c.Retry.Attempts)
	}
	if c.Retry.Max < c.Retry.Base {
		log.Printf("RETRY_MAX (%v) < RETRY_BASE (%v), adjusting max to base", c.Retry.Max, c.Retry.Base)
	}
	if len(c.Kafka.Brokers) == 0 {
		return &missingEnvError{Keys: []string{"KAFKA_BROKERS"}}
	}
	return nil
}

type missingEnvError struct{ Keys []string }

func (e *missingEnvError) Error() string {
	return "missing required envs: " + strings.Join(e.Keys, ", ")
}

// DSN builds a proper Postgres URL, safely escaping user/pass and query.
func (c Config) DSN() string {
	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.Pg.User, c.Pg.Password),
		Host:   net.JoinHostPort(c.Pg.Host, c.Pg.Port),
		Path:   "/" + c.Pg.DB,
	}
	q := url.Values{}
	if c.Pg.SSLMode != "" {
		q.Set("sslmode", c.Pg.SSLMode)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func nonZero(n int64) string {
	if n == 0 {
		return ""
	}
	return strconv.FormatInt(n, 10)
}

func envDefault(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid %s=%q, using default %d: %v", k, v, def, err)
		return def
	}
	return n
}

func envInt64(k string, def int64) int64 {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Printf("invalid %s=%q, using default %d: %v", k, v, def, err)
		return def
	}
	return n
}

func envUint32(k string, def uint32) uint32 {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	u, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		log.Printf("invalid %s=%q, using default %d: %v", k, v, def, err)
		return def
	}
	return uint32(u)
}

func envFloat64(k string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("invalid %s=%q, using default %.3f: %v", k, v, def, err)
		return def
	}
	return f
}

// envDurationMS supports either plain integer milliseconds ("1500") or
// Go duration strings ("1.5s", "250ms", "2m").
func envDurationMS(k string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	// If it looks like a duration with units, try ParseDuration first.
	if strings.IndexFunc(v, func(r rune) bool { return r < '0' || r > '9' }) != -1 {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("invalid %s=%q, using default %v: %v", k, v, def, err)
			return def
		}
		return d
	}
	// Otherwise treat as milliseconds.
	ms, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid %s=%q, using default %v: %v", k, v, def, err)
		return def
	}
	return time.Duration(ms) * time.Millisecond
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
