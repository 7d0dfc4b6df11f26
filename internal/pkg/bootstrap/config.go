// internal/pkg/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"bookhub/internal/pkg/logger"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "configs/config.yaml"

// Config 是整个应用的配置，先读 YAML 文件，再用环境变量覆盖。
type Config struct {
	App        AppConfig        `yaml:"app"`
	Infra      InfraConfig      `yaml:"infra"`
	Auth       AuthConfig       `yaml:"auth"`
	Pricing    PricingConfig    `yaml:"pricing"`
	Mail       MailConfig       `yaml:"mail"`
	Cloudinary CloudinaryConfig `yaml:"cloudinary"`
}

type AppConfig struct {
	Name           string   `yaml:"name"`
	Port           int      `yaml:"port"`
	WorkerPort     int      `yaml:"workerPort"`
	LogLevel       string   `yaml:"logLevel"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

type InfraConfig struct {
	MySQL     MySQLConfig     `yaml:"mysql"`
	Redis     RedisConfig     `yaml:"redis"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Jaeger    JaegerConfig    `yaml:"jaeger"`
	Nacos     NacosConfig     `yaml:"nacos"`
	Lock      LockConfig      `yaml:"lock"`
	Zookeeper ZookeeperConfig `yaml:"zookeeper"`
}

type MySQLConfig struct {
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"maxOpenConns"`
	MaxIdleConns    int           `yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
	SlowThreshold   time.Duration `yaml:"slowThreshold"`
	AutoMigrate     bool          `yaml:"autoMigrate"`
}

type RedisConfig struct {
	Addrs    string `yaml:"addrs"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers         string `yaml:"brokers"`
	EmailTopic      string `yaml:"emailTopic"`
	EmailGroupID    string `yaml:"emailGroupId"`
	DeadLetterTopic string `yaml:"deadLetterTopic"`
}

type JaegerConfig struct {
	Endpoint    string  `yaml:"endpoint"`
	SampleRatio float64 `yaml:"sampleRatio"`
}

type NacosConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Addrs       string `yaml:"addrs"`
	NamespaceID string `yaml:"namespaceId"`
	Group       string `yaml:"group"`
}

type LockConfig struct {
	Driver        string        `yaml:"driver"` // redis | zookeeper
	TTL           time.Duration `yaml:"ttl"`
	MaxWait       time.Duration `yaml:"maxWait"`
	RetryInterval time.Duration `yaml:"retryInterval"`
}

type ZookeeperConfig struct {
	Servers        string        `yaml:"servers"`
	SessionTimeout time.Duration `yaml:"sessionTimeout"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwtSecret"`
	Issuer    string        `yaml:"issuer"`
	Audience  string        `yaml:"audience"`
	TokenTTL  time.Duration `yaml:"tokenTTL"`
}

// DiscountRule 是一条购物车级别的折扣规则，Expression 为 CEL 表达式。
type DiscountRule struct {
	Name          string `yaml:"name"`
	Expression    string `yaml:"expression"`
	Rate          string `yaml:"rate"`
	ResetsLoyalty bool   `yaml:"resetsLoyalty"`
}

type PricingConfig struct {
	Rules []DiscountRule `yaml:"rules"`
}

type MailConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
	FromName string `yaml:"fromName"`
	TLS      bool   `yaml:"tls"`
}

type CloudinaryConfig struct {
	CloudName string `yaml:"cloudName"`
	APIKey    string `yaml:"apiKey"`
	APISecret string `yaml:"apiSecret"`
	Folder    string `yaml:"folder"`
	BaseURL   string `yaml:"baseUrl"`
}

var (
	currentConfig *Config
	initOnce      sync.Once
)

// Init 加载 .env 与配置文件，失败时直接退出进程。
func Init() {
	initOnce.Do(func() {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			logger.L().Warn().Err(err).Msg("failed to load .env file")
		}
		cfg, err := LoadConfig(getEnv("BOOKHUB_CONFIG", defaultConfigPath))
		if err != nil {
			logger.L().Fatal().Err(err).Msg("failed to load configuration")
		}
		currentConfig = cfg
	})
}

// GetCurrentConfig 返回已加载的配置；未调用 Init 时返回默认配置。
func GetCurrentConfig() *Config {
	if currentConfig == nil {
		cfg := Default()
		applyEnvOverrides(cfg)
		return cfg
	}
	return currentConfig
}

// LoadConfig 读取 YAML 文件（文件不存在时使用默认值），再应用环境变量覆盖。
func LoadConfig(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		logger.L().Warn().Str("path", path).Msg("config file not found, using defaults")
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default 返回开发环境下可直接使用的默认配置。
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:           "bookstore-api",
			Port:           8080,
			WorkerPort:     8082,
			LogLevel:       "info",
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		Infra: InfraConfig{
			MySQL: MySQLConfig{
				DSN:             "bookhub:bookhub@tcp(localhost:3306)/bookhub",
				MaxOpenConns:    50,
				MaxIdleConns:    10,
				ConnMaxLifetime: 30 * time.Minute,
				SlowThreshold:   200 * time.Millisecond,
				AutoMigrate:     true,
			},
			Redis:  RedisConfig{Addrs: "localhost:6379"},
			Kafka:  KafkaConfig{Brokers: "localhost:9092", EmailTopic: "order-emails", EmailGroupID: "order-email-group", DeadLetterTopic: "order-emails-dlt"},
			Jaeger: JaegerConfig{Endpoint: "http://localhost:14268/api/traces", SampleRatio: 1},
			Nacos:  NacosConfig{Addrs: "localhost:8848", Group: "DEFAULT_GROUP"},
			Lock: LockConfig{
				Driver:        "redis",
				TTL:           10 * time.Second,
				MaxWait:       3 * time.Second,
				RetryInterval: 50 * time.Millisecond,
			},
			Zookeeper: ZookeeperConfig{Servers: "localhost:2181", SessionTimeout: 5 * time.Second},
		},
		Auth: AuthConfig{
			Issuer:   "bookhub",
			Audience: "bookhub-web",
			TokenTTL: 24 * time.Hour,
		},
		Pricing: PricingConfig{Rules: DefaultDiscountRules()},
		Mail:    MailConfig{Host: "localhost", Port: 587, FromName: "BookHub", TLS: true},
		Cloudinary: CloudinaryConfig{
			Folder:  "bookhub/books",
			BaseURL: "https://api.cloudinary.com/v1_1",
		},
	}
}

// DefaultDiscountRules 是批量购买 5% 与第 10 单忠诚奖励 10% 两条规则。
func DefaultDiscountRules() []DiscountRule {
	return []DiscountRule{
		{Name: "bulk", Expression: "total_quantity >= 5", Rate: "0.05"},
		{Name: "loyalty", Expression: "complete_order_count == 10", Rate: "0.10", ResetsLoyalty: true},
	}
}

// Validate 检查缺一不可的配置项。
func (c *Config) Validate() error {
	var missing []string
	if c.Infra.MySQL.DSN == "" {
		missing = append(missing, "infra.mysql.dsn")
	}
	if len(c.Auth.JWTSecret) < 32 {
		missing = append(missing, "auth.jwtSecret (at least 32 bytes)")
	}
	if c.Auth.TokenTTL <= 0 {
		missing = append(missing, "auth.tokenTTL")
	}
	if d := c.Infra.Lock.Driver; d != "redis" && d != "zookeeper" {
		missing = append(missing, "infra.lock.driver (redis|zookeeper)")
	}
	if len(missing) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

func applyEnvOverrides(c *Config) {
	c.App.Port = getEnvInt("APP_PORT", c.App.Port)
	c.App.WorkerPort = getEnvInt("WORKER_PORT", c.App.WorkerPort)
	c.App.LogLevel = getEnv("LOG_LEVEL", c.App.LogLevel)
	if v := getEnv("ALLOWED_ORIGINS", ""); v != "" {
		c.App.AllowedOrigins = strings.Split(v, ",")
	}

	c.Infra.MySQL.DSN = getEnv("MYSQL_DSN", c.Infra.MySQL.DSN)
	c.Infra.Redis.Addrs = getEnv("REDIS_ADDRS", c.Infra.Redis.Addrs)
	c.Infra.Redis.Password = getEnv("REDIS_PASSWORD", c.Infra.Redis.Password)
	c.Infra.Kafka.Brokers = getEnv("KAFKA_BROKERS", c.Infra.Kafka.Brokers)
	c.Infra.Jaeger.Endpoint = getEnv("JAEGER_ENDPOINT", c.Infra.Jaeger.Endpoint)
	c.Infra.Nacos.Enabled = getEnvBool("NACOS_ENABLED", c.Infra.Nacos.Enabled)
	c.Infra.Nacos.Addrs = getEnv("NACOS_SERVER_ADDRS", c.Infra.Nacos.Addrs)
	c.Infra.Nacos.NamespaceID = getEnv("NACOS_NAMESPACE", c.Infra.Nacos.NamespaceID)
	c.Infra.Nacos.Group = getEnv("NACOS_GROUP", c.Infra.Nacos.Group)
	c.Infra.Lock.Driver = getEnv("LOCK_DRIVER", c.Infra.Lock.Driver)
	c.Infra.Zookeeper.Servers = getEnv("ZOOKEEPER_SERVERS", c.Infra.Zookeeper.Servers)

	c.Auth.JWTSecret = getEnv("JWT_SECRET", c.Auth.JWTSecret)

	c.Mail.Host = getEnv("SMTP_HOST", c.Mail.Host)
	c.Mail.Port = getEnvInt("SMTP_PORT", c.Mail.Port)
	c.Mail.Username = getEnv("SMTP_USERNAME", c.Mail.Username)
	c.Mail.Password = getEnv("SMTP_PASSWORD", c.Mail.Password)
	c.Mail.From = getEnv("SMTP_FROM", c.Mail.From)

	c.Cloudinary.CloudName = getEnv("CLOUDINARY_CLOUD_NAME", c.Cloudinary.CloudName)
	c.Cloudinary.APIKey = getEnv("CLOUDINARY_API_KEY", c.Cloudinary.APIKey)
	c.Cloudinary.APISecret = getEnv("CLOUDINARY_API_SECRET", c.Cloudinary.APISecret)
}

// getEnv 是一个内部辅助函数，从环境变量中读取配置。
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		logger.L().Warn().Str("key", key).Str("value", value).Msg("ignoring non-integer env override")
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}
