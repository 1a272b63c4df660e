package config

import (
	"errors"
	"log"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// 用于管理应用配置

const (
	defaultJWTSecret = "astrapix_secret"
	envPrefix        = "ASTRAPIX"
)

var (
	// 使用 atomic.Value 存储 *Config，实现无锁读取
	appConfig atomic.Value
	configMu  sync.Mutex // 仅用于写操作互斥
	configDir = "config"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	SMTP      SMTPConfig      `mapstructure:"smtp"`
	Redis     RedisConfig     `mapstructure:"redis"`
	OTP       OTPConfig       `mapstructure:"otp"`
	Google    GoogleConfig    `mapstructure:"google"`
	Payment   PaymentConfig   `mapstructure:"payment"`
	ImageGen  ImageGenConfig  `mapstructure:"imagegen"`
	Storage   StorageConfig   `mapstructure:"storage"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Credits   CreditsConfig   `mapstructure:"credits"`
	Captcha   CaptchaConfig   `mapstructure:"captcha"`
}

type ServerConfig struct {
	Port           string `mapstructure:"port"`
	Mode           string `mapstructure:"mode"`
	FrontendURL    string `mapstructure:"frontend_url"`
	TrustedProxies string `mapstructure:"trusted_proxies"`
	MaxBodyBytes   int64  `mapstructure:"max_body_bytes"`
}

type DatabaseConfig struct {
	Type     string `mapstructure:"type"`     // sqlite, mysql, postgres
	Filename string `mapstructure:"filename"` // for sqlite
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"` // database name
	SSL      bool   `mapstructure:"ssl"`  // enable TLS/SSL
}

type JWTConfig struct {
	Secret          string `mapstructure:"secret"`
	ExpirationHours int    `mapstructure:"expiration_hours"`
}

type SMTPConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	SSL      bool   `mapstructure:"ssl"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type OTPConfig struct {
	TTLMinutes            int `mapstructure:"ttl_minutes"`
	VerifiedMarkerMinutes int `mapstructure:"verified_marker_minutes"`
}

type GoogleConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURL  string `mapstructure:"redirect_url"`
}

// Plan 是服务端定义的充值套餐，订单金额与积分只由这里决定。
type Plan struct {
	ID          string `mapstructure:"id" json:"id"`
	Name        string `mapstructure:"name" json:"name"`
	AmountMinor int64  `mapstructure:"amount_minor" json:"amount"`
	Credits     int64  `mapstructure:"credits" json:"credits"`
}

type PaymentConfig struct {
	KeyID     string `mapstructure:"key_id"`
	KeySecret string `mapstructure:"key_secret"`
	BaseURL   string `mapstructure:"base_url"`
	Currency  string `mapstructure:"currency"`
	Plans     []Plan `mapstructure:"plans"`
}

type ImageGenConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
	Size    string `mapstructure:"size"`
}

type StorageConfig struct {
	Driver        string `mapstructure:"driver"` // local, s3
	LocalDir      string `mapstructure:"local_dir"`
	URLPrefix     string `mapstructure:"url_prefix"`
	Bucket        string `mapstructure:"bucket"`
	Region        string `mapstructure:"region"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PublicBaseURL string `mapstructure:"public_base_url"`
	Prefix        string `mapstructure:"prefix"`
	CacheControl  string `mapstructure:"cache_control"` // 本地存储静态访问的缓存策略
}

type RateLimitConfig struct {
	Enabled       bool    `mapstructure:"enabled"`
	AuthRPS       float64 `mapstructure:"auth_rps"`
	AuthBurst     int     `mapstructure:"auth_burst"`
	GenerateRPS   float64 `mapstructure:"generate_rps"`
	GenerateBurst int     `mapstructure:"generate_burst"`
	// OTPIntervalSeconds 同一 IP 两次发送验证码的最小间隔
	OTPIntervalSeconds int `mapstructure:"otp_interval_seconds"`
}

type CreditsConfig struct {
	SignupBonus int64 `mapstructure:"signup_bonus"`
}

type CaptchaConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Get 获取当前配置的快照（高性能无锁）
func Get() Config {
	val := appConfig.Load()
	if val == nil {
		return Config{}
	}
	c, ok := val.(*Config)
	if !ok {
		return Config{}
	}
	return *c
}

// Set 直接替换当前配置，主要供测试使用。
func Set(cfg Config) {
	configMu.Lock()
	defer configMu.Unlock()
	appConfig.Store(&cfg)
}

func GetConfigDir() string {
	return configDir
}

func InitConfig(customConfigDir string) {
	// .env 仅用于本地开发，缺失时静默跳过
	_ = godotenv.Load()

	v := initViper(customConfigDir)
	loadAndStore(v)
	enforceJWTSecretSafety()
	log.Println("✅ 配置加载成功")
}

func initViper(customConfigDir string) *viper.Viper {
	v := viper.New()

	customConfigDir = strings.TrimSpace(customConfigDir)
	if customConfigDir == "" {
		customConfigDir = "config"
	}
	configDir = customConfigDir

	v.AddConfigPath(configDir)
	v.AddConfigPath(".")
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			log.Println("⚠️  未找到配置文件，将仅使用环境变量或默认值")
		} else {
			log.Fatalf("❌ 读取配置文件失败: %v", err)
		}
	}

	// 规则：所有环境变量必须以 ASTRAPIX_ 开头
	// 例如：yaml 中的 server.port 对应环境变量 ASTRAPIX_SERVER_PORT
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.frontend_url", "http://localhost:5173")
	v.SetDefault("server.trusted_proxies", "")
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.filename", "database/astrapix.db")
	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", "3306")
	v.SetDefault("database.user", "root")
	v.SetDefault("database.password", "root")
	v.SetDefault("database.name", "astrapix")
	v.SetDefault("database.ssl", false)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration_hours", 24)
	v.SetDefault("smtp.enabled", false)
	v.SetDefault("smtp.host", "")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.username", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.from", "")
	v.SetDefault("smtp.ssl", false)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "astrapix")
	v.SetDefault("otp.ttl_minutes", 10)
	v.SetDefault("otp.verified_marker_minutes", 30)
	v.SetDefault("google.redirect_url", "http://localhost:8080/auth/google/callback")
	v.SetDefault("payment.base_url", "https://api.razorpay.com/v1")
	v.SetDefault("payment.currency", "INR")
	v.SetDefault("payment.plans", []map[string]interface{}{
		{"id": "basic", "name": "Basic", "amount_minor": 10000, "credits": 100},
		{"id": "advanced", "name": "Advanced", "amount_minor": 50000, "credits": 500},
		{"id": "business", "name": "Business", "amount_minor": 250000, "credits": 5000},
	})
	v.SetDefault("imagegen.base_url", "https://api.openai.com/v1")
	v.SetDefault("imagegen.model", "dall-e-3")
	v.SetDefault("imagegen.size", "1024x1024")
	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.local_dir", "uploads/generations")
	v.SetDefault("storage.url_prefix", "/media/")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.prefix", "generations")
	v.SetDefault("storage.cache_control", "public, max-age=31536000, immutable")
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.auth_rps", 0.5)
	v.SetDefault("rate_limit.auth_burst", 10)
	v.SetDefault("rate_limit.generate_rps", 0.2)
	v.SetDefault("rate_limit.generate_burst", 3)
	v.SetDefault("rate_limit.otp_interval_seconds", 30)
	v.SetDefault("credits.signup_bonus", 10)
	v.SetDefault("captcha.enabled", false)
}

// loadAndStore 解析并原子更新配置
func loadAndStore(v *viper.Viper) {
	configMu.Lock()
	defer configMu.Unlock()

	var tempConfig Config
	if err := v.Unmarshal(&tempConfig); err != nil {
		log.Printf("❌ 配置解析失败: %v", err)
		return
	}

	if tempConfig.Server.Mode != "release" && tempConfig.JWT.Secret == "" {
		log.Println("⚠️ [开发模式警告] 未设置 JWT Secret，将使用默认不安全密钥进行开发")
		tempConfig.JWT.Secret = defaultJWTSecret
	}

	appConfig.Store(&tempConfig)
}

func enforceJWTSecretSafety() {
	curr := Get()
	if curr.Server.Mode == "release" {
		if curr.JWT.Secret == "" || curr.JWT.Secret == defaultJWTSecret {
			log.Fatal("❌ [安全严重错误] 生产模式(release)下必须设置安全的 JWT Secret！\n请设置环境变量 ASTRAPIX_JWT_SECRET 或在配置文件中指定 jwt.secret")
		}
	}
}

// FindPlan 按 ID 查找充值套餐。
func (c PaymentConfig) FindPlan(id string) (Plan, bool) {
	for _, p := range c.Plans {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}
