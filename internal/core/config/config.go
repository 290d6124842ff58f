package config

import (
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

type AdminHTTP struct {
	Host string
	Port int
}

type App struct {
	Name  string
	Env   string
	HTTP  HTTP
	Admin AdminHTTP
}

type Log struct {
	Level string
	JSON  bool
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type Cache struct {
	OfferTTLSec int `mapstructure:"offerTtlSec"`
}

// Gate 路由分类表 + 重定向目标。留空则用 SetDefaults 的缺省值。
type Gate struct {
	AdminPrefixes  []string `mapstructure:"adminPrefixes"`
	AuthPrefixes   []string `mapstructure:"authPrefixes"`
	PublicPrefixes []string `mapstructure:"publicPrefixes"`
	OnboardingPath string   `mapstructure:"onboardingPath"`

	SignInPath    string `mapstructure:"signInPath"`
	ForbiddenPath string `mapstructure:"forbiddenPath"`
	HomePath      string `mapstructure:"homePath"`
	AdminHomePath string `mapstructure:"adminHomePath"`
}

func (g *Gate) SetDefaults() {
	if len(g.AdminPrefixes) == 0 {
		g.AdminPrefixes = []string{"/admin"}
	}
	if len(g.AuthPrefixes) == 0 {
		g.AuthPrefixes = []string{"/auth"}
	}
	if len(g.PublicPrefixes) == 0 {
		// API 命名空间走自己的鉴权，网关只管页面导航
		g.PublicPrefixes = []string{"/offers", "/static", "/assets", "/api", "/health", "/favicon.ico"}
	}
	if g.OnboardingPath == "" {
		g.OnboardingPath = "/onboarding"
	}
	if g.SignInPath == "" {
		g.SignInPath = "/auth/sign-in"
	}
	if g.ForbiddenPath == "" {
		g.ForbiddenPath = "/forbidden"
	}
	if g.HomePath == "" {
		g.HomePath = "/"
	}
	if g.AdminHomePath == "" {
		g.AdminHomePath = "/admin"
	}
}

type Config struct {
	App   App
	Log   Log
	JWT   JWT
	DB    DB
	Redis Redis `mapstructure:"redis"`
	Cache Cache `mapstructure:"cache"`
	Gate  Gate  `mapstructure:"gate"`
}

func Load(path string) *Config {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("read config: %v", err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		log.Fatalf("unmarshal config: %v", err)
	}
	c.Gate.SetDefaults()
	if c.Cache.OfferTTLSec <= 0 {
		c.Cache.OfferTTLSec = 60
	}
	return &c
}
