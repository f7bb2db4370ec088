package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host          string `yaml:"host" json:"host"`
	Port          int    `yaml:"port" json:"port"`
	Secret        string `yaml:"secret" json:"secret"`
	AdminPassword string `yaml:"admin_password" json:"-"`
}

type StorageConfig struct {
	// Path to the bbolt datafile; relative paths resolve under Workdir.
	Path string `yaml:"path" json:"path"`
}

type CheckoutConfig struct {
	// ProcessingDelayMs simulates order processing latency before an
	// order is confirmed. Zero disables the delay (tests).
	ProcessingDelayMs int `yaml:"processing_delay_ms" json:"processing_delay_ms"`
	// NoticeTTLMs controls how long a cart "item added" notice stays
	// visible before it auto-clears.
	NoticeTTLMs int `yaml:"notice_ttl_ms" json:"notice_ttl_ms"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System   SysConfig      `yaml:"system" json:"system"`
	Web      WebConfig      `yaml:"web" json:"web"`
	Storage  StorageConfig  `yaml:"storage" json:"storage"`
	Checkout CheckoutConfig `yaml:"checkout" json:"checkout"`
	Logger   LogConfig      `yaml:"logger" json:"logger"`
}

func (c *AppConfig) GetStoragePath() string {
	if filepath.IsAbs(c.Storage.Path) {
		return c.Storage.Path
	}
	return filepath.Join(c.System.Workdir, c.Storage.Path)
}

func (c *AppConfig) ProcessingDelay() time.Duration {
	return time.Duration(c.Checkout.ProcessingDelayMs) * time.Millisecond
}

func (c *AppConfig) NoticeTTL() time.Duration {
	return time.Duration(c.Checkout.NoticeTTLMs) * time.Millisecond
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "casadobolo",
		Location: "America/Bahia",
		Workdir:  "/var/casadobolo",
		Debug:    true,
	},
	Web: WebConfig{
		Host:          "0.0.0.0",
		Port:          1816,
		Secret:        "9b6de5cc-casadobolo-1816-b5aa-web",
		AdminPassword: "casadobolo@admin",
	},
	Storage: StorageConfig{
		Path: "casadobolo.db",
	},
	Checkout: CheckoutConfig{
		ProcessingDelayMs: 2200,
		NoticeTTLMs:       3000,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/casadobolo/casadobolo.log",
	},
}

func setEnvValue(name string, f func(v string)) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		f(evalue)
	}
}

func setEnvBoolValue(name string, f func(v bool)) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		f(evalue == "true" || evalue == "1" || evalue == "on")
	}
}

// LoadConfig reads the YAML config file and applies CASADOBOLO_* environment
// overrides on top. A missing file yields the defaults unchanged.
func LoadConfig(cfile string) *AppConfig {
	cfg := DefaultAppConfig
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			_ = yaml.Unmarshal(data, cfg)
		}
	}

	setEnvValue("CASADOBOLO_SYSTEM_WORKDIR", func(v string) { cfg.System.Workdir = v })
	setEnvBoolValue("CASADOBOLO_SYSTEM_DEBUG", func(v bool) { cfg.System.Debug = v })
	setEnvValue("CASADOBOLO_WEB_HOST", func(v string) { cfg.Web.Host = v })
	setEnvValue("CASADOBOLO_WEB_SECRET", func(v string) { cfg.Web.Secret = v })
	setEnvValue("CASADOBOLO_ADMIN_PASSWORD", func(v string) { cfg.Web.AdminPassword = v })
	setEnvValue("CASADOBOLO_STORAGE_PATH", func(v string) { cfg.Storage.Path = v })
	setEnvValue("CASADOBOLO_LOGGER_MODE", func(v string) { cfg.Logger.Mode = v })

	return cfg
}
