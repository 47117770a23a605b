package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host      string `yaml:"host" json:"host"`
	Port      int    `yaml:"port" json:"port"`
	Secret    string `yaml:"secret" json:"secret"`
	JwtExpire int    `yaml:"jwt_expire" json:"jwt_expire"` // minutes
}

type DatabaseConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type LoggerConfig struct {
	Mode       string `yaml:"mode" json:"mode"` // development or production
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System   SysConfig      `yaml:"system" json:"system"`
	Web      WebConfig      `yaml:"web" json:"web"`
	Database DatabaseConfig `yaml:"database" json:"database"`
	Logger   LoggerConfig   `yaml:"logger" json:"logger"`
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "prodorder",
		Location: "UTC",
		Workdir:  "/var/prodorder",
		Debug:    true,
	},
	Web: WebConfig{
		Host:      "0.0.0.0",
		Port:      1816,
		Secret:    "9b6de5cc-0731-4bf1-xpmi-0f568ac9da37",
		JwtExpire: 120,
	},
	Database: DatabaseConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "prodorder",
		User:     "postgres",
		Passwd:   "root",
		MaxConn:  100,
		IdleConn: 10,
	},
	Logger: LoggerConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/prodorder/prodorder.log",
	},
}

func setEnvValue(name string, val *string) {
	if evalue, ok := os.LookupEnv(name); ok {
		*val = evalue
	}
}

func setEnvBoolValue(name string, val *bool) {
	if evalue, ok := os.LookupEnv(name); ok {
		*val = evalue == "true" || evalue == "1" || evalue == "on"
	}
}

// LoadConfig reads the yaml configuration file and applies environment
// variable overrides. A missing file yields the defaults.
func LoadConfig(cfile string) *AppConfig {
	appConfig := DefaultAppConfig
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			appConfig = new(AppConfig)
			if err := yaml.Unmarshal(data, appConfig); err != nil {
				panic(err)
			}
		}
	}

	setEnvValue("PRODORDER_SYSTEM_WORKDIR", &appConfig.System.Workdir)
	setEnvBoolValue("PRODORDER_SYSTEM_DEBUG", &appConfig.System.Debug)

	setEnvValue("PRODORDER_DB_HOST", &appConfig.Database.Host)
	setEnvValue("PRODORDER_DB_NAME", &appConfig.Database.Name)
	setEnvValue("PRODORDER_DB_USER", &appConfig.Database.User)
	setEnvValue("PRODORDER_DB_PWD", &appConfig.Database.Passwd)

	setEnvValue("PRODORDER_WEB_HOST", &appConfig.Web.Host)
	setEnvValue("PRODORDER_WEB_SECRET", &appConfig.Web.Secret)

	setEnvValue("PRODORDER_LOGGER_MODE", &appConfig.Logger.Mode)
	setEnvBoolValue("PRODORDER_LOGGER_FILE_ENABLE", &appConfig.Logger.FileEnable)

	if appConfig.System.Location == "" {
		appConfig.System.Location = "UTC"
	}

	_ = os.MkdirAll(appConfig.System.Workdir, 0o755)
	_ = os.MkdirAll(filepath.Join(appConfig.System.Workdir, "data"), 0o755)

	return appConfig
}
