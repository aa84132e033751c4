package database

import (
	"github.com/xpwu/go-config/configs"
)

// Config 数据库配置
type Config struct {
	Host     string `conf:"host,数据库地址"`
	Port     int    `conf:"port,数据库端口"`
	User     string `conf:"user,数据库用户名"`
	Password string `conf:"password,数据库密码"`
	DBName   string `conf:"db_name,数据库名称"`
	SSLMode  string `conf:"ssl_mode,SSL模式"`
}

// ConfigValue 数据库配置实例
var ConfigValue = &Config{
	Host:    "localhost",
	Port:    5432,
	User:    "postgres",
	DBName:  "scantrader",
	SSLMode: "disable",
}

// 在包的 init() 函数中注册配置
func init() {
	configs.Unmarshal(ConfigValue)
}
