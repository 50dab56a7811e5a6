package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/blues/arbigrants/internal/logger"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Llama    LlamaConfig    `mapstructure:"llama"`
	Task     TaskConfig     `mapstructure:"task"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
	// MaxUploadMB 单次提交允许的 multipart 内存上限
	MaxUploadMB int64 `mapstructure:"max_upload_mb"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	LogLevel string `mapstructure:"log_level"` // silent, error, warn, info
}

// StorageConfig S3 兼容对象存储配置
type StorageConfig struct {
	Driver          string        `mapstructure:"driver"`            // s3 或 memory (本地开发)
	Endpoint        string        `mapstructure:"endpoint"`          // 为空时使用 AWS 默认端点
	Region          string        `mapstructure:"region"`            // 区域
	Bucket          string        `mapstructure:"bucket"`            // logo 存储桶
	AccessKeyID     string        `mapstructure:"access_key_id"`     // 访问密钥
	SecretAccessKey string        `mapstructure:"secret_access_key"` // 访问密钥
	ForcePathStyle  bool          `mapstructure:"force_path_style"`  // MinIO/Supabase 等需要 path-style
	PublicBaseURL   string        `mapstructure:"public_base_url"`   // 公开访问前缀
	StagingTTL      time.Duration `mapstructure:"staging_ttl"`       // 暂存对象保留时间
}

// LlamaConfig DefiLlama 元数据接口配置
type LlamaConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"` // 0 表示不设置超时
}

type TaskConfig struct {
	Interval int `mapstructure:"interval"` // 秒
	Workers  int `mapstructure:"workers"`  // 清理任务并发数
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // 日志级别: debug, info, warn, error, fatal
	Output string `mapstructure:"output"` // 输出目标: stdout, stderr, file
	File   string `mapstructure:"file"`   // 日志文件路径（当output为file时使用）
}

// GetLevel 实现 logger.LogConfig 接口
func (l LogConfig) GetLevel() string {
	return l.Level
}

// GetOutput 实现 logger.LogConfig 接口
func (l LogConfig) GetOutput() string {
	return l.Output
}

// GetFile 实现 logger.LogConfig 接口
func (l LogConfig) GetFile() string {
	return l.File
}

// SetDefaults 注册默认值，Load 与测试共用
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.max_upload_mb", 8)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "arbigrants")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.log_level", "silent")
	v.SetDefault("storage.driver", "s3")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.bucket", "arb_logos")
	v.SetDefault("storage.access_key_id", "")
	v.SetDefault("storage.secret_access_key", "")
	v.SetDefault("storage.force_path_style", true)
	v.SetDefault("storage.public_base_url", "")
	v.SetDefault("storage.staging_ttl", "1h")
	v.SetDefault("llama.base_url", "https://api.llama.fi")
	v.SetDefault("llama.timeout", "0s")
	v.SetDefault("task.interval", 600)
	v.SetDefault("task.workers", 4)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.file", "logs/app.log")
}

// Load 读取配置文件与 ARBIGRANTS_ 前缀的环境变量
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/arbigrants")
	}

	SetDefaults(v)

	// 密钥类配置通过环境变量注入，例如 ARBIGRANTS_DATABASE_PASSWORD
	v.SetEnvPrefix("arbigrants")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// 显式指定的配置文件必须存在
		if path != "" {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		logger.Warn("Could not read config file: %v", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	return &config, nil
}
