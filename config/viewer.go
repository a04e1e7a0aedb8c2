package config

import (
	"log"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	viewerOnce   sync.Once
	viewerConfig *ViewerConfig
)

// ViewerConfig 查看器服务配置。环境变量优先，
// VIEWER_CONFIG_FILE 指向的 YAML 文件可整体覆盖默认值。
type ViewerConfig struct {
	ListenAddr  string `yaml:"listenAddr"`
	StorageType string `yaml:"storageType"` // memory | minio
	QueueType   string `yaml:"queueType"`   // inline | asynq
	// MaxFileSize 单个文档的字节上限
	MaxFileSize int64 `yaml:"maxFileSize"`
	// ImageMaxWidth 内联图片的最大宽度，超出按比例缩小
	ImageMaxWidth int `yaml:"imageMaxWidth"`
	// Concurrency 转换工作器并发度
	Concurrency int `yaml:"concurrency"`
	// EmbeddedMode 为真时监听宿主消息通道
	EmbeddedMode bool `yaml:"embeddedMode"`
	// StagingSweepInterval 孤儿暂存对象的回收周期
	StagingSweepInterval time.Duration `yaml:"stagingSweepInterval"`
	// StagingTTL 暂存对象的最长存活时间，超过即视为孤儿
	StagingTTL time.Duration `yaml:"stagingTTL"`
}

func GetViewerConfig() *ViewerConfig {
	viewerOnce.Do(func() {
		loadEnv()

		viewerConfig = &ViewerConfig{
			ListenAddr:    getEnv("VIEWER_LISTEN_ADDR", ":8080"),
			StorageType:   getEnv("VIEWER_STORAGE_TYPE", "memory"),
			QueueType:     getEnv("VIEWER_QUEUE_TYPE", "inline"),
			MaxFileSize:   getEnvInt64("VIEWER_MAX_FILE_SIZE", 50*1024*1024),
			ImageMaxWidth: getEnvInt("VIEWER_IMAGE_MAX_WIDTH", 1280),
			Concurrency:   getEnvInt("VIEWER_CONCURRENCY", 5),
			EmbeddedMode:  getEnvBool("VIEWER_EMBEDDED_MODE", false),

			StagingSweepInterval: getEnvDuration("VIEWER_STAGING_SWEEP_INTERVAL", 10*time.Minute),
			StagingTTL:           getEnvDuration("VIEWER_STAGING_TTL", time.Hour),
		}

		if path := os.Getenv("VIEWER_CONFIG_FILE"); path != "" {
			data, err := os.ReadFile(path)
			if err != nil {
				log.Printf("Warning: cannot read config file %s: %v", path, err)
				return
			}
			if err := yaml.Unmarshal(data, viewerConfig); err != nil {
				log.Printf("Warning: cannot parse config file %s: %v", path, err)
			}
		}
	})
	return viewerConfig
}
