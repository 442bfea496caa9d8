package src

import (
	"fmt"

	"video_search_web/src/model"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	LogConfig     model.LogConfig     `envconfig:""`
	ServerConfig  model.ServerConfig  `envconfig:""`
	BackendConfig model.BackendConfig `envconfig:""`
	StorageConfig model.StorageConfig `envconfig:""`
}

func LoadConfig() (*Config, error) {
	var config Config
	err := envconfig.Process("", &config)
	if err != nil {
		return nil, fmt.Errorf("error processing environment configuration: %v", err)
	}

	return &config, nil
}
