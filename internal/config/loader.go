package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// UIConfig represents the structure of config.yaml
type UIConfig struct {
	Page struct {
		Title       string `yaml:"title"`
		Placeholder string `yaml:"placeholder"`
		ResultLimit int    `yaml:"result_limit"`
	} `yaml:"page"`
	Labels struct {
		Search        string `yaml:"search"`
		TextColumn    string `yaml:"text_column"`
		ImageColumn   string `yaml:"image_column"`
		ShowStats     string `yaml:"show_stats"`
		HideStats     string `yaml:"hide_stats"`
		Loading       string `yaml:"loading"`
		NoStats       string `yaml:"no_stats"`
		NoResults     string `yaml:"no_results"`
		Latency       string `yaml:"latency"`
		ActionPrev    string `yaml:"action_prev"`
		ObsPrev       string `yaml:"observation_prev"`
		CommandRate   string `yaml:"command_success_rate"`
		TrackingError string `yaml:"tracking_error"`
		JointVelocity string `yaml:"joint_velocity_diff"`
	} `yaml:"labels"`
	Format struct {
		Locale            string `yaml:"locale"`
		MaxFractionDigits int    `yaml:"max_fraction_digits"`
	} `yaml:"format"`
}

// DefaultUIConfig returns the built-in page settings
func DefaultUIConfig() *UIConfig {
	var c UIConfig
	c.Page.Title = "영상 검색"
	c.Page.Placeholder = "검색어를 입력하세요..."
	c.Page.ResultLimit = 5
	c.Labels.Search = "검색"
	c.Labels.TextColumn = "텍스트 → 텍스트 결과"
	c.Labels.ImageColumn = "텍스트 → 이미지 결과"
	c.Labels.ShowStats = "통계 보기"
	c.Labels.HideStats = "통계 숨기기"
	c.Labels.Loading = "불러오는 중..."
	c.Labels.NoStats = "통계 데이터가 없습니다."
	c.Labels.NoResults = "결과 없음"
	c.Labels.Latency = "지연 시간 (ms)"
	c.Labels.ActionPrev = "action_prev"
	c.Labels.ObsPrev = "observation_prev"
	c.Labels.CommandRate = "명령 성공률"
	c.Labels.TrackingError = "추적 오차"
	c.Labels.JointVelocity = "관절 속도 차이"
	c.Format.Locale = "ko-KR"
	c.Format.MaxFractionDigits = 2
	return &c
}

// LoadUIConfig loads page settings from a YAML file over the defaults.
// A missing file is not an error.
func LoadUIConfig(filepath string) (*UIConfig, error) {
	config := DefaultUIConfig()

	data, err := os.ReadFile(filepath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return config, nil
		}
		return nil, fmt.Errorf("error reading config file: %v", err)
	}

	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("error parsing YAML: %v", err)
	}

	if config.Page.ResultLimit <= 0 {
		config.Page.ResultLimit = 5
	}
	if config.Format.MaxFractionDigits < 0 {
		config.Format.MaxFractionDigits = 0
	}

	return config, nil
}
