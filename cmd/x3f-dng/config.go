package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/weaming/x3f-dng/output"
	"github.com/weaming/x3f-dng/x3f"
)

// Config 配置文件 (~/.config/x3f-dng/config.yaml)
// 布尔项用指针区分 "未设置" 和 false
type Config struct {
	WhiteBalance string `yaml:"white_balance"`
	ColorProfile string `yaml:"color_profile"`
	Compress     *bool  `yaml:"compress"`
	SpatialGain  *bool  `yaml:"spatial_gain"`
	Denoise      *bool  `yaml:"denoise"`
	FixBad       *bool  `yaml:"fix_bad"`
	PreviewWidth *int   `yaml:"preview_width"`

	// CalibratedProfiles 按相机型号覆盖内置的标定矩阵
	CalibratedProfiles map[string]CalibratedConfig `yaml:"calibrated_profiles"`
}

// CalibratedConfig 一组标定矩阵，行优先
type CalibratedConfig struct {
	ColorMatrix   []float64 `yaml:"color_matrix"`
	ForwardMatrix []float64 `yaml:"forward_matrix"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "x3f-dng", "config.yaml")
}

// LoadConfig 读取配置文件，不存在时返回零值
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("配置文件 %s: %w", path, err)
	}
	return cfg, nil
}

// convertFlags convert 命令的参数
type convertFlags struct {
	output       string
	whiteBalance string
	profile      string
	compress     bool
	spatialGain  bool
	denoise      bool
	fixBad       bool
	previewWidth int
}

// applyConvertConfig 命令行未显式设置的参数使用配置文件的值
func applyConvertConfig(c *cli.Command, cfg Config, f *convertFlags) {
	if cfg.WhiteBalance != "" && !c.IsSet("wb") {
		f.whiteBalance = cfg.WhiteBalance
	}
	if cfg.ColorProfile != "" && !c.IsSet("profile") {
		f.profile = cfg.ColorProfile
	}
	if cfg.Compress != nil && !c.IsSet("compress") {
		f.compress = *cfg.Compress
	}
	if cfg.SpatialGain != nil && !c.IsSet("sgain") {
		f.spatialGain = *cfg.SpatialGain
	}
	if cfg.Denoise != nil && !c.IsSet("denoise") {
		f.denoise = *cfg.Denoise
	}
	if cfg.FixBad != nil && !c.IsSet("fix-bad") {
		f.fixBad = *cfg.FixBad
	}
	if cfg.PreviewWidth != nil && !c.IsSet("preview-width") {
		f.previewWidth = *cfg.PreviewWidth
	}
}

// calibratedOverrides 将配置文件中的标定矩阵转换为 DNGOptions.Calibrated
func (cfg Config) calibratedOverrides() (map[x3f.CameraModel]output.ResolvedProfile, error) {
	if len(cfg.CalibratedProfiles) == 0 {
		return nil, nil
	}
	result := make(map[x3f.CameraModel]output.ResolvedProfile, len(cfg.CalibratedProfiles))
	for name, c := range cfg.CalibratedProfiles {
		model, ok := x3f.ParseCameraModel(name)
		if !ok {
			return nil, fmt.Errorf("calibrated_profiles: 未知的相机型号 '%s'", name)
		}
		if len(c.ColorMatrix) != 9 || len(c.ForwardMatrix) != 9 {
			return nil, fmt.Errorf("calibrated_profiles.%s: 矩阵需要 9 个元素", name)
		}
		var r output.ResolvedProfile
		copy(r.ColorMatrix1[:], c.ColorMatrix)
		copy(r.ForwardMatrix1[:], c.ForwardMatrix)
		result[model] = r
	}
	return result, nil
}

// options 由参数生成 DNGOptions
func (f *convertFlags) options(cfg Config) (output.DNGOptions, error) {
	intent, err := output.ParseProfileIntent(f.profile)
	if err != nil {
		return output.DNGOptions{}, err
	}
	calibrated, err := cfg.calibratedOverrides()
	if err != nil {
		return output.DNGOptions{}, fmt.Errorf("%w: %v", output.ErrArgument, err)
	}
	if f.previewWidth < 0 {
		return output.DNGOptions{}, fmt.Errorf("%w: 预览图宽度 %d", output.ErrArgument, f.previewWidth)
	}
	return output.DNGOptions{
		WhiteBalance:     f.whiteBalance,
		FixBad:           f.fixBad,
		Denoise:          f.denoise,
		ApplySpatialGain: f.spatialGain,
		Compress:         f.compress,
		Intent:           intent,
		Calibrated:       calibrated,
		PreviewWidth:     uint32(f.previewWidth),
	}, nil
}
