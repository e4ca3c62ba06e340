package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ProcessingConfig represents the processing parameters for aggregation
// and noise estimation. The schema matches the converter's proc_params
// JSON so the same file drives batch runs and one-off CLI invocations.
// Pointer fields distinguish "not supplied" from a real zero; fields
// omitted from the JSON keep their defaults, so partial configs are safe.
type ProcessingConfig struct {
	// MVBS params
	MVBSSource       *string `json:"mvbs_source,omitempty"` // "Sv" or "Sv_clean"
	MVBSType         *string `json:"mvbs_type,omitempty"`   // "binned" or "rolling"
	MVBSPingNum      *int    `json:"mvbs_ping_num,omitempty"`
	MVBSRangeBinNum  *int    `json:"mvbs_range_bin_num,omitempty"`
	MVBSRangeBinNums []int   `json:"mvbs_range_bin_nums,omitempty"` // per-channel variant

	// Interval-based variants. Recognized so configs carrying them are
	// rejected loudly by the engine instead of silently ignored.
	MVBSTimeInterval     *string `json:"mvbs_time_interval,omitempty"`
	MVBSDistanceInterval *string `json:"mvbs_distance_interval,omitempty"`
	MVBSRangeInterval    *string `json:"mvbs_range_interval,omitempty"`

	// Noise estimation tile params
	NoiseEstPingSize     *int `json:"noise_est_ping_size,omitempty"`
	NoiseEstRangeBinSize *int `json:"noise_est_range_bin_size,omitempty"`
}

// EmptyProcessingConfig returns a ProcessingConfig with all fields nil.
func EmptyProcessingConfig() *ProcessingConfig {
	return &ProcessingConfig{}
}

// LoadProcessingConfig loads a ProcessingConfig from a JSON file.
// The file is validated to have a .json extension and to be under the
// max file size.
func LoadProcessingConfig(path string) (*ProcessingConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyProcessingConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are structurally valid.
// Whether a combination is supported by the engine is decided at run
// time so unsupported options fail with typed errors, not here.
func (c *ProcessingConfig) Validate() error {
	if c.MVBSSource != nil {
		if *c.MVBSSource != "Sv" && *c.MVBSSource != "Sv_clean" {
			return fmt.Errorf("mvbs_source must be Sv or Sv_clean, got %q", *c.MVBSSource)
		}
	}
	if c.MVBSType != nil {
		if *c.MVBSType != "binned" && *c.MVBSType != "rolling" {
			return fmt.Errorf("mvbs_type must be binned or rolling, got %q", *c.MVBSType)
		}
	}
	if c.MVBSPingNum != nil && *c.MVBSPingNum <= 0 {
		return fmt.Errorf("mvbs_ping_num must be positive, got %d", *c.MVBSPingNum)
	}
	if c.MVBSRangeBinNum != nil && *c.MVBSRangeBinNum <= 0 {
		return fmt.Errorf("mvbs_range_bin_num must be positive, got %d", *c.MVBSRangeBinNum)
	}
	for i, n := range c.MVBSRangeBinNums {
		if n <= 0 {
			return fmt.Errorf("mvbs_range_bin_nums[%d] must be positive, got %d", i, n)
		}
	}
	if c.MVBSRangeBinNum != nil && len(c.MVBSRangeBinNums) > 0 {
		return fmt.Errorf("mvbs_range_bin_num and mvbs_range_bin_nums are mutually exclusive")
	}
	if c.NoiseEstPingSize != nil && *c.NoiseEstPingSize <= 0 {
		return fmt.Errorf("noise_est_ping_size must be positive, got %d", *c.NoiseEstPingSize)
	}
	if c.NoiseEstRangeBinSize != nil && *c.NoiseEstRangeBinSize <= 0 {
		return fmt.Errorf("noise_est_range_bin_size must be positive, got %d", *c.NoiseEstRangeBinSize)
	}
	return nil
}

// GetMVBSSource returns the mvbs_source value or the default.
func (c *ProcessingConfig) GetMVBSSource() string {
	if c.MVBSSource == nil {
		return "Sv"
	}
	return *c.MVBSSource
}

// GetMVBSType returns the mvbs_type value or the default.
func (c *ProcessingConfig) GetMVBSType() string {
	if c.MVBSType == nil {
		return "binned"
	}
	return *c.MVBSType
}

// GetNoiseEstPingSize returns the noise_est_ping_size value or the default.
func (c *ProcessingConfig) GetNoiseEstPingSize() int {
	if c.NoiseEstPingSize == nil {
		return 30
	}
	return *c.NoiseEstPingSize
}

// GetNoiseEstRangeBinSize returns the noise_est_range_bin_size value or the default.
func (c *ProcessingConfig) GetNoiseEstRangeBinSize() int {
	if c.NoiseEstRangeBinSize == nil {
		return 300
	}
	return *c.NoiseEstRangeBinSize
}
