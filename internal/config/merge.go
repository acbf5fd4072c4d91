package config

import (
	"errors"
	"fmt"
	"io/fs"
)

// Merge combines two configs where overlay takes precedence over base.
//   - version: must agree if both declare it (non-zero)
//   - scalars: overlay wins when set (non-zero, non-nil)
func Merge(base, overlay *Config) (*Config, error) {
	if base == nil {
		return overlay, nil
	}
	if overlay == nil {
		return base, nil
	}

	result := *base

	if err := mergeVersion(base.Version, overlay.Version, &result.Version); err != nil {
		return nil, err
	}
	if overlay.Workers != 0 {
		result.Workers = overlay.Workers
	}
	if overlay.Sentinel != "" {
		result.Sentinel = overlay.Sentinel
	}
	if overlay.SkipHidden != nil {
		result.SkipHidden = overlay.SkipHidden
	}
	if overlay.Strict != nil {
		result.Strict = overlay.Strict
	}
	if overlay.Lock != nil {
		result.Lock = overlay.Lock
	}
	if overlay.Log.Level != "" {
		result.Log.Level = overlay.Log.Level
	}
	if overlay.Log.Format != "" {
		result.Log.Format = overlay.Log.Format
	}

	return &result, nil
}

// MergeAll merges multiple configs in order (lowest precedence first).
func MergeAll(configs []*Config) (*Config, error) {
	if len(configs) == 0 {
		return nil, fmt.Errorf("no configs to merge")
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		var err error
		result, err = Merge(result, configs[i])
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func mergeVersion(base, overlay int, out *int) error {
	switch {
	case base == 0:
		*out = overlay
	case overlay == 0, base == overlay:
		*out = base
	default:
		return fmt.Errorf("config version mismatch: one layer declares version %d, another declares version %d — all config layers must agree on version", base, overlay)
	}
	return nil
}

// HierarchicalOptions controls LoadHierarchical.
type HierarchicalOptions struct {
	ProjectPath      string
	SystemConfigPath string
	UserConfigPath   string

	// NoInherit loads only the project layer.
	NoInherit bool
}

// HierarchicalResult is the merged config and the layers that produced it.
type HierarchicalResult struct {
	Config *Config
	Layers []LayerInfo
}

// LoadHierarchical loads the system, user and project layers that exist,
// merges them over Default and validates the result. Missing files are
// skipped; a file that exists but does not parse is an error.
func LoadHierarchical(opts HierarchicalOptions) (*HierarchicalResult, error) {
	var layers []LayerInfo
	if opts.NoInherit {
		if opts.ProjectPath != "" {
			layers = []LayerInfo{{Path: opts.ProjectPath, Level: LevelProject}}
		}
	} else {
		layers = DiscoverPaths(DiscoverOptions{
			ProjectPath:      opts.ProjectPath,
			SystemConfigPath: opts.SystemConfigPath,
			UserConfigPath:   opts.UserConfigPath,
		})
	}

	configs := []*Config{Default()}
	for i := range layers {
		cfg, err := Parse(layers[i].Path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			layers[i].Err = err
			return nil, fmt.Errorf("%s config: %w", layers[i].Level, err)
		}
		layers[i].Loaded = true
		configs = append(configs, cfg)
	}

	merged, err := MergeAll(configs)
	if err != nil {
		return nil, err
	}
	if errs := Validate(merged); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	return &HierarchicalResult{Config: merged, Layers: layers}, nil
}
