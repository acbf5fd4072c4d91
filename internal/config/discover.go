package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// FileName is the default project-level config file name.
const FileName = "sortbyext.yaml"

const configDirName = "sortbyext"

// Level represents the precedence level of a configuration file.
type Level string

const (
	LevelSystem  Level = "system"
	LevelUser    Level = "user"
	LevelProject Level = "project"
)

// LayerInfo describes a discovered config file and its load status.
type LayerInfo struct {
	Err    error // non-nil if the file exists but failed to load
	Path   string
	Level  Level
	Loaded bool
}

// DiscoverOptions controls how config paths are discovered.
type DiscoverOptions struct {
	// ProjectPath is the project-level config path.
	ProjectPath string

	// SystemConfigPath overrides the default system config path.
	// Empty means use the OS default. Set to a nonexistent path to skip.
	SystemConfigPath string

	// UserConfigPath overrides the default user config path.
	// Empty means use the OS default. Set to a nonexistent path to skip.
	UserConfigPath string
}

// DiscoverPaths returns the ordered list of config file paths to check,
// from lowest precedence (system) to highest (project).
// Paths are deduplicated by resolved absolute path.
func DiscoverPaths(opts DiscoverOptions) []LayerInfo {
	var layers []LayerInfo
	seen := make(map[string]bool)

	addLayer := func(level Level, path string) {
		if path == "" {
			return
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		if seen[abs] {
			return
		}
		seen[abs] = true
		layers = append(layers, LayerInfo{Path: path, Level: level})
	}

	sysPath := opts.SystemConfigPath
	if sysPath == "" {
		sysPath = defaultSystemConfigPath()
	}
	addLayer(LevelSystem, sysPath)

	userPath := opts.UserConfigPath
	if userPath == "" {
		userPath = defaultUserConfigPath()
	}
	addLayer(LevelUser, userPath)

	addLayer(LevelProject, opts.ProjectPath)

	return layers
}

func defaultSystemConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		pd := os.Getenv("ProgramData")
		if pd == "" {
			pd = `C:\ProgramData`
		}
		return filepath.Join(pd, configDirName, FileName)
	default:
		return filepath.Join("/etc", configDirName, FileName)
	}
}

func defaultUserConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, configDirName, FileName)
}

// EnvNoInherit returns true if SORTBYEXT_NO_INHERIT is set to "1" or "true".
func EnvNoInherit() bool {
	return envBoolTrue("SORTBYEXT_NO_INHERIT")
}

func envBoolTrue(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true"
}
