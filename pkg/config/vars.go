package config

import (
	"path/filepath"
)

var (
	// AppName is used in generating file system paths.
	AppName = "avharvest"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/avharvest by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// DataDir returns the directory path for the local document store.
// Returns ~/.local/share/avharvest by default.
func DataDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/avharvest/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(DataDir(homeDir), "logs")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/avharvest/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}

// TagsFilePath returns the full path to the tag vocabulary.
// Returns ~/.config/avharvest/tags.json by default.
func TagsFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "tags.json")
}

// SQLiteFilePath returns the default SQLite store file.
// Returns ~/.local/share/avharvest/avharvest.sqlite by default.
func SQLiteFilePath(homeDir string) string {
	return filepath.Join(DataDir(homeDir), AppName+".sqlite")
}
