// Package iofs creates application directories and writes default
// configuration files on first run.
package iofs

import (
	_ "embed"
	"os"

	"github.com/avharvest/avharvest/pkg/config"
	"gopkg.in/yaml.v3"
)

//go:embed config.yaml
var ConfigYAML string

// TagsJSON is the default tag vocabulary.
//
//go:embed tags.json
var TagsJSON string

func EnsureDirs(homeDir string) error {
	dirs := []string{
		config.ConfigDir(homeDir),
		config.DataDir(homeDir),
		config.LogDir(homeDir),
	}
	for _, v := range dirs {
		if err := touchDir(v); err != nil {
			return err
		}
	}
	return nil
}

func touchDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return CreateDirError(dir, err)
	}

	return nil
}

func EnsureConfigFile(homeDir string) error {
	return ensureFile(config.ConfigFilePath(homeDir), ConfigYAML)
}

func EnsureTagsFile(homeDir string) error {
	return ensureFile(config.TagsFilePath(homeDir), TagsJSON)
}

// ConfigSections are top-level sections of config.yaml.
var ConfigSections = []string{"database", "harvest", "log"}

// CheckConfigFile parses config.yaml and returns sections missing from
// it. Settings of missing sections keep their defaults.
func CheckConfigFile(homeDir string) ([]string, error) {
	path := config.ConfigFilePath(homeDir)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ReadFileError(path, err)
	}

	var doc map[string]any
	if err = yaml.Unmarshal(data, &doc); err != nil {
		return nil, ReadFileError(path, err)
	}

	var res []string
	for _, v := range ConfigSections {
		if _, ok := doc[v]; !ok {
			res = append(res, v)
		}
	}
	return res, nil
}

// ensureFile writes content to path unless the file already exists.
func ensureFile(path, content string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return CopyFileError(path, err)
	}

	return nil
}
