// Package iotags loads the tag vocabulary from a JSON file.
package iotags

import (
	"log/slog"
	"os"

	"github.com/avharvest/avharvest/pkg/tagmap"
	"github.com/gnames/gnfmt"
)

// Load reads a JSON object of raw to canonical tag labels.
func Load(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ReadTagsError(path, err)
	}

	var res map[string]string
	enc := gnfmt.GNjson{}
	if err = enc.Decode(data, &res); err != nil {
		return nil, DecodeTagsError(path, err)
	}
	if res == nil {
		res = make(map[string]string)
	}

	slog.Info("Tag vocabulary loaded", "path", path, "labels", len(res))
	return res, nil
}

// NewMapper loads the vocabulary at path and creates a tag mapper.
func NewMapper(path string) (*tagmap.Mapper, error) {
	vocab, err := Load(path)
	if err != nil {
		return nil, err
	}
	return tagmap.New(vocab), nil
}
