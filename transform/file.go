package transform

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/xuenqlve/checkkit/errors"
	"go.yaml.in/yaml/v3"
)

const (
	TOML = "toml"
	JSON = "json"
	YAML = "yaml"
)

func contentTypeOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return TOML
	case ".json":
		return JSON
	case ".yaml", ".yml":
		return YAML
	}
	return ""
}

func ConfigFromFile(path string) (map[string]any, error) {
	cfgData := map[string]any{}
	if err := DecodeFile(path, &cfgData); err != nil {
		return nil, err
	}
	return cfgData, nil
}

func ConfigFromString(content string, contentType string) (map[string]any, error) {
	cfgData := map[string]any{}
	if err := Decode([]byte(content), contentType, &cfgData); err != nil {
		return nil, err
	}
	return cfgData, nil
}

// DecodeFile 按扩展名把配置文件解码到 v，v 一般是带 toml/json/yaml tag 的结构体
func DecodeFile(path string, v any) error {
	contentType := contentTypeOf(path)
	if contentType == "" {
		return errors.Errorf("unrecognized path %s", path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return errors.Trace(err)
	}
	return Decode(content, contentType, v)
}

func Decode(content []byte, contentType string, v any) error {
	switch contentType {
	case TOML:
		if _, err := toml.Decode(string(content), v); err != nil {
			return errors.Trace(err)
		}
	case JSON:
		if err := json.Unmarshal(content, v); err != nil {
			return errors.Trace(err)
		}
	case YAML:
		if err := yaml.Unmarshal(content, v); err != nil {
			return errors.Trace(err)
		}
	default:
		return fmt.Errorf("unknown content type %s", contentType)
	}
	return nil
}
