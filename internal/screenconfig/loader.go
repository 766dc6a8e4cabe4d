package screenconfig

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wonny/valuescan/internal/contracts"
)

// Load reads a YAML thresholds file on top of Default() and validates it.
// KnownFields(true): 오타/미사용 필드 즉시 실패
func Load(path string) (contracts.ThresholdConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return contracts.ThresholdConfig{}, fmt.Errorf("read thresholds file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML thresholds on top of Default() and validates the result.
// An empty document yields the defaults.
func Parse(data []byte) (contracts.ThresholdConfig, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return contracts.ThresholdConfig{}, fmt.Errorf("decode thresholds: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return contracts.ThresholdConfig{}, err
	}

	return cfg, nil
}

// Resolve builds the thresholds for one run: defaults, then the optional file, then overrides.
func Resolve(path string, overrides Overrides) (contracts.ThresholdConfig, error) {
	base := Default()
	if path != "" {
		loaded, err := Load(path)
		if err != nil {
			return contracts.ThresholdConfig{}, err
		}
		base = loaded
	}

	cfg := overrides.Apply(base)
	if err := Validate(&cfg); err != nil {
		return contracts.ThresholdConfig{}, err
	}
	return cfg, nil
}

// Hash generates a SHA256 hash of the config (canonical JSON)
// 주의: map 대신 struct 사용으로 해시 재현성 보장
func Hash(cfg contracts.ThresholdConfig) (string, error) {
	jsonBytes, err := json.Marshal(cfg)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}

// Marshal renders the config as YAML
func Marshal(cfg contracts.ThresholdConfig) ([]byte, error) {
	return yaml.Marshal(cfg)
}
