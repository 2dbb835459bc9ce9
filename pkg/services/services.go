package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Package services loads the registry of target REST services (YAML/JSON)
// that concrete API clients and the probe are configured against.

const (
	defaultTimeoutSeconds = 15
	defaultHealthEndpoint = "health"
)

// Service describes one target REST service.
type Service struct {
	ID             string            `json:"id" yaml:"id"`
	Name           string            `json:"name" yaml:"name"`
	BaseURL        string            `json:"base_url" yaml:"base_url"`
	HealthEndpoint string            `json:"health_endpoint" yaml:"health_endpoint"`
	TimeoutSeconds int               `json:"timeout_seconds" yaml:"timeout_seconds"`
	Headers        map[string]string `json:"headers" yaml:"headers"`
}

// Timeout returns the per-request transport timeout for the service.
func (s Service) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return defaultTimeoutSeconds * time.Second
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

type registryFile struct {
	Services []Service `json:"services" yaml:"services"`
}

// Registry holds the loaded service entries, indexed by id.
type Registry struct {
	services []Service
	idx      map[string]Service
}

// All returns a copy of the loaded services.
func (r *Registry) All() []Service {
	if r == nil || len(r.services) == 0 {
		return nil
	}
	out := make([]Service, len(r.services))
	copy(out, r.services)
	return out
}

// Get returns the service entry for the given id, if loaded.
func (r *Registry) Get(id string) (Service, bool) {
	id = strings.TrimSpace(id)
	if r == nil || id == "" {
		return Service{}, false
	}
	s, ok := r.idx[id]
	return s, ok
}

// LoadRegistry loads the service registry from a YAML or JSON file.
func LoadRegistry(path string) (*Registry, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("services file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open services file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read services file: %w", err)
	}

	reg, err := parseRegistry(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(reg.Services) == 0 {
		return nil, errors.New("services file contains no services entries")
	}

	idx := make(map[string]Service, len(reg.Services))
	out := make([]Service, 0, len(reg.Services))
	for i := range reg.Services {
		s := sanitizeService(reg.Services[i])
		if err := validateService(s); err != nil {
			return nil, fmt.Errorf("service[%d]: %w", i, err)
		}
		if _, exists := idx[s.ID]; exists {
			return nil, fmt.Errorf("duplicate service id %q", s.ID)
		}
		idx[s.ID] = s
		out = append(out, s)
	}

	return &Registry{services: out, idx: idx}, nil
}

type unmarshalFn func([]byte, any) error

func parseRegistry(data []byte, ext string) (registryFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var reg registryFile
		if err := d.fn(data, &reg); err != nil {
			return registryFile{}, fmt.Errorf("decode %s services: %w", d.name, err)
		}
		return reg, nil
	}

	return registryFile{}, errors.New("services file format not recognized (expected YAML or JSON)")
}

func sanitizeService(s Service) Service {
	s.ID = strings.TrimSpace(s.ID)
	s.Name = strings.TrimSpace(s.Name)
	s.BaseURL = strings.TrimSpace(strings.TrimRight(s.BaseURL, "/"))
	s.HealthEndpoint = strings.Trim(strings.TrimSpace(s.HealthEndpoint), "/")

	if s.HealthEndpoint == "" {
		s.HealthEndpoint = defaultHealthEndpoint
	}
	if s.TimeoutSeconds <= 0 {
		s.TimeoutSeconds = defaultTimeoutSeconds
	}
	if s.Headers == nil {
		s.Headers = map[string]string{}
	}

	return s
}

func validateService(s Service) error {
	if s.ID == "" {
		return errors.New("id is required")
	}
	if s.Name == "" {
		return fmt.Errorf("name is required for service %q", s.ID)
	}
	if s.BaseURL == "" {
		return fmt.Errorf("base_url is required for service %q", s.ID)
	}
	if !strings.HasPrefix(s.BaseURL, "http://") && !strings.HasPrefix(s.BaseURL, "https://") {
		return fmt.Errorf("base_url must be an absolute http(s) URL for service %q", s.ID)
	}
	return nil
}
