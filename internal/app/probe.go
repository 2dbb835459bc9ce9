package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/samvad-hq/samvad-api-kit/internal/config"
	"github.com/samvad-hq/samvad-api-kit/internal/logger"
	"github.com/samvad-hq/samvad-api-kit/pkg/apiclient"
	"github.com/samvad-hq/samvad-api-kit/pkg/httpclient"
	"github.com/samvad-hq/samvad-api-kit/pkg/services"
)

// Probe represents the service probe runtime. It manages the probe loop,
// issuing a health request to every configured service through the API
// client façade and logging the resulting envelope or failure.
type Probe struct {
	cfg           *config.Config
	registry      *services.Registry
	clients       map[string]*apiclient.Client
	endpoints     map[string]string
	probeInterval time.Duration
	log           logger.Logger
}

// NewProbe builds a probe runtime from config files.
func NewProbe(ctx context.Context, cfg *config.Config, log logger.Logger) (*Probe, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	registry, err := services.LoadRegistry(cfg.ServicesFile)
	if err != nil {
		return nil, fmt.Errorf("load services registry: %w", err)
	}

	entries := registry.All()
	ids := make([]string, 0, len(entries))
	clients := make(map[string]*apiclient.Client, len(entries))
	endpoints := make(map[string]string, len(entries))
	transport := httpclient.NewRestyClient(cfg.HTTPTimeout)
	for _, svc := range entries {
		ids = append(ids, svc.ID)
		clients[svc.ID] = apiclient.New(svc.BaseURL, transport,
			apiclient.WithHeaders(svc.Headers))
		endpoints[svc.ID] = svc.HealthEndpoint
	}
	log.InfoObj("services registry loaded", "services_meta", map[string]any{
		"count": len(ids),
		"ids":   ids,
	})

	return &Probe{
		cfg:           cfg,
		registry:      registry,
		clients:       clients,
		endpoints:     endpoints,
		probeInterval: cfg.ProbeInterval,
		log:           log,
	}, nil
}

// Run starts the probe loop until the context is cancelled.
func (p *Probe) Run(ctx context.Context) error {
	if p == nil || len(p.clients) == 0 {
		return fmt.Errorf("probe is not initialized")
	}

	p.log.InfoObj("probe loop starting", "probe_state", map[string]any{
		"services_count": len(p.clients),
		"probe_interval": p.probeInterval.String(),
	})

	p.runOnce(ctx)

	ticker := time.NewTicker(p.probeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.InfoObj("probe loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			p.runOnce(ctx)
		}
	}
}

// runOnce probes every configured service.
func (p *Probe) runOnce(ctx context.Context) {
	start := time.Now()
	for _, svc := range p.registry.All() {
		p.probeService(ctx, svc)
	}
	p.log.InfoObj("probe cycle completed", "probe_meta", map[string]any{
		"services_count": len(p.clients),
		"elapsed_ms":     time.Since(start).Milliseconds(),
	})
}

func (p *Probe) probeService(ctx context.Context, svc services.Service) {
	client := p.clients[svc.ID]
	call := apiclient.Get[json.RawMessage](client, p.endpoints[svc.ID], apiclient.Params{
		"source": apiclient.String(p.cfg.AppName),
	})

	env, err := call.Do(ctx)
	if err != nil {
		var apiErr *apiclient.Error
		if errors.As(err, &apiErr) {
			p.log.WarnObj("service reported failure", "probe_result", map[string]any{
				"service":     svc.ID,
				"status":      apiErr.Envelope.Status,
				"status_code": apiErr.Envelope.StatusCode,
				"message":     apiErr.Envelope.Message,
			})
			return
		}
		p.log.ErrorObj("service unreachable", "probe_result", map[string]any{
			"service": svc.ID,
			"error":   err.Error(),
		})
		return
	}

	p.log.InfoObj("service healthy", "probe_result", map[string]any{
		"service":     svc.ID,
		"status":      env.Status,
		"status_code": env.StatusCode,
		"message":     env.Message,
	})
}
