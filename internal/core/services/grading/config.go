package grading

import (
	"fmt"
	"strings"
	"sync"

	"gitlab.com/gradepro.net/internal/domain"
	"gitlab.com/gradepro.net/internal/static/errs"
)

// ConfigHolder owns the process-wide grading configuration. Snapshot returns a value copy,
// so an in-flight call keeps the configuration it started with.
type ConfigHolder struct {
	mu     sync.RWMutex
	cfg    domain.GradingConfig
	models []domain.Model
}

func NewConfigHolder(initial domain.GradingConfig, models []domain.Model) *ConfigHolder {
	return &ConfigHolder{
		cfg:    initial,
		models: append([]domain.Model(nil), models...),
	}
}

func (h *ConfigHolder) Snapshot() domain.GradingConfig {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cfg
}

// Update applies patch and returns the new configuration. The model must be one of the catalogue entries.
func (h *ConfigHolder) Update(patch domain.GradingConfigPatch) (domain.GradingConfig, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	next := patch.Apply(h.cfg)
	if strings.TrimSpace(next.Model) == "" {
		return h.cfg, fmt.Errorf("%w: model is required", errs.InvalidConfig)
	}
	if !h.knownModel(next.Model) {
		return h.cfg, fmt.Errorf("%w: %s", errs.UnknownModel, next.Model)
	}
	h.cfg = next
	return next, nil
}

func (h *ConfigHolder) knownModel(id string) bool {
	for _, m := range h.models {
		if m.ID == id {
			return true
		}
	}
	return false
}

// Models returns the selectable model catalogue
func (h *ConfigHolder) Models() []domain.Model {
	return append([]domain.Model(nil), h.models...)
}
