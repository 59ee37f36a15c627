package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/learningequality/alignpro/internal/core/domain"
	"github.com/learningequality/alignpro/internal/core/ports/driven"
	"github.com/learningequality/alignpro/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyModelsDir         = "models.dir"
	keyModelsDefault     = "models.default"
	keyStorageDSN        = "storage.dsn"
	keySamplingPolicy    = "sampling.policy"
	keySamplingGamma     = "sampling.gamma"
	keySamplingNonLeaf   = "sampling.include_nonleaf"
	keySamplingSameDoc   = "sampling.allow_same_document"
	keyRecommendCount    = "recommend.count"
	keyTestProportion    = "judgments.test_proportion"
	keyEvaluationMinutes = "evaluation.interval_minutes"
	keyMCPRateLimit      = "mcp.rate_limit"
)

var settingKeys = []string{
	keyModelsDir,
	keyModelsDefault,
	keyStorageDSN,
	keySamplingPolicy,
	keySamplingGamma,
	keySamplingNonLeaf,
	keySamplingSameDoc,
	keyRecommendCount,
	keyTestProportion,
	keyEvaluationMinutes,
	keyMCPRateLimit,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	modelsDir   string
}

// NewSettingsService creates a new settings service.
// modelsDir is the models directory used when none is configured.
func NewSettingsService(configStore driven.ConfigStore, modelsDir string) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		modelsDir:   modelsDir,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := s.GetDefaults()

	settings := &domain.AppSettings{
		Models: domain.ModelSettings{
			Dir:     s.getString(keyModelsDir, defaults.Models.Dir),
			Default: s.getString(keyModelsDefault, defaults.Models.Default),
		},
		Storage: domain.StorageSettings{
			DSN: s.configStore.GetString(keyStorageDSN),
		},
		Sampling: domain.SamplingSettings{
			Policy:            s.getPolicy(defaults.Sampling.Policy),
			Gamma:             s.getFloat(keySamplingGamma, defaults.Sampling.Gamma),
			IncludeNonLeaf:    s.getBool(keySamplingNonLeaf, defaults.Sampling.IncludeNonLeaf),
			AllowSameDocument: s.getBool(keySamplingSameDoc, defaults.Sampling.AllowSameDocument),
		},
		Recommend: domain.RecommendSettings{
			Count: s.getInt(keyRecommendCount, defaults.Recommend.Count),
		},
		Judgments: domain.JudgmentSettings{
			TestProportion: s.getFloat(keyTestProportion, defaults.Judgments.TestProportion),
		},
		Evaluation: domain.EvaluationSettings{
			IntervalMinutes: s.getInt(keyEvaluationMinutes, defaults.Evaluation.IntervalMinutes),
		},
		MCP: domain.MCPSettings{
			RateLimit: s.getFloat(keyMCPRateLimit, defaults.MCP.RateLimit),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyModelsDir, settings.Models.Dir},
		{keyModelsDefault, settings.Models.Default},
		{keyStorageDSN, settings.Storage.DSN},
		{keySamplingPolicy, settings.Sampling.Policy.String()},
		{keySamplingGamma, settings.Sampling.Gamma},
		{keySamplingNonLeaf, settings.Sampling.IncludeNonLeaf},
		{keySamplingSameDoc, settings.Sampling.AllowSameDocument},
		{keyRecommendCount, settings.Recommend.Count},
		{keyTestProportion, settings.Judgments.TestProportion},
		{keyEvaluationMinutes, settings.Evaluation.IntervalMinutes},
		{keyMCPRateLimit, settings.MCP.RateLimit},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// Keys lists the settable keys in display order.
func (s *SettingsService) Keys() []string {
	return append([]string(nil), settingKeys...)
}

// Set updates a single setting by key, parsing value for the key's type.
func (s *SettingsService) Set(key, value string) error {
	value = strings.TrimSpace(value)
	var parsed any

	switch key {
	case keyModelsDir, keyModelsDefault, keyStorageDSN:
		parsed = value
	case keySamplingPolicy:
		policy := domain.SchedulerPolicy(value)
		if !policy.IsValid() {
			return fmt.Errorf("%w: invalid scheduler policy: %s", domain.ErrInvalidInput, value)
		}
		parsed = policy.String()
	case keySamplingGamma, keyTestProportion, keyMCPRateLimit:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || !domain.IsFinite(f) || f < 0 {
			return fmt.Errorf("%w: %s must be a non-negative number", domain.ErrInvalidInput, key)
		}
		if key == keyTestProportion && f > 1 {
			return fmt.Errorf("%w: %s must be between 0 and 1", domain.ErrInvalidInput, key)
		}
		parsed = f
	case keySamplingNonLeaf, keySamplingSameDoc:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		parsed = b
	case keyRecommendCount, keyEvaluationMinutes:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidInput, key)
		}
		parsed = n
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Validate checks that current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Sampling.Policy.IsValid() {
		return fmt.Errorf("invalid scheduler policy: %s", settings.Sampling.Policy)
	}
	if !domain.IsFinite(settings.Sampling.Gamma) || settings.Sampling.Gamma < 0 {
		return fmt.Errorf("sampling gamma must be a finite number >= 0, got %v", settings.Sampling.Gamma)
	}
	if settings.Judgments.TestProportion < 0 || settings.Judgments.TestProportion > 1 {
		return fmt.Errorf("test proportion must be between 0 and 1, got %v", settings.Judgments.TestProportion)
	}
	if settings.Models.Dir == "" {
		return fmt.Errorf("models directory is not configured")
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	defaults := domain.DefaultAppSettings()
	defaults.Models.Dir = s.modelsDir
	return defaults
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getPolicy(defaultVal domain.SchedulerPolicy) domain.SchedulerPolicy {
	val := s.configStore.GetString(keySamplingPolicy)
	if val == "" {
		return defaultVal
	}
	policy := domain.SchedulerPolicy(val)
	if !policy.IsValid() {
		return defaultVal
	}
	return policy
}
