package domain

// ModelSettings holds where trained models live.
type ModelSettings struct {
	// Dir is the directory holding one subdirectory per model.
	Dir string

	// Default is the model used when a request names none.
	Default string
}

// StorageSettings holds database configuration.
type StorageSettings struct {
	// DSN selects the database. Empty means the local SQLite file;
	// a postgres:// or postgresql:// URL selects PostgreSQL.
	DSN string
}

// SamplingSettings holds pair scheduling defaults.
type SamplingSettings struct {
	// Policy is the default scheduler policy.
	Policy SchedulerPolicy

	// Gamma is the default skew exponent.
	Gamma float64

	// IncludeNonLeaf permits non-leaf nodes by default.
	IncludeNonLeaf bool

	// AllowSameDocument permits same-document pairs by default.
	AllowSameDocument bool
}

// RecommendSettings holds recommendation defaults.
type RecommendSettings struct {
	// Count is applied when a request has neither threshold nor count.
	Count int
}

// JudgmentSettings holds judgment recording configuration.
type JudgmentSettings struct {
	// TestProportion is the probability a new judgment joins the testing split.
	TestProportion float64
}

// EvaluationSettings holds background evaluation configuration.
type EvaluationSettings struct {
	// IntervalMinutes is how often models are checked; 0 disables it.
	IntervalMinutes int
}

// MCPSettings holds MCP server configuration.
type MCPSettings struct {
	// RateLimit is the HTTP request budget per second; 0 disables limiting.
	RateLimit float64
}

// AppSettings holds all application settings.
type AppSettings struct {
	Models     ModelSettings
	Storage    StorageSettings
	Sampling   SamplingSettings
	Recommend  RecommendSettings
	Judgments  JudgmentSettings
	Evaluation EvaluationSettings
	MCP        MCPSettings
}

// DefaultModelName is the model used when none is configured.
const DefaultModelName = "baseline"

// DefaultMCPRateLimit is the default MCP HTTP request budget per second.
const DefaultMCPRateLimit = 10.0

// DefaultAppSettings returns settings with defaults.
// Models.Dir is left empty; the config layer fills in the home-relative path.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Models: ModelSettings{
			Default: DefaultModelName,
		},
		Sampling: SamplingSettings{
			Policy: PolicyWeighted,
			Gamma:  DefaultGamma,
		},
		Recommend: RecommendSettings{
			Count: DefaultRecommendCount,
		},
		Judgments: JudgmentSettings{
			TestProportion: DefaultTestProportion,
		},
		Evaluation: EvaluationSettings{
			IntervalMinutes: int(DefaultEvaluationInterval.Minutes()),
		},
		MCP: MCPSettings{
			RateLimit: DefaultMCPRateLimit,
		},
	}
}
