package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App          AppConfig               `mapstructure:"app"`
	Camunda      CamundaConfig           `mapstructure:"camunda"`
	Database     DatabaseConfig          `mapstructure:"database"`
	Workers      map[string]WorkerConfig `mapstructure:"workers"`
	Auth         AuthConfig              `mapstructure:"auth"`
	Integrations IntegrationConfig       `mapstructure:"integrations"`
	Logging      LoggingConfig           `mapstructure:"logging"`
	Server       ServerConfig            `mapstructure:"server"`
	Estimation   EstimationConfig        `mapstructure:"estimation"`
	Costing      CostingConfig           `mapstructure:"costing"`
	RateCatalog  RateCatalogConfig       `mapstructure:"rate_catalog"`
	Calendar     CalendarConfig          `mapstructure:"calendar"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
	UsePlaintext   bool   `mapstructure:"use_plaintext"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses  []string `mapstructure:"addresses"`
	Username   string   `mapstructure:"username"`
	Password   string   `mapstructure:"password"`
	SSLEnabled bool     `mapstructure:"ssl_enabled"`
	URL        string   `mapstructure:"url"`
	ChipIndex  string   `mapstructure:"chip_index"`
}

// GetURL returns the first address or the URL field
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

// RedisConfig configures the rate catalog cache. Timeouts are milliseconds.
type RedisConfig struct {
	Address      string `mapstructure:"address"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	PoolSize     int    `mapstructure:"pool_size"`
	MinIdleConns int    `mapstructure:"min_idle_conns"`
	DialTimeout  int    `mapstructure:"dial_timeout"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// AuthConfig configures caller identity resolution.
type AuthConfig struct {
	Keycloak struct {
		URL          string `mapstructure:"url"`
		Realm        string `mapstructure:"realm"`
		ClientID     string `mapstructure:"client_id"`
		ClientSecret string `mapstructure:"client_secret"`
		Timeout      int    `mapstructure:"timeout"` // milliseconds
	} `mapstructure:"keycloak"`
}

// IntegrationConfig holds settings for outbound integrations.
type IntegrationConfig struct {
	AWS struct {
		Region string `mapstructure:"region"`
		SNS    struct {
			Enabled               bool   `mapstructure:"enabled"`
			ScheduleRegenTopicARN string `mapstructure:"schedule_regen_topic_arn"`
		} `mapstructure:"sns"`
	} `mapstructure:"aws"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// EstimationConfig carries the baseline formula constants and phase weights.
type EstimationConfig struct {
	IntegrationFactor       float64            `mapstructure:"integration_factor"`
	ExtraFormFactor         float64            `mapstructure:"extra_form_factor"`
	FitGapFactor            float64            `mapstructure:"fit_gap_factor"`
	EntityFactor            float64            `mapstructure:"entity_factor"`
	CountryFactor           float64            `mapstructure:"country_factor"`
	LanguageFactor          float64            `mapstructure:"language_factor"`
	BaselineForms           int                `mapstructure:"baseline_forms"`
	PMOMonthlyRate          float64            `mapstructure:"pmo_monthly_rate"`
	WorkingDaysPerMonth     float64            `mapstructure:"working_days_per_month"`
	MaxPMOIterations        int                `mapstructure:"max_pmo_iterations"`
	PMOConvergenceThreshold float64            `mapstructure:"pmo_convergence_threshold"`
	PhaseWeights            map[string]float64 `mapstructure:"phase_weights"`
}

// CostingConfig carries the seven-layer costing constants.
type CostingConfig struct {
	Currency          string             `mapstructure:"currency"`
	HoursPerDay       float64            `mapstructure:"hours_per_day"`
	RealizationRate   float64            `mapstructure:"realization_rate"`
	InternalCostRatio float64            `mapstructure:"internal_cost_ratio"`
	RegionRealization map[string]float64 `mapstructure:"region_realization_rates"`
}

type RateCatalogConfig struct {
	CacheTTL  int    `mapstructure:"cache_ttl"` // milliseconds
	KeyPrefix string `mapstructure:"key_prefix"`
}

// CalendarConfig lists public holidays per region as YYYY-MM-DD strings.
type CalendarConfig struct {
	Version  int                 `mapstructure:"version"`
	Holidays map[string][]string `mapstructure:"holidays"`
}
