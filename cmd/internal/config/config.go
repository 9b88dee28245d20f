package config

import (
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/zhukovvlad/tender-matching-service/cmd/pkg/logging"
)

// MatchingConfig parameterizes the per-position scoring pipeline.
type MatchingConfig struct {
	SemaphoreSize           int     `yaml:"semaphore_size" env:"SHRINKER_SEMAPHORE_SIZE" env-default:"100"`
	CandidatesThresholdScore float64 `yaml:"candidates_threshold_score" env:"CANDIDATES_TRASHOLD_SCORE" env-default:"0.7"`
	ThresholdAttributeMatch float64 `yaml:"threshold_attribute_match" env:"THRESHOLD_ATTRIBUTE_MATCH" env-default:"0.73"`
	ThresholdValueMatch     float64 `yaml:"threshold_value_match" env:"THRESHOLD_VALUE_MATCH" env-default:"0.85"`
	NumericTolerance        float64 `yaml:"numeric_tolerance" env:"NUMERIC_TOLERANCE" env-default:"0.1"`
}

// ElasticConfig points at the search index and its own retry/fetch policy —
// intentionally separate from ServicesConfig since it isn't one of the
// three NLP collaborators.
type ElasticConfig struct {
	URL           string `yaml:"url" env:"ES_URL" env-required:"true"`
	IndexName     string `yaml:"index_name" env:"ES_INDEX_NAME" env-default:"products"`
	CandidatesQty int    `yaml:"candidates_qty" env:"ES_CANDIDATES_QTY" env-default:"50"`
	MaxRetries    int    `yaml:"max_retries" env:"ES_MAX_RETRIES" env-default:"3"`
}

// NLPServiceConfig is the base URL of one of the three external matching
// services (attribute parser, unit normalizer, semantic matcher).
type NLPServiceConfig struct {
	URL string `yaml:"url" env-required:"true"`
}

// ServicesConfig groups the base URLs of every external NLP collaborator.
type ServicesConfig struct {
	AttrParser      NLPServiceConfig `yaml:"attr_parser"`
	UnitNormalizer  NLPServiceConfig `yaml:"unit_normalizer"`
	SemanticMatcher NLPServiceConfig `yaml:"semantic_matcher"`
	RequestTimeout  time.Duration    `yaml:"request_timeout" env:"SERVICES_REQUEST_TIMEOUT" env-default:"30s"`
	RateLimitRPS    float64          `yaml:"rate_limit_rps" env:"SERVICES_RATE_LIMIT_RPS" env-default:"0"`
}

// BrokerConfig configures the AMQP connection the consumer subscribes on.
type BrokerConfig struct {
	DSN string `yaml:"dsn" env:"BROKER_DSN" env-required:"true"`
}

// LogConfig controls cmd/pkg/logging's runtime behavior.
type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

// Config is the complete process configuration, read once at startup.
type Config struct {
	IsDebug *bool `yaml:"is_debug" env-required:"true"`
	Listen  struct {
		Type   string `yaml:"type" env-default:"port"`
		BindIP string `yaml:"bind_ip" env-default:"127.0.0.1"`
		Port   string `yaml:"port" env-default:"8080"`
	} `yaml:"listen"`
	Database struct {
		Driver string `yaml:"driver" env:"DB_DRIVER" env-default:"postgres"`
		Source string `yaml:"source" env:"DB_SOURCE" env-required:"true"`
	} `yaml:"database"`
	Matching MatchingConfig `yaml:"matching"`
	Elastic  ElasticConfig  `yaml:"elastic"`
	Services ServicesConfig `yaml:"services"`
	Broker   BrokerConfig   `yaml:"broker"`
	Log      LogConfig      `yaml:"log"`
}

var instance *Config
var once sync.Once

// GetConfig reads the configuration exactly once, exiting the process on a
// malformed or missing file — mirrors the teacher's startup-time fail-fast
// behavior.
func GetConfig() *Config {
	once.Do(func() {
		logger := logging.GetLogger()
		logger.Info("read application configuration")
		instance = &Config{}
		if err := cleanenv.ReadConfig("./cmd/config/config.yml", instance); err != nil {
			help, _ := cleanenv.GetDescription(instance, nil)
			logger.Info(help)
			logger.Fatal(err)
		}
	})

	return instance
}
