// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Store     StoreConfig     `mapstructure:"store"`
	Email     EmailConfig     `mapstructure:"email"`
	SMS       SMSConfig       `mapstructure:"sms"`
	AWS       AWSConfig       `mapstructure:"aws"`
	Admission AdmissionConfig `mapstructure:"admission"`
	Camunda   CamundaConfig   `mapstructure:"camunda"`
	Client    ClientConfig    `mapstructure:"client"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig configures the admission HTTP API.
type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	ReadTimeout    int      `mapstructure:"read_timeout"`  // milliseconds
	WriteTimeout   int      `mapstructure:"write_timeout"` // milliseconds
	MaxBodyBytes   int64    `mapstructure:"max_body_bytes"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	MetricsPath    string   `mapstructure:"metrics_path"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
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

// ElasticsearchConfig configures the optional application search index.
type ElasticsearchConfig struct {
	Enabled   bool     `mapstructure:"enabled"`
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	Index     string   `mapstructure:"index"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// StoreConfig selects the key-value backend holding application records.
type StoreConfig struct {
	Driver string `mapstructure:"driver"` // redis | postgres | memory
	Table  string `mapstructure:"table"`  // postgres only
}

// EmailConfig selects and configures the letter delivery provider.
type EmailConfig struct {
	Provider string `mapstructure:"provider"` // ses | smtp | none
	From     string `mapstructure:"from"`
	SMTP     struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
		UseTLS   bool   `mapstructure:"use_tls"`
	} `mapstructure:"smtp"`
}

// Configured reports whether a delivery provider is set up.
func (e EmailConfig) Configured() bool {
	switch e.Provider {
	case "ses":
		return e.From != ""
	case "smtp":
		return e.From != "" && e.SMTP.Host != ""
	default:
		return false
	}
}

type SMSConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	SenderID string `mapstructure:"sender_id"`
}

type AWSConfig struct {
	Region string `mapstructure:"region"`
}

// AdmissionConfig holds processor settings and letter content.
type AdmissionConfig struct {
	MaxIDAttempts       int    `mapstructure:"max_id_attempts"`
	AttachPDF           bool   `mapstructure:"attach_pdf"`
	CollegeName         string `mapstructure:"college_name"`
	DirectorName        string `mapstructure:"director_name"`
	DirectorTitle       string `mapstructure:"director_title"`
	DirectorEmail       string `mapstructure:"director_email"`
	ProgramName         string `mapstructure:"program_name"`
	RegistrationFee     string `mapstructure:"registration_fee"`
	RegistrationFeeText string `mapstructure:"registration_fee_text"`
	PaymentDeadlineDays int    `mapstructure:"payment_deadline_days"`
	BankName            string `mapstructure:"bank_name"`
	BankAccountName     string `mapstructure:"bank_account_name"`
	BankAccountNumber   string `mapstructure:"bank_account_number"`
	BankBranch          string `mapstructure:"bank_branch"`
	BankSwiftCode       string `mapstructure:"bank_swift_code"`
	ContactEmail        string `mapstructure:"contact_email"`
	ContactPhone        string `mapstructure:"contact_phone"`
}

type CamundaConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

// ClientConfig configures the submission client used by the apply CLI.
type ClientConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
