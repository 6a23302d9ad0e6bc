package config

import "time"

// ServerConfig represents the configuration for the HTTP server
type ServerConfig struct {
	ListenAddress string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	BodyLimit     int
}

// ModelConfig represents where the trained model artifact lives
type ModelConfig struct {
	Store      string
	Path       string
	Name       string
	SQLitePath string
	MySQLDSN   string
	RedisAddr  string
	RedisDB    int
	RedisKey   string
}

// TrainingConfig represents the classifier training parameters
type TrainingConfig struct {
	DatasetPath     string
	TestFraction    float64
	Seed            int64
	Folds           int
	CrossValidation bool
	HashBits        int
	L2              float64
	MaxIterations   int
}

// BatchConfig represents the batch aggregation settings
type BatchConfig struct {
	Concurrency     int
	IsolateFailures bool
}

// GmailConfig represents the Gmail retrieval settings
type GmailConfig struct {
	User        string
	MaxResults  int64
	Query       string
	AccessToken string
}

// SMTPConfig represents the SMTP intake settings
type SMTPConfig struct {
	Enabled         bool
	ListenAddress   string
	Domain          string
	RejectSpam      bool
	ForwardAddress  string
	MaxMessageBytes int64
	StatusHeader    string
	ScoreHeader     string
	TrustedDomains  []string
}

// GetServer returns the server configuration
func (c *Config) GetServer() ServerConfig {
	readTimeout, err := c.GetDuration("server.read_timeout")
	if err != nil {
		readTimeout = 30 * time.Second
	}
	writeTimeout, err := c.GetDuration("server.write_timeout")
	if err != nil {
		writeTimeout = 5 * time.Minute
	}

	return ServerConfig{
		ListenAddress: c.GetString("server.listen_address"),
		ReadTimeout:   readTimeout,
		WriteTimeout:  writeTimeout,
		BodyLimit:     c.GetInt("server.body_limit"),
	}
}

// GetModel returns the model store configuration
func (c *Config) GetModel() ModelConfig {
	return ModelConfig{
		Store:      c.GetString("model.store"),
		Path:       c.GetString("model.path"),
		Name:       c.GetString("model.name"),
		SQLitePath: c.GetString("model.sqlite_path"),
		MySQLDSN:   c.GetString("model.mysql_dsn"),
		RedisAddr:  c.GetString("model.redis_addr"),
		RedisDB:    c.GetInt("model.redis_db"),
		RedisKey:   c.GetString("model.redis_key"),
	}
}

// GetTraining returns the training configuration
func (c *Config) GetTraining() TrainingConfig {
	return TrainingConfig{
		DatasetPath:     c.GetString("dataset.path"),
		TestFraction:    c.GetFloat64("training.test_fraction"),
		Seed:            c.GetInt64("training.seed"),
		Folds:           c.GetInt("training.folds"),
		CrossValidation: c.GetBool("training.cross_validation"),
		HashBits:        c.GetInt("training.hash_bits"),
		L2:              c.GetFloat64("training.l2"),
		MaxIterations:   c.GetInt("training.max_iterations"),
	}
}

// GetBatch returns the batch configuration
func (c *Config) GetBatch() BatchConfig {
	return BatchConfig{
		Concurrency:     c.GetInt("batch.concurrency"),
		IsolateFailures: c.GetBool("batch.isolate_failures"),
	}
}

// GetGmail returns the Gmail configuration
func (c *Config) GetGmail() GmailConfig {
	return GmailConfig{
		User:        c.GetString("gmail.user"),
		MaxResults:  c.GetInt64("gmail.max_results"),
		Query:       c.GetString("gmail.query"),
		AccessToken: c.GetString("gmail.access_token"),
	}
}

// GetSMTP returns the SMTP intake configuration
func (c *Config) GetSMTP() SMTPConfig {
	return SMTPConfig{
		Enabled:         c.GetBool("smtp.enabled"),
		ListenAddress:   c.GetString("smtp.listen_address"),
		Domain:          c.GetString("smtp.domain"),
		RejectSpam:      c.GetBool("smtp.reject_spam"),
		ForwardAddress:  c.GetString("smtp.forward_address"),
		MaxMessageBytes: c.GetInt64("smtp.max_message_bytes"),
		StatusHeader:    c.GetString("smtp.status_header"),
		ScoreHeader:     c.GetString("smtp.score_header"),
		TrustedDomains:  c.GetStringSlice("smtp.trusted_domains"),
	}
}
