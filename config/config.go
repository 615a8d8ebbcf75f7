package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const ENV_FILE = ".env"
const CONFIG_FILE = "config.yaml"

const (
	DriverMySQL  = "mysql"
	DriverMongo  = "mongo"
	DriverMemory = "memory"

	MailModeSMTP  = "smtp"
	MailModeKafka = "kafka"
	MailModeNone  = "none"

	UploadBackendLocal = "local"
	UploadBackendS3    = "s3"
)

type AppConfig struct {
	Params   Params         `yaml:"params"`
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
	Database DatabaseConfig `yaml:"database"`
	Mail     MailConfig     `yaml:"mail"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Uploads  UploadsConfig  `yaml:"uploads"`
}

// Params 는 템플릿에 그대로 노출되는 사이트 파라미터다.
type Params struct {
	BlogName       string `yaml:"blog_name"`
	TagLine        string `yaml:"tag_line"`
	AboutText      string `yaml:"about_text"`
	NoOfPosts      int    `yaml:"no_of_posts"`
	FbURL          string `yaml:"fb_url"`
	TwURL          string `yaml:"tw_url"`
	GhURL          string `yaml:"gh_url"`
	HomeBg         string `yaml:"home_bg"`
	AboutBg        string `yaml:"about_bg"`
	ContactBg      string `yaml:"contact_bg"`
	PostBg         string `yaml:"post_bg"`
	LoginBg        string `yaml:"login_bg"`
	AdminUser      string `yaml:"admin_user"`
	AdminPassword  string `yaml:"admin_password"`
	UploadLocation string `yaml:"upload_location"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	SessionSecret   string        `yaml:"session_secret"`
	SessionTTL      time.Duration `yaml:"session_ttl"`
	CookieSecure    bool          `yaml:"cookie_secure"`
	CORSOrigins     []string      `yaml:"cors_origins"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type DatabaseConfig struct {
	Driver string      `yaml:"driver"`
	MySQL  MySQLConfig `yaml:"mysql"`
	Mongo  MongoConfig `yaml:"mongo"`
}

type MySQLConfig struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	User            string `yaml:"user"`
	Password        string `yaml:"password"`
	Database        string `yaml:"database"`
	Charset         string `yaml:"charset"`
	Loc             string `yaml:"loc"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	ConnMaxLifetime string `yaml:"conn_max_lifetime"`
}

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

// MailConfig 는 문의 알림 전달 방식을 정의한다.
// mode=kafka 인 경우 웹 서버는 이벤트만 발행하고 cmd/mailer 가 SMTP 로 전달한다.
type MailConfig struct {
	Mode     string `yaml:"mode"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	SSL      bool   `yaml:"ssl"`
	// Recipient 가 비어 있으면 Username 으로 보낸다.
	Recipient string `yaml:"recipient"`
}

type KafkaConfig struct {
	Brokers string `yaml:"brokers"`
	GroupID string `yaml:"group_id"`
	Topic   string `yaml:"topic"`
}

type UploadsConfig struct {
	Backend  string   `yaml:"backend"`
	MaxBytes int64    `yaml:"max_bytes"`
	S3       S3Config `yaml:"s3"`
}

type S3Config struct {
	Bucket        string `yaml:"bucket"`
	Region        string `yaml:"region"`
	Prefix        string `yaml:"prefix"`
	Endpoint      string `yaml:"endpoint"`
	PublicBaseURL string `yaml:"public_base_url"`
}

// Load 는 path 의 YAML 설정을 읽는다. 같은 디렉터리의 .env 를 먼저 로드하고
// YAML 안의 ${VAR} 참조를 환경변수로 치환한다.
// path 가 비어 있으면 FindBasePath 로 config.yaml 을 찾는다.
func Load(path string) (*AppConfig, error) {
	if path == "" {
		base := FindBasePath()
		if base == "" {
			return nil, fmt.Errorf("%s not found from working directory", CONFIG_FILE)
		}
		path = filepath.Join(base, CONFIG_FILE)
	}

	// .env 는 선택 사항이다.
	_ = godotenv.Load(filepath.Join(filepath.Dir(path), ENV_FILE))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var c AppConfig
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *AppConfig) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Server.SessionTTL <= 0 {
		c.Server.SessionTTL = 24 * time.Hour
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverMySQL
	}
	if c.Database.MySQL.Port == 0 {
		c.Database.MySQL.Port = 3306
	}
	if c.Database.MySQL.Charset == "" {
		c.Database.MySQL.Charset = "utf8mb4"
	}
	if c.Database.Mongo.Database == "" {
		c.Database.Mongo.Database = "techblog"
	}
	if c.Mail.Mode == "" {
		c.Mail.Mode = MailModeNone
	}
	if c.Mail.Port == 0 {
		c.Mail.Port = 465
	}
	if c.Mail.Recipient == "" {
		c.Mail.Recipient = c.Mail.Username
	}
	if c.Kafka.Topic == "" {
		c.Kafka.Topic = "techblog.contact.events"
	}
	if c.Uploads.Backend == "" {
		c.Uploads.Backend = UploadBackendLocal
	}
	if c.Uploads.MaxBytes <= 0 {
		c.Uploads.MaxBytes = 8 << 20
	}
}

// Validate 는 실행 전에 반드시 맞아야 하는 값들을 확인한다.
func (c *AppConfig) Validate() error {
	var errs []error

	if c.Params.NoOfPosts < 1 {
		errs = append(errs, fmt.Errorf("params.no_of_posts must be >= 1, got %d", c.Params.NoOfPosts))
	}
	if c.Params.AdminUser == "" || c.Params.AdminPassword == "" {
		errs = append(errs, errors.New("params.admin_user and params.admin_password are required"))
	}
	if c.Server.SessionSecret == "" {
		errs = append(errs, errors.New("server.session_secret is required"))
	}

	switch c.Database.Driver {
	case DriverMySQL:
		if c.Database.MySQL.Host == "" || c.Database.MySQL.Database == "" {
			errs = append(errs, errors.New("database.mysql.host and database.mysql.database are required"))
		}
	case DriverMongo:
		if c.Database.Mongo.URI == "" {
			errs = append(errs, errors.New("database.mongo.uri is required"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown database.driver %q", c.Database.Driver))
	}

	switch c.Mail.Mode {
	case MailModeNone:
	case MailModeSMTP:
		errs = append(errs, c.Mail.validateSMTP()...)
	case MailModeKafka:
		if c.Kafka.Brokers == "" || c.Kafka.GroupID == "" {
			errs = append(errs, errors.New("kafka.brokers and kafka.group_id are required when mail.mode=kafka"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown mail.mode %q", c.Mail.Mode))
	}

	switch c.Uploads.Backend {
	case UploadBackendLocal:
		if c.Params.UploadLocation == "" {
			errs = append(errs, errors.New("params.upload_location is required for the local upload backend"))
		}
	case UploadBackendS3:
		if c.Uploads.S3.Bucket == "" {
			errs = append(errs, errors.New("uploads.s3.bucket is required for the s3 upload backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown uploads.backend %q", c.Uploads.Backend))
	}

	return errors.Join(errs...)
}

func (m MailConfig) validateSMTP() []error {
	var errs []error
	if m.Host == "" {
		errs = append(errs, errors.New("mail.host is required when mail.mode=smtp"))
	}
	if m.Username == "" {
		errs = append(errs, errors.New("mail.username is required when mail.mode=smtp"))
	}
	return errs
}

// ValidateSMTP 는 mailer 워커처럼 모드와 무관하게 SMTP 가 필요한 곳에서 사용한다.
func (m MailConfig) ValidateSMTP() error {
	return errors.Join(m.validateSMTP()...)
}

// FindBasePath 는 현재 작업 디렉터리에서 위로 올라가며 config.yaml 이 있는 디렉터리를 찾는다.
func FindBasePath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		cfgPath := filepath.Join(dir, CONFIG_FILE)
		if info, err := os.Stat(cfgPath); err == nil && !info.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// LogLevel 은 LOG_LEVEL 환경변수가 있으면 그것을, 없으면 설정값을 반환한다.
func (c *AppConfig) LogLevel() string {
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		return strings.ToLower(v)
	}
	return strings.ToLower(c.Logging.Level)
}
