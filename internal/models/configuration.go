package models

type Configuration struct {
	App      AppConfiguration      `mapstructure:"app"      validate:"required"`
	Database DatabaseConfiguration `mapstructure:"database" validate:"required"`
	Cache    CacheConfiguration    `mapstructure:"cache"    validate:"required"`
	SMS      SMSConfiguration      `mapstructure:"sms"      validate:"required"`
	Tracing  TracingConfiguration  `mapstructure:"tracing"`
	Pprof    PprofConfiguration    `mapstructure:"pprof"`
}

type AppConfiguration struct {
	ProductName        string   `mapstructure:"product_name"         validate:"required"`
	JWTSecret          string   `mapstructure:"jwt_secret"           validate:"required,min=32"`
	AccessTokenExpiry  int      `mapstructure:"access_token_expiry"  validate:"gte=1,lte=1440"`
	RefreshTokenExpiry int      `mapstructure:"refresh_token_expiry" validate:"gte=1,lte=20160"`
	LogLevel           string   `mapstructure:"log_level"            validate:"oneof=debug info warn error fatal panic"`
	Port               int      `mapstructure:"port"                 validate:"gte=80,lte=65535"`
	AllowedOrigins     []string `mapstructure:"allowed_origins"      validate:"required"`
}

// GetAuthConfig extracts the subset of app configuration the auth service
// needs, so services do not depend on the full configuration tree.
func (a AppConfiguration) GetAuthConfig() AuthConfig {
	return AuthConfig{
		JWTSecret:          a.JWTSecret,
		AccessTokenExpiry:  a.AccessTokenExpiry,
		RefreshTokenExpiry: a.RefreshTokenExpiry,
	}
}

type AuthConfig struct {
	JWTSecret          string
	AccessTokenExpiry  int // minutes
	RefreshTokenExpiry int // minutes
}

type DatabaseConfiguration struct {
	Host     string `mapstructure:"host"     validate:"required"`
	Port     int32  `mapstructure:"port"     validate:"gte=80,lte=65535"`
	User     string `mapstructure:"user"     validate:"required"`
	Password string `mapstructure:"password" validate:"required"`
	Name     string `mapstructure:"name"     validate:"required"`
	SSLMode  string `mapstructure:"sslmode"`
}

type CacheConfiguration struct {
	Hosts         []string `mapstructure:"hosts"    validate:"required,min=1"`
	Password      string   `mapstructure:"password"`
	TLSEnabled    bool     `mapstructure:"tls_enabled"`
	TLSServerName string   `mapstructure:"tls_server_name"`
}

// SMSConfiguration selects how verification codes are delivered.
// The "log" type is the explicit degraded mode for non-production
// environments: codes are logged instead of sent.
type SMSConfiguration struct {
	Type   string                  `mapstructure:"type"   validate:"required,oneof=twilio smtp log"`
	Twilio *TwilioSMSConfiguration `mapstructure:"twilio" validate:"required_if=Type twilio"`
	SMTP   *MailerConfiguration    `mapstructure:"smtp"   validate:"required_if=Type smtp"`
}

type TwilioSMSConfiguration struct {
	AccountSID string `mapstructure:"account_sid" validate:"required"`
	AuthToken  string `mapstructure:"auth_token"  validate:"required"`
	FromNumber string `mapstructure:"from_number"`
}

type MailerConfiguration struct {
	Host          string `mapstructure:"host"            validate:"required"`
	Port          int    `mapstructure:"port"            validate:"required"`
	Username      string `mapstructure:"username"`
	Password      string `mapstructure:"password"`
	Sender        string `mapstructure:"sender"          validate:"required"`
	EnableTLS     bool   `mapstructure:"enable_tls"`
	SkipVerifyTLS bool   `mapstructure:"skip_verify_tls"`
}

type TracingConfiguration struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint" validate:"required_if=Enabled true"`
}

type PprofConfiguration struct {
	Enabled       bool   `mapstructure:"enabled"`
	ServerAddress string `mapstructure:"server_address" validate:"required_if=Enabled true"`
}
