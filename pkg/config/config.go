package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración del servicio (Viper: variables de entorno y .env opcional).
type Config struct {
	App     AppConfig
	DB      DBConfig
	JWT     JWTConfig
	HTTP    HTTPConfig
	SUNAT   SUNATConfig
	Redis   RedisConfig
	Metrics MetricsConfig
	Docs    DocsConfig
}

// Modos de envío y firma SUNAT.
const (
	SubmitModeBeta = "beta" // envío simulado, respuesta fija de aceptación
	SubmitModeSOAP = "soap" // sendBill real contra SUNAT_ENDPOINT

	SignerSimulated   = "simulated"
	SignerCertificate = "certificate"
)

// Endpoints públicos de SUNAT (billService).
const (
	EndpointBeta       = "https://e-beta.sunat.gob.pe/ol-ti-itcpfegem-beta/billService"
	EndpointProduction = "https://e-factura.sunat.gob.pe/ol-ti-itcpfegem/billService"
)

// SUNATConfig configuración de emisión electrónica (Perú).
type SUNATConfig struct {
	SubmitMode    string // beta | soap
	SignerMode    string // simulated | certificate
	Endpoint      string
	RUC           string // RUC del emisor
	LegalName     string // razón social del emisor
	Address       string
	SOLUser       string // usuario SOL secundario
	SOLPassword   string
	CertPath      string // .p12/.pfx o .pem
	CertKeyPath   string // llave .pem si CertPath es solo el certificado
	CertPassword  string
	SubmitTimeout time.Duration
}

// Username devuelve el usuario WS-Security: RUC concatenado con el usuario SOL.
func (c SUNATConfig) Username() string {
	return c.RUC + c.SOLUser
}

// AppConfig configuración general.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	Storage  string // postgres | memory
	LogLevel string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío se usa tal cual como connection string.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	AutoMigrate bool // aplica las migraciones embebidas al arrancar
}

// ConnectionString devuelve DATABASE_URL si está definido, si no el DSN construido.
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN construye el connection string escapando caracteres especiales de la contraseña.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve host:port.
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RedisConfig habilita el lock distribuido cuando URL no está vacío.
type RedisConfig struct {
	URL     string
	LockTTL time.Duration
}

// MetricsConfig expone /metrics (Prometheus).
type MetricsConfig struct {
	Enabled bool
}

// DocsConfig sirve la UI de Swagger en /docs.
type DocsConfig struct {
	Enabled  bool
	FilePath string
}

// Load lee la configuración. Las variables de entorno tienen prioridad sobre .env / config.env.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "bazar-api"),
			Storage:  strings.ToLower(getString(v, "STORAGE", "postgres")),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "bazar"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			AutoMigrate: getBool(v, "DB_AUTO_MIGRATE", false),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 480),
			Issuer:     getString(v, "JWT_ISSUER", "bazar-api"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		SUNAT: SUNATConfig{
			SubmitMode:    strings.ToLower(getString(v, "SUNAT_MODE", SubmitModeBeta)),
			SignerMode:    strings.ToLower(getString(v, "SUNAT_SIGNER", SignerSimulated)),
			Endpoint:      getString(v, "SUNAT_ENDPOINT", EndpointBeta),
			RUC:           getString(v, "SUNAT_RUC", "20000000001"),
			LegalName:     getString(v, "SUNAT_RAZON_SOCIAL", "BAZAR ABEM S.A.C."),
			Address:       getString(v, "SUNAT_DIRECCION", "Av. Principal 123, Lima, Perú"),
			SOLUser:       getString(v, "SUNAT_USUARIO_SOL", "MODDATOS"),
			SOLPassword:   getString(v, "SUNAT_CLAVE_SOL", "MODDATOS"),
			CertPath:      getString(v, "SUNAT_CERT_PATH", ""),
			CertKeyPath:   getString(v, "SUNAT_CERT_KEY_PATH", ""),
			CertPassword:  getString(v, "SUNAT_CERT_PASSWORD", ""),
			SubmitTimeout: time.Duration(getInt(v, "SUNAT_SUBMIT_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Redis: RedisConfig{
			URL:     getString(v, "REDIS_URL", ""),
			LockTTL: time.Duration(getInt(v, "REDIS_LOCK_TTL_SECONDS", 60)) * time.Second,
		},
		Metrics: MetricsConfig{
			Enabled: getBool(v, "PROMETHEUS_ENABLED", false),
		},
		Docs: DocsConfig{
			Enabled:  getBool(v, "SWAGGER_ENABLED", true),
			FilePath: getString(v, "SWAGGER_FILE", "./docs/swagger.json"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("config: JWT_SECRET es obligatorio")
	}
	switch c.SUNAT.SubmitMode {
	case SubmitModeBeta, SubmitModeSOAP:
	default:
		return fmt.Errorf("config: SUNAT_MODE desconocido %q (usar beta|soap)", c.SUNAT.SubmitMode)
	}
	switch c.SUNAT.SignerMode {
	case SignerSimulated:
	case SignerCertificate:
		if c.SUNAT.CertPath == "" {
			return fmt.Errorf("config: SUNAT_CERT_PATH es obligatorio con SUNAT_SIGNER=certificate")
		}
	default:
		return fmt.Errorf("config: SUNAT_SIGNER desconocido %q (usar simulated|certificate)", c.SUNAT.SignerMode)
	}
	if c.SUNAT.SubmitTimeout <= 0 {
		return fmt.Errorf("config: SUNAT_SUBMIT_TIMEOUT_SECONDS debe ser mayor que cero")
	}
	switch c.App.Storage {
	case "postgres", "memory":
	default:
		return fmt.Errorf("config: STORAGE desconocido %q (usar postgres|memory)", c.App.Storage)
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if !v.IsSet(key) {
		return def
	}
	switch v.Get(key).(type) {
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return def
		}
		return n
	default:
		return v.GetInt(key)
	}
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if !v.IsSet(key) {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return def
	}
	return b
}
