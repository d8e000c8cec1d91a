package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultContract     = "0xd38bb40815d2b0c2d2c866e0c72c5728ffc76dd9"
	defaultCoinID       = "symbiosis-finance"
	defaultExplorerBase = "https://api.etherscan.io/v2/api"
	defaultPriceBase    = "https://api.coingecko.com/api/v3"
)

// Config es la configuración completa del scanner.
type Config struct {
	Token   TokenConfig   `yaml:"token"`
	Scanner ScannerConfig `yaml:"scanner"`
	API     APIConfig     `yaml:"api"`
	HTTP    HTTPConfig    `yaml:"http"`
	Log     LogConfig     `yaml:"log"`
}

// TokenConfig identifica el token analizado.
type TokenConfig struct {
	ContractAddress string `yaml:"contract_address"`
	CoinID          string `yaml:"coin_id"`  // id de CoinGecko
	Currency        string `yaml:"currency"` // moneda de cotización
}

// ScannerConfig controla el descubrimiento de wallets y el cálculo de PnL.
type ScannerConfig struct {
	RecentLimit int     `yaml:"recent_limit"`
	MinAgeDays  int     `yaml:"min_age_days"`
	MinValueUSD float64 `yaml:"min_value_usd"`
	PnLWorkers  int     `yaml:"pnl_workers"` // 1 = secuencial
}

// APIConfig contiene los base URLs de las APIs y las keys (solo desde el entorno).
type APIConfig struct {
	ExplorerBase string `yaml:"explorer_base"`
	ChainID      int    `yaml:"chain_id"`
	PriceBase    string `yaml:"price_base"`

	ExplorerKey string `yaml:"-"`
	PriceKey    string `yaml:"-"`
}

// HTTPConfig es la política de reintentos compartida por ambos clientes.
type HTTPConfig struct {
	Retries            int     `yaml:"retries"`
	BackoffFactor      float64 `yaml:"backoff_factor"`
	TimeoutSeconds     int     `yaml:"timeout_seconds"`
	ExplorerRatePerSec float64 `yaml:"explorer_rate_per_sec"`
	PriceRatePerSec    float64 `yaml:"price_rate_per_sec"`
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Los valores del entorno sobreescriben los del YAML. Las keys ausentes en el
// YAML conservan el default, así que un 0 explícito se respeta.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// Default devuelve la configuración por defecto: Symbiosis en mainnet,
// umbrales de 100 días y $2000, 3 reintentos con backoff de 0.3s.
func Default() Config {
	return Config{
		Token: TokenConfig{
			ContractAddress: defaultContract,
			CoinID:          defaultCoinID,
			Currency:        "usd",
		},
		Scanner: ScannerConfig{
			RecentLimit: 100,
			MinAgeDays:  100,
			MinValueUSD: 2000,
			PnLWorkers:  1,
		},
		API: APIConfig{
			ExplorerBase: defaultExplorerBase,
			ChainID:      1,
			PriceBase:    defaultPriceBase,
		},
		HTTP: HTTPConfig{
			Retries:            3,
			BackoffFactor:      0.3,
			TimeoutSeconds:     30,
			ExplorerRatePerSec: 5,   // plan gratuito de Etherscan
			PriceRatePerSec:    0.5, // ~30 req/min en CoinGecko público
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Timeout devuelve el timeout por request como time.Duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// Validate comprueba lo mínimo para poder consultar las APIs.
func (c *Config) Validate() error {
	var errs []error
	if c.API.ExplorerKey == "" {
		errs = append(errs, errors.New("ETHERSCAN_API_KEY is not set"))
	}
	if !common.IsHexAddress(c.Token.ContractAddress) {
		errs = append(errs, fmt.Errorf("invalid contract address %q", c.Token.ContractAddress))
	}
	if c.Token.CoinID == "" {
		errs = append(errs, errors.New("token coin_id is empty"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config.Validate: %w", errors.Join(errs...))
	}
	return nil
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	cfg.API.ExplorerKey = os.Getenv("ETHERSCAN_API_KEY")
	cfg.API.PriceKey = os.Getenv("COINGECKO_API_KEY")

	if v := os.Getenv("TOKEN_CONTRACT"); v != "" {
		cfg.Token.ContractAddress = v
	}
	if v := os.Getenv("TOKEN_COIN_ID"); v != "" {
		cfg.Token.CoinID = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

// setDefaults corrige valores vacíos o fuera de rango que vinieron del YAML o del entorno.
// Los umbrales del filtro y los reintentos admiten 0; solo un negativo vuelve al default.
func setDefaults(cfg *Config) {
	def := Default()

	if cfg.Token.ContractAddress == "" {
		cfg.Token.ContractAddress = def.Token.ContractAddress
	}
	if cfg.Token.CoinID == "" {
		cfg.Token.CoinID = def.Token.CoinID
	}
	if cfg.Token.Currency == "" {
		cfg.Token.Currency = def.Token.Currency
	}
	if cfg.Scanner.RecentLimit <= 0 {
		cfg.Scanner.RecentLimit = def.Scanner.RecentLimit
	}
	if cfg.Scanner.MinAgeDays < 0 {
		cfg.Scanner.MinAgeDays = def.Scanner.MinAgeDays
	}
	if cfg.Scanner.MinValueUSD < 0 {
		cfg.Scanner.MinValueUSD = def.Scanner.MinValueUSD
	}
	if cfg.Scanner.PnLWorkers <= 0 {
		cfg.Scanner.PnLWorkers = def.Scanner.PnLWorkers
	}
	if cfg.API.ExplorerBase == "" {
		cfg.API.ExplorerBase = def.API.ExplorerBase
	}
	if cfg.API.ChainID <= 0 {
		cfg.API.ChainID = def.API.ChainID
	}
	if cfg.API.PriceBase == "" {
		cfg.API.PriceBase = def.API.PriceBase
	}
	if cfg.HTTP.Retries < 0 {
		cfg.HTTP.Retries = def.HTTP.Retries
	}
	if cfg.HTTP.BackoffFactor <= 0 {
		cfg.HTTP.BackoffFactor = def.HTTP.BackoffFactor
	}
	if cfg.HTTP.TimeoutSeconds <= 0 {
		cfg.HTTP.TimeoutSeconds = def.HTTP.TimeoutSeconds
	}
	if cfg.HTTP.ExplorerRatePerSec <= 0 {
		cfg.HTTP.ExplorerRatePerSec = def.HTTP.ExplorerRatePerSec
	}
	if cfg.HTTP.PriceRatePerSec <= 0 {
		cfg.HTTP.PriceRatePerSec = def.HTTP.PriceRatePerSec
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = def.Log.Format
	}
}
