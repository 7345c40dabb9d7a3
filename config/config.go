package config

import (
	"encoding/json"
	"os"
	"sync"
)

type Config struct {
	ListenAddr        string `json:"listenAddr"`
	DatabasePath      string `json:"databasePath"`
	SeedCSVPath       string `json:"seedCSVPath"`
	RowsPerPage       int    `json:"rowsPerPage"`
	SessionTTLMinutes int    `json:"sessionTTLMinutes"`
}

var (
	cfg Config
	mu  sync.RWMutex
)

const configFilePath = "./srs_config.json"

func applyDefaults(c Config) Config {
	if c.ListenAddr == "" {
		c.ListenAddr = ":8080"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "./srs.db"
	}
	if c.RowsPerPage == 0 {
		c.RowsPerPage = 1000
	}
	if c.SessionTTLMinutes == 0 {
		c.SessionTTLMinutes = 480
	}
	return c
}

func LoadConfig() (Config, error) {
	mu.Lock()
	defer mu.Unlock()

	file, err := os.ReadFile(configFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			cfg = applyDefaults(Config{})
			return cfg, nil
		}
		return Config{}, err
	}

	var tempCfg Config
	if err := json.Unmarshal(file, &tempCfg); err != nil {
		return Config{}, err
	}
	cfg = applyDefaults(tempCfg)

	return cfg, nil
}

func SaveConfig(newCfg Config) error {
	mu.Lock()
	defer mu.Unlock()

	newCfg = applyDefaults(newCfg)

	file, err := json.MarshalIndent(newCfg, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(configFilePath, file, 0644); err != nil {
		return err
	}
	cfg = newCfg
	return nil
}

func GetConfig() Config {
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}
