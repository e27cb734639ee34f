package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

type AppConfig struct {
	Port     string `yaml:"port"`
	Database struct {
		Adapter string `yaml:"adapter"`
	} `yaml:"database"`
}

var App *AppConfig

func LoadAppConfig() error {
	App = &AppConfig{}

	path := os.Getenv("APP_CONFIG")
	if len(path) == 0 {
		path = "config/app.yml"
	}

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, App); err != nil {
			return err
		}
	}

	if len(App.Port) == 0 {
		App.Port = "5002"
	}
	if len(App.Database.Adapter) == 0 {
		App.Database.Adapter = "postgres"
	}

	return nil
}
