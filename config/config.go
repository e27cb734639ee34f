package config

func InitializeConfig() error {
	NewLoggerService()
	if err := LoadAppConfig(); err != nil {
		return err
	}
	if err := ConnectDatabase(); err != nil {
		return err
	}

	return nil
}
