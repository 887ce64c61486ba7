package config

type AppConfig struct {
	Log    LogConfig
	Game   GameConfig
	Farm   FarmConfig
	Status StatusConfig
	Notify NotifyConfig
}

func LoadApp() (AppConfig, error) {
	logCfg, err := LoadLog()
	if err != nil {
		return AppConfig{}, err
	}
	gameCfg, err := LoadGame()
	if err != nil {
		return AppConfig{}, err
	}
	farmCfg, err := LoadFarm()
	if err != nil {
		return AppConfig{}, err
	}
	statusCfg, err := LoadStatus()
	if err != nil {
		return AppConfig{}, err
	}
	notifyCfg, err := LoadNotify()
	if err != nil {
		return AppConfig{}, err
	}
	return AppConfig{
		Log:    logCfg,
		Game:   gameCfg,
		Farm:   farmCfg,
		Status: statusCfg,
		Notify: notifyCfg,
	}, nil
}
