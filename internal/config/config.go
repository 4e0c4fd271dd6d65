package config

import (
	"bytes"

	"github.com/amineamaach/simulators/iotSimulatorMQTT/internal/component"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Cfg struct {
	MQTTConfig       component.MQTTConfig `mapstructure:"mqtt_config"`
	APIConfig        component.API        `mapstructure:"api"`
	SimulationConfig component.Simulation `mapstructure:"simulation"`
	LoggerConfig     component.Logger     `mapstructure:"logger"`
	EnablePrometheus bool                 `mapstructure:"enable_prometheus"`
}

func GetConfigs() Cfg {
	var configs Cfg
	logger := logrus.New()
	v := viper.New()

	v.SetConfigName("config") // name of config file (without extension)
	v.SetConfigType("json")   // REQUIRED if the config file does not have the extension in the name
	v.AddConfigPath("./internal/config/")
	v.AddConfigPath("./configs/")
	v.AddConfigPath("/configs/")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found
			logger.Errorln("⛔ Config file not found! using default configs ⛔")
			return setDefault(v, logger)
		} else {
			logger.Errorln("Config file was found but another error was produced ⛔")
			panic(err)
		}
	} else {
		logger.Infoln("Config file found")
	}

	err := v.Unmarshal(&configs)
	if err != nil {
		logger.Errorln("Unable to unmarshal configs ⛔")
		panic(err)
	}
	logger.Infoln("Config file parsed successfully ✅")
	return configs
}

func setDefault(v *viper.Viper, log *logrus.Logger) Cfg {
	var configs Cfg

	defaultConfig := []byte(`
	{
		"mqtt_config": {
			"url": "tcp://localhost:1883",
			"qos": 1,
			"client_id": "",
			"user": "",
			"password": "",
			"keep_alive": 10,
			"connect_timeout": "10s",
			"connect_retry": 5,
			"clean_start": true,
			"session_expiry_interval": 60
		},

		"api": {
			"bind": ":8000",
			"catalog_ttl": 30
		},

		"simulation": {
			"default_interval": 5,
			"history_size": 100
		},

		"logger": {
			"level": "INFO",
			"format": "TEXT",
			"disable_timestamp": false
		},

		"enable_prometheus": true
	}
	`)

	err := v.MergeConfig(bytes.NewReader(defaultConfig))
	if err != nil {
		log.Errorln("Error using default configs, exiting ⛔")
		panic(err)
	}

	err = v.Unmarshal(&configs)
	if err != nil {
		log.Errorln("Unable to unmarshal default configs ⛔")
		panic(err)
	}
	log.Infoln("Default configs parsed successfully ✅")
	return configs
}
