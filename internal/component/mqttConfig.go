package component

type MQTTConfig struct {
	URL                   string `json:"url,omitempty" mapstructure:"url"`
	QoS                   uint8  `json:"qos,omitempty" mapstructure:"qos"`
	ClientID              string `json:"client_id,omitempty" mapstructure:"client_id"`
	CleanStart            bool   `json:"clean_start,omitempty" mapstructure:"clean_start"`
	SessionExpiryInterval uint32 `json:"session_expiry_interval,omitempty" mapstructure:"session_expiry_interval"`
	User                  string `json:"user,omitempty" mapstructure:"user"`
	Password              string `json:"password,omitempty" mapstructure:"password"`
	ConnectTimeout        string `json:"connect_timeout,omitempty" mapstructure:"connect_timeout"`
	KeepAlive             uint16 `json:"keep_alive,omitempty" mapstructure:"keep_alive"`
	// How long to wait between connection attempts (defaults to 10s)
	ConnectRetry int64 `json:"connect_retry,omitempty" mapstructure:"connect_retry"`
	// TODO : TLS
}

// Returns default configs
func NewMQTTConfig() *MQTTConfig {
	return &MQTTConfig{
		URL:                   "tcp://localhost:1883",
		QoS:                   1,
		ClientID:              "",
		CleanStart:            true,
		SessionExpiryInterval: 60,
		User:                  "",
		Password:              "",
		ConnectTimeout:        "10s",
		KeepAlive:             10,
		ConnectRetry:          5,
	}
}
