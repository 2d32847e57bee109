package configs

import (
	"encoding/json"
	"io/ioutil"
	"time"
)

type SchedulerConfig struct {
	LogFolder         string
	TickInterval      time.Duration
	CompletionLogSize int
}

func DefaultConfig() SchedulerConfig {
	return SchedulerConfig{
		TickInterval:      50 * time.Millisecond,
		CompletionLogSize: 128,
	}
}

func ReadConfigFromFile(filePath string) SchedulerConfig {
	data, err := ioutil.ReadFile(filePath)
	if err != nil {
		panic(err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, &config); err != nil {
		panic(err)
	}
	return config
}
