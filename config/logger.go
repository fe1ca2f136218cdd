package config

import (
	"github.com/spf13/viper"
)

// Logger logger config struct
type Logger struct {
	Level      int    `validate:"gte=0,lte=6"`
	Format     string `validate:"oneof=text json"`
	Output     string `validate:"oneof=stdout stderr file"`
	OutputFile string `validate:"required_if=Output file"`
}

func getLoggerConfig(v *viper.Viper) *Logger {
	return &Logger{
		Level:      v.GetInt("logger.level"),
		Format:     v.GetString("logger.format"),
		Output:     v.GetString("logger.output"),
		OutputFile: v.GetString("logger.output_file"),
	}
}
