package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Jeshoorin/Gym-Suggestions/structs"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var EnvConfig *structs.EnvironmentModel

type EnvService struct{}

func (e *EnvService) InitEnv() {
	e.setDefaults()
	e.loadConfig()
	e.configToModel()
}

func (e *EnvService) setDefaults() {
	viper.SetDefault("router.port", 5001)
	viper.SetDefault("router.mode", "release")
	viper.SetDefault("concurrentAmount", 4)
	viper.SetDefault("data.dir", "data")
	viper.SetDefault("data.profiles", "user_profiles.csv")
	viper.SetDefault("data.diet_logs", "diet_logs.csv")
	viper.SetDefault("data.food_items", "food_items.csv")
	viper.SetDefault("data.feedback_logs", "feedback_logs.csv")
	viper.SetDefault("data.exercise_items", "exercise_items.csv")
	viper.SetDefault("model.dir", "models")
	viper.SetDefault("model.epochs", 50)
	viper.SetDefault("model.batch_size", 64)
	viper.SetDefault("model.patience", 5)
	viper.SetDefault("model.sample_frac", 1.0)
	viper.SetDefault("model.seed", 42)
	viper.SetDefault("trend.window", 7)
	viper.SetDefault("trend.min_rows", 10)
	viper.SetDefault("trend.epochs", 20)
	viper.SetDefault("trend.hidden", 64)
	viper.SetDefault("log.dir", "logs")
	viper.SetDefault("log.level", "info")
}

func (e *EnvService) loadConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// no config.yml, fall back to environment variables (router.port -> ROUTER_PORT),
			// seeded from .env when present
			if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
				panic(fmt.Errorf("Fatal error .env file: %s \n", err))
			}
			viper.AutomaticEnv()
			viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		} else {
			panic(fmt.Errorf("Fatal error config file: %s \n", err))
		}
	}
}

func (e *EnvService) configToModel() {
	var config structs.EnvironmentModel
	config.Database.Client = viper.GetString("database.client")
	config.Database.Host = viper.GetString("database.host")
	config.Database.User = viper.GetString("database.user")
	config.Database.Password = viper.GetString("database.password")
	config.Database.Db = viper.GetString("database.name")
	config.Database.MaxIdle = uint(viper.GetInt("database.max_idle"))
	config.Database.MaxOpenConn = uint(viper.GetInt("database.max_open_conn"))
	config.Database.MaxLifeTime = viper.GetString("database.max_life_time")
	config.Database.Params = viper.GetString("database.params")
	config.Database.Port = viper.GetString("database.port")
	config.Database.LogEnable = viper.GetInt("database.log_enable")
	config.ConcurrentAmount = viper.GetInt("concurrentAmount")
	config.RabbitMQ.Enable = viper.GetInt("rabbitmq.enable")
	config.RabbitMQ.Domain = viper.GetString("rabbitmq.domain")
	config.Log.Dir = viper.GetString("log.dir")
	config.Log.Level = viper.GetString("log.level")
	config.Log.ElkEnable = viper.GetInt("log.elk.enable")
	config.Log.ElkIndex = viper.GetString("log.elk.index")
	config.Log.ElkURL = viper.GetString("log.elk.url")
	config.Log.LogstashEnable = viper.GetInt("log.logstash.enable")
	config.Log.LogstashURL = viper.GetString("log.logstash.url")
	config.Email.APIUrl = viper.GetString("email.api_url")
	config.Server.AppAPI = viper.GetString("server.app_api")
	config.Router.Port = viper.GetInt("router.port")
	config.Router.Mode = viper.GetString("router.mode")
	config.Data.Dir = viper.GetString("data.dir")
	config.Data.Profiles = viper.GetString("data.profiles")
	config.Data.DietLogs = viper.GetString("data.diet_logs")
	config.Data.FoodItems = viper.GetString("data.food_items")
	config.Data.FeedbackLogs = viper.GetString("data.feedback_logs")
	config.Data.ExerciseItems = viper.GetString("data.exercise_items")
	config.Model.Dir = viper.GetString("model.dir")
	config.Model.Epochs = viper.GetInt("model.epochs")
	config.Model.BatchSize = viper.GetInt("model.batch_size")
	config.Model.Patience = viper.GetInt("model.patience")
	config.Model.SampleFrac = viper.GetFloat64("model.sample_frac")
	config.Model.Seed = viper.GetInt64("model.seed")
	config.Trend.Window = viper.GetInt("trend.window")
	config.Trend.MinRows = viper.GetInt("trend.min_rows")
	config.Trend.Epochs = viper.GetInt("trend.epochs")
	config.Trend.Hidden = viper.GetInt("trend.hidden")
	EnvConfig = &config
}

// DataPath joins a configured data file name onto the data directory.
func DataPath(name string) string {
	return filepath.Join(EnvConfig.Data.Dir, name)
}
