package structs

type EnvironmentModel struct {
	Database         database
	ConcurrentAmount int
	RabbitMQ         rabbitmq
	Log              log
	Email            email
	Server           server
	Router           router
	Data             data
	Model            model
	Trend            trend
}

type database struct {
	Client      string
	MaxIdle     uint
	MaxLifeTime string
	MaxOpenConn uint
	User        string
	Password    string
	Host        string
	Db          string
	Params      string
	Port        string
	LogEnable   int
}

type rabbitmq struct {
	Enable int
	Domain string
}

type log struct {
	Dir            string
	Level          string
	ElkEnable      int
	ElkIndex       string
	ElkURL         string
	LogstashEnable int
	LogstashURL    string
}

type email struct {
	APIUrl string
}

// server is the backend that receives worker callbacks.
type server struct {
	AppAPI string
}

type router struct {
	Port int
	Mode string
}

// data holds the CSV locations, file names are joined onto Dir.
type data struct {
	Dir           string
	Profiles      string
	DietLogs      string
	FoodItems     string
	FeedbackLogs  string
	ExerciseItems string
}

type model struct {
	Dir        string
	Epochs     int
	BatchSize  int
	Patience   int
	SampleFrac float64
	Seed       int64
}

type trend struct {
	Window  int
	MinRows int
	Epochs  int
	Hidden  int
}
