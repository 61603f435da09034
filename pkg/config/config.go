package config

// this holds the resolved configuration values from CLI
//
//nolint:lll // readablity
var (
	LogLevel          string // sets the log level (zap log level values)
	LogFormat         string // text vs json
	LogFilter         string // zapfilter rules, e.g. "*:race debug:*"
	EnableTelemetry   bool   // enable telemetry
	TelemetryEndpoint string // endpoint for telemetry, "stdout" writes metrics to stdout
	ProfilingPort     int    // port for profiling
	NatsURL           string // URL of the NATS server, empty means no publishing
	WaitForServices   string // duration to wait for other services to be ready
)

// Config holds the values of a single command run
type Config struct {
	File     string  // dataset file
	JSONPath string  // optional root of the dataset within the file
	Time     float64 // query time for single snapshots
	Speed    float64 // playback speed factor
	FPS      int     // frames per second
	From     float64 // start of playback
	To       float64 // end of playback, 0 means end of dataset
	Subject  string  // NATS subject override
	Watch    bool    // reload the dataset on change
	Colors   bool    // colored leaderboard output
	Output   string  // table or json
	LapMode  string  // distance or sample
}
