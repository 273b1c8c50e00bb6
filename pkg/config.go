package converter

type Configuration struct {
	Verbosity        int    `json:"verbosity" yaml:"verbosity"`
	OutputDir        string `json:"output_dir" yaml:"output_dir"`
	LogFile          string `json:"log_file" yaml:"log_file"`
	KeepFile         bool   `json:"keep_file" yaml:"keep_file"`
	Gnuplot          bool   `json:"gnuplot" yaml:"gnuplot"`
	CompressionLevel int    `json:"compression_level" yaml:"compression_level"`
	Shuffle          bool   `json:"shuffle" yaml:"shuffle"`
	Checksum         bool   `json:"checksum" yaml:"checksum"`
	ChunkSize        int    `json:"chunk_size" yaml:"chunk_size"`
	NumWorkers       int    `json:"num_workers" yaml:"num_workers"`
	PreviewDir       string `json:"preview_dir" yaml:"preview_dir"`
	PreviewMaxPoints int    `json:"preview_max_points" yaml:"preview_max_points"`
	MetricsFile      string `json:"metrics_file" yaml:"metrics_file"`
	NoDB             bool   `json:"no_db" yaml:"no_db"`
	DBDriver         string `json:"db_driver" yaml:"db_driver"`
	Host             string `json:"host" yaml:"host"`
	User             string `json:"user" yaml:"user"`
	Passwd           string `json:"pass" yaml:"pass"`
	DBName           string `json:"dbname" yaml:"dbname"`
}

// DefaultConfiguration matches the layout used on the acquisition hosts.
func DefaultConfiguration() Configuration {
	return Configuration{
		Verbosity:        0,
		OutputDir:        "files/ram",
		LogFile:          "files/converter.log",
		KeepFile:         false,
		Gnuplot:          false,
		CompressionLevel: 9,
		Shuffle:          true,
		Checksum:         true,
		ChunkSize:        32768,
		NumWorkers:       1,
		PreviewMaxPoints: 5000,
		NoDB:             true,
		DBDriver:         "mysql",
		Host:             "localhost",
		User:             "converter",
		DBName:           "energy_daq",
	}
}
