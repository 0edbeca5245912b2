package main

// GlobalFlags holds persistent flags shared by every subcommand.
type GlobalFlags struct {
	ConfigPath      string
	BasePath        string
	LogLevel        string
	LogFormat       string
	LogFile         string
	MetricsTextfile string
}

// RecordFlags holds flags for the record command.
type RecordFlags struct {
	EnvKVs  []string
	WorkDir string
}
