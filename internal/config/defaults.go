package config

const (
	defaultConfigPath      = "~/.config/awp/config.toml"
	defaultStateDir        = "~/.local/share/awp"
	defaultPlayerBinary    = "mplayer"
	defaultVolMax          = 2.0
	defaultVolFudge        = 1.0
	defaultVolumeStep      = 0.03
	defaultEscapeTimeoutMS = 100
	defaultScanWeight      = 16.0
	defaultScanVolume      = 0.5
	defaultLastFMBaseURL   = "http://ws.audioscrobbler.com/2.0/"
	defaultLastFMCooldown  = 30
	defaultLastFMTimeout   = 10
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"

	socketName  = "awp.sock"
	historyName = "history.db"
	logName     = "awp.log"
)

// defaultExtensions lists recognized audio extensions, highest priority first.
var defaultExtensions = []string{"flac", "aac", "m4a", "wav", "ogg", "mp3", "wma"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
		},
		Player: Player{
			Binary:     defaultPlayerBinary,
			VolMax:     defaultVolMax,
			VolFudge:   defaultVolFudge,
			VolumeStep: defaultVolumeStep,
		},
		Input: Input{
			EscapeTimeoutMS: defaultEscapeTimeoutMS,
		},
		Control: Control{
			Enabled: true,
		},
		Scan: Scan{
			Extensions: append([]string(nil), defaultExtensions...),
			Weight:     defaultScanWeight,
			Volume:     defaultScanVolume,
			Sniff:      true,
			Recurse:    true,
		},
		History: History{
			Enabled: true,
		},
		LastFM: LastFM{
			BaseURL:         defaultLastFMBaseURL,
			CooldownSeconds: defaultLastFMCooldown,
			RequestTimeout:  defaultLastFMTimeout,
		},
		Watch: Watch{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
