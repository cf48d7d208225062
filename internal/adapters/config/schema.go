package config

// Sitefile represents the structure of the xo.yaml configuration file.
// Empty fields keep their defaults.
type Sitefile struct {
	Content  string        `yaml:"content"`
	Layouts  string        `yaml:"layouts"`
	Partials string        `yaml:"partials"`
	Output   string        `yaml:"output"`
	Public   *string       `yaml:"public"`
	Port     int           `yaml:"port"`
	BaseURL  string        `yaml:"baseUrl"`
	Layout   string        `yaml:"layout"`
	Exts     ExtensionsDTO `yaml:"extensions"`
	Watch    WatchDTO      `yaml:"watch"`
}

// ExtensionsDTO overrides how files are classified.
type ExtensionsDTO struct {
	Content []string `yaml:"content"`
	Assets  []string `yaml:"assets"`
	Output  string   `yaml:"output"`
}

// WatchDTO configures the development watcher.
type WatchDTO struct {
	Backend string `yaml:"backend"`
}
