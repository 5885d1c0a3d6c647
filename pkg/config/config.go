// Package config provides the configuration shared by the logicbox
// binaries. Values come from built-in defaults and LOGICBOX_* environment
// variables, then an optional YAML file, then command line flags.
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/robotalks/logicbox/pkg/bus"
	"github.com/robotalks/logicbox/pkg/hostlink"
	"github.com/robotalks/logicbox/pkg/reader"
)

// Bus sources.
const (
	SourceCounter = "counter"
	SourcePattern = "pattern"
	SourceStatic  = "static"
)

// Config is the complete configuration.
type Config struct {
	Device  DeviceConfig  `yaml:"device"`
	Link    LinkConfig    `yaml:"link"`
	Bus     BusConfig     `yaml:"bus"`
	Monitor MonitorConfig `yaml:"monitor"`
}

// DeviceConfig configures the emulated peripheral.
type DeviceConfig struct {
	ID             string `yaml:"id"`
	TicksPerSecond uint   `yaml:"ticks-per-second"`
	// Verbosity is applied on reset.
	Verbosity int `yaml:"verbosity"`
}

// LinkConfig selects the host link. With neither Serial nor a TCP
// address the emulator talks over stdio.
type LinkConfig struct {
	// Listen is the TCP address the emulator accepts a host on.
	Listen string `yaml:"listen"`
	// Connect is the TCP address the client dials.
	Connect string `yaml:"connect"`
	Serial  string `yaml:"serial"`
	Baud    int    `yaml:"baud"`
}

// Target returns the link a client connects: the serial device if set,
// the TCP address otherwise.
func (c *LinkConfig) Target() string {
	if c.Serial != "" {
		return c.Serial
	}
	return c.Connect
}

// BusConfig selects the sample source of the emulator.
type BusConfig struct {
	Source string   `yaml:"source"`
	Hold   uint     `yaml:"hold"`
	Values []uint16 `yaml:"values"`
}

// MonitorConfig enables the client side sinks. Empty disables.
type MonitorConfig struct {
	// MQTTBrokerURL e.g. mqtt://host:port/topic-prefix/
	MQTTBrokerURL string `yaml:"mqtt"`
	WebsocketAddr string `yaml:"websocket"`
	CaptureDB     string `yaml:"capture"`
}

var (
	baseConfig = Config{
		Device: DeviceConfig{
			TicksPerSecond: uint(reader.DefaultTicksPerSecond),
			Verbosity:      int(reader.DefaultVerbosity),
		},
		Link: LinkConfig{Baud: hostlink.DefaultBaud},
		Bus:  BusConfig{Source: SourceCounter, Hold: 1000},
	}

	// defaultConfig is bound to command line flags.
	defaultConfig Config
	configFile    string
	flagCopiers   = make(map[string]func(dst, src *Config))
)

func init() {
	if val := os.Getenv("LOGICBOX_CONFIG"); val != "" {
		configFile = val
	}
	if val := os.Getenv("LOGICBOX_ID"); val != "" {
		baseConfig.Device.ID = val
	} else {
		baseConfig.Device.ID = MachineID()
	}
	if val := os.Getenv("LOGICBOX_LISTEN"); val != "" {
		baseConfig.Link.Listen = val
	}
	if val := os.Getenv("LOGICBOX_CONNECT"); val != "" {
		baseConfig.Link.Connect = val
	}
	if val := os.Getenv("LOGICBOX_SERIAL"); val != "" {
		baseConfig.Link.Serial = val
	}
	if val, err := strconv.Atoi(os.Getenv("LOGICBOX_BAUD")); err == nil {
		baseConfig.Link.Baud = val
	}
	if val := os.Getenv("LOGICBOX_MQTT_URL"); val != "" {
		baseConfig.Monitor.MQTTBrokerURL = val
	}
	defaultConfig = baseConfig.clone()
}

func bindFlag[T any](name, usage string, field func(*Config) *T, define func(*T, string, T, string)) {
	p := field(&defaultConfig)
	define(p, name, *p, usage)
	flagCopiers[name] = func(dst, src *Config) { *field(dst) = *field(src) }
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&configFile, "config", configFile, "YAML configuration file.")
	bindFlag("id", "Device ID.", func(c *Config) *string { return &c.Device.ID }, flag.StringVar)
	bindFlag("tps", "Ticks per second.", func(c *Config) *uint { return &c.Device.TicksPerSecond }, flag.UintVar)
	bindFlag("verbosity", "Verbosity after reset, 0-3.", func(c *Config) *int { return &c.Device.Verbosity }, flag.IntVar)
	bindFlag("listen", "Accept the host link on this TCP address.", func(c *Config) *string { return &c.Link.Listen }, flag.StringVar)
	bindFlag("connect", "Connect the device link at this TCP address.", func(c *Config) *string { return &c.Link.Connect }, flag.StringVar)
	bindFlag("serial", "Serial device of the link.", func(c *Config) *string { return &c.Link.Serial }, flag.StringVar)
	bindFlag("baud", "Serial baud rate.", func(c *Config) *int { return &c.Link.Baud }, flag.IntVar)
	bindFlag("bus", "Bus source: counter, pattern or static.", func(c *Config) *string { return &c.Bus.Source }, flag.StringVar)
	bindFlag("hold", "Ticks each bus value is held.", func(c *Config) *uint { return &c.Bus.Hold }, flag.UintVar)
	bindFlag("mqtt", "MQTT broker URL to publish reports.", func(c *Config) *string { return &c.Monitor.MQTTBrokerURL }, flag.StringVar)
	bindFlag("ws", "Serve report lines over websocket on this address.", func(c *Config) *string { return &c.Monitor.WebsocketAddr }, flag.StringVar)
	bindFlag("capture", "Record sample reports into this sqlite database.", func(c *Config) *string { return &c.Monitor.CaptureDB }, flag.StringVar)
}

// Default gets the flag bound config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config from defaults and flags, ignoring any file.
func NewConfig() *Config {
	conf := defaultConfig.clone()
	return &conf
}

// Load creates the Config after flags are parsed.
func Load() (*Config, error) {
	var set []string
	flag.Visit(func(f *flag.Flag) {
		set = append(set, f.Name)
	})
	return LoadFile(configFile, set)
}

// LoadFile creates a Config from the YAML file at path, then applies the
// named flags. An empty path loads no file.
func LoadFile(path string, flagsSet []string) (*Config, error) {
	if path == "" {
		conf := NewConfig()
		return conf, conf.Validate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	conf := baseConfig.clone()
	if err := yaml.Unmarshal(data, &conf); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for _, name := range flagsSet {
		if cp := flagCopiers[name]; cp != nil {
			cp(&conf, &defaultConfig)
		}
	}
	return &conf, conf.Validate()
}

// Validate checks values which are not usable.
func (c *Config) Validate() error {
	if c.Device.TicksPerSecond == 0 || c.Device.TicksPerSecond > 1000000 {
		return fmt.Errorf("ticks per second %d out of range", c.Device.TicksPerSecond)
	}
	if !reader.Verbosity(c.Device.Verbosity).IsValid() {
		return fmt.Errorf("invalid verbosity %d", c.Device.Verbosity)
	}
	if c.Link.Serial != "" && (c.Link.Listen != "" || c.Link.Connect != "") {
		return fmt.Errorf("serial link excludes a TCP link")
	}
	if c.Link.Serial != "" && c.Link.Baud <= 0 {
		return fmt.Errorf("invalid baud rate %d", c.Link.Baud)
	}
	switch c.Bus.Source {
	case SourceCounter, SourceStatic:
	case SourcePattern:
		if len(c.Bus.Values) == 0 {
			return fmt.Errorf("pattern bus requires values")
		}
	default:
		return fmt.Errorf("unknown bus source %q", c.Bus.Source)
	}
	return nil
}

// NewSource creates the bus source sampled by the emulator.
func (c *BusConfig) NewSource(clock bus.Clock) reader.Bus {
	switch c.Source {
	case SourcePattern:
		return &bus.Pattern{Clock: clock, Values: c.Values, Hold: uint32(c.Hold)}
	case SourceStatic:
		// inputs are pulled up when nothing drives them
		var reg bus.Register
		reg.Set(0xffff)
		if len(c.Values) > 0 {
			reg.Set(c.Values[0])
		}
		return &reg
	}
	return bus.Counter(clock, uint32(c.Hold))
}

func (c Config) clone() Config {
	c.Bus.Values = append([]uint16(nil), c.Bus.Values...)
	return c
}
