package dataviewer

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/ini.v1"
)

// Config is the parsed form of a monitor configuration file.
//
// The file is INI formatted:
//
//	[monitor]
//	type      = timeseries
//	title     = Strain overview
//	channels  = L1:GDS-CALIB_STRAIN, L1:PEM-EY_WIND
//	refresh   = 2s
//	lookback  = 60s
//	stale-after = 10s
//
//	[source]
//	kind        = sim
//	sample-rate = 16
//	frame       = 1s
//
//	[channel/L1:PEM-EY_WIND]
//	frequency = 0.2
//	noise     = 0.5
//
// Optional [server], [sink.redis] and [output] sections enable the
// status server, the redis sink and snapshot files.
type Config struct {
	Path string

	Monitor  MonitorConfig
	Source   SourceConfig
	Server   ServerConfig
	Redis    RedisConfig
	Output   OutputConfig
	Channels ChannelList
}

type MonitorConfig struct {
	Type       string        `ini:"type"`
	Title      string        `ini:"title"`
	Refresh    time.Duration `ini:"refresh"`
	Lookback   time.Duration `ini:"lookback"`
	StaleAfter time.Duration `ini:"stale-after"`
}

type SourceConfig struct {
	Kind       string        `ini:"kind"`
	SampleRate float64       `ini:"sample-rate"`
	Frame      time.Duration `ini:"frame"`
	File       string        `ini:"file"`
	Realtime   bool          `ini:"realtime"`
	Loop       bool          `ini:"loop"`
}

type ServerConfig struct {
	Enabled bool
	Addr    string `ini:"addr"`
}

type RedisConfig struct {
	Enabled bool
	Addr    string `ini:"addr"`
	DB      int    `ini:"db"`
	Prefix  string `ini:"prefix"`
}

type OutputConfig struct {
	Dir       string `ini:"dir"`
	Snapshots bool   `ini:"snapshots"`
}

const channelSectionPrefix = "channel/"

// LoadConfig reads and validates a configuration file.
func LoadConfig(path string) (*Config, error) {
	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	cfg := &Config{
		Path: path,
		Monitor: MonitorConfig{
			Type:       "timeseries",
			Refresh:    2 * time.Second,
			Lookback:   60 * time.Second,
			StaleAfter: 10 * time.Second,
		},
		Source: SourceConfig{
			Kind:       "sim",
			SampleRate: defaultSampleRate,
			Frame:      time.Second,
			Realtime:   true,
		},
		Redis: RedisConfig{Prefix: "dataviewer"},
	}

	mon := file.Section("monitor")
	if err := mon.MapTo(&cfg.Monitor); err != nil {
		return nil, fmt.Errorf("invalid [monitor] section: %w", err)
	}
	if err := file.Section("source").MapTo(&cfg.Source); err != nil {
		return nil, fmt.Errorf("invalid [source] section: %w", err)
	}
	if sec, err := file.GetSection("server"); err == nil {
		cfg.Server.Enabled = true
		if err := sec.MapTo(&cfg.Server); err != nil {
			return nil, fmt.Errorf("invalid [server] section: %w", err)
		}
		if cfg.Server.Addr == "" {
			cfg.Server.Addr = ":8080"
		}
	}
	if sec, err := file.GetSection("sink.redis"); err == nil {
		cfg.Redis.Enabled = true
		if err := sec.MapTo(&cfg.Redis); err != nil {
			return nil, fmt.Errorf("invalid [sink.redis] section: %w", err)
		}
		if cfg.Redis.Addr == "" {
			return nil, fmt.Errorf("[sink.redis] requires addr")
		}
	}
	if sec, err := file.GetSection("output"); err == nil {
		if err := sec.MapTo(&cfg.Output); err != nil {
			return nil, fmt.Errorf("invalid [output] section: %w", err)
		}
	}

	names := splitList(mon.Key("channels").String())
	if len(names) == 0 {
		return nil, fmt.Errorf("[monitor] requires at least one channel")
	}
	cfg.Channels, err = NewChannelList(names...)
	if err != nil {
		return nil, err
	}
	for _, c := range cfg.Channels {
		c.SampleRate = cfg.Source.SampleRate
	}

	// per-channel overrides
	for _, sec := range file.Sections() {
		if !strings.HasPrefix(sec.Name(), channelSectionPrefix) {
			continue
		}
		name := strings.TrimPrefix(sec.Name(), channelSectionPrefix)
		c := cfg.Channels.Find(name)
		if c == nil {
			return nil, fmt.Errorf("section [%s] refers to unknown channel %q", sec.Name(), name)
		}
		if err := applyChannelSection(c, sec); err != nil {
			return nil, fmt.Errorf("invalid section [%s]: %w", sec.Name(), err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyChannelSection(c *Channel, sec *ini.Section) error {
	for _, key := range sec.Keys() {
		switch key.Name() {
		case "amplitude":
			v, err := key.Float64()
			if err != nil {
				return err
			}
			c.Amplitude = v
		case "frequency":
			v, err := key.Float64()
			if err != nil {
				return err
			}
			c.Frequency = v
		case "offset":
			v, err := key.Float64()
			if err != nil {
				return err
			}
			c.Offset = v
		case "noise":
			v, err := key.Float64()
			if err != nil {
				return err
			}
			c.Noise = v
		case "sample-rate":
			v, err := key.Float64()
			if err != nil {
				return err
			}
			c.SampleRate = v
		case "unit":
			c.Unit = key.String()
		case "bits":
			c.Bits = splitList(key.String())
		default:
			return fmt.Errorf("unknown key %q", key.Name())
		}
	}
	return nil
}

func (c *Config) validate() error {
	if c.Monitor.Type == "" {
		return fmt.Errorf("[monitor] requires a type")
	}
	if c.Monitor.Refresh <= 0 {
		return fmt.Errorf("[monitor] refresh must be positive, got %s", c.Monitor.Refresh)
	}
	if c.Monitor.Lookback <= 0 {
		return fmt.Errorf("[monitor] lookback must be positive, got %s", c.Monitor.Lookback)
	}
	if c.Monitor.StaleAfter <= 0 {
		return fmt.Errorf("[monitor] stale-after must be positive, got %s", c.Monitor.StaleAfter)
	}
	if c.Source.Kind == "" {
		return fmt.Errorf("[source] requires a kind")
	}
	if c.Source.Frame <= 0 {
		return fmt.Errorf("[source] frame must be positive, got %s", c.Source.Frame)
	}
	if c.Source.SampleRate <= 0 {
		return fmt.Errorf("[source] sample-rate must be positive, got %g", c.Source.SampleRate)
	}
	return nil
}

// splitList splits a comma or whitespace separated value list.
func splitList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	out := fields[:0]
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
