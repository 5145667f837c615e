package config

import (
	"encoding/json"
	"errors"

	"teensyadc/core"
)

var (
	ErrUnknownReference       = errors.New("config: unknown reference")
	ErrUnknownConversionSpeed = errors.New("config: unknown conversion speed")
	ErrUnknownSamplingSpeed   = errors.New("config: unknown sampling speed")
	ErrSettingRejected        = errors.New("config: converter rejected a setting")
	ErrCalibrationFailed      = errors.New("config: calibration failed")
)

// Config holds the power-on settings of a converter.
type Config struct {
	Resolution      uint8  `json:"resolution"`
	Averaging       uint8  `json:"averaging"` // 1 disables averaging
	Reference       string `json:"reference"` // "default" or "alt"
	ConversionSpeed string `json:"conversion_speed"`
	SamplingSpeed   string `json:"sampling_speed"`
	BusClockHz      uint32 `json:"bus_clock_hz"`

	// Offset is added to every result; negative values are subtracted.
	Offset     int16 `json:"offset"`
	PGAGain    uint8 `json:"pga_gain"` // 0 leaves the amplifier off
	Interrupts bool  `json:"interrupts"`
}

var references = map[string]core.Reference{
	"default": core.RefDefault,
	"alt":     core.RefAlt,
}

var conversionSpeeds = map[string]core.ConversionSpeed{
	"low":      core.LowSpeed,
	"med":      core.MedSpeed,
	"high":     core.HighSpeed,
	"adack_10": core.Adack10,
	"adack_20": core.Adack20,
}

var samplingSpeeds = map[string]core.SamplingSpeed{
	"very_low":       core.VeryLowSampling,
	"low":            core.LowSampling,
	"low_med":        core.LowMedSampling,
	"med":            core.MedSampling,
	"med_high":       core.MedHighSampling,
	"high":           core.HighSampling,
	"high_very_high": core.HighVeryHighSampling,
	"very_high":      core.VeryHighSampling,
}

// LoadConfig parses a JSON configuration string and returns a Config
func LoadConfig(jsonData []byte) (*Config, error) {
	var config Config

	err := json.Unmarshal(jsonData, &config)
	if err != nil {
		return nil, err
	}

	// Apply defaults
	applyDefaults(&config)

	if _, _, _, err := config.settings(); err != nil {
		return nil, err
	}
	return &config, nil
}

// applyDefaults fills in missing configuration values with sensible defaults
func applyDefaults(config *Config) {
	if config.Resolution == 0 {
		config.Resolution = 10
	}
	if config.Averaging == 0 {
		config.Averaging = 4
	}
	if config.Reference == "" {
		config.Reference = "default"
	}
	if config.ConversionSpeed == "" {
		config.ConversionSpeed = "med"
	}
	if config.SamplingSpeed == "" {
		config.SamplingSpeed = "med"
	}
	if config.BusClockHz == 0 {
		config.BusClockHz = core.DefaultBusClock
	}
}

// Default returns the settings a converter gets when nothing is configured
func Default() *Config {
	config := &Config{}
	applyDefaults(config)
	return config
}

func (cfg *Config) settings() (core.Reference, core.ConversionSpeed, core.SamplingSpeed, error) {
	ref, ok := references[cfg.Reference]
	if !ok {
		return 0, 0, 0, ErrUnknownReference
	}
	conv, ok := conversionSpeeds[cfg.ConversionSpeed]
	if !ok {
		return 0, 0, 0, ErrUnknownConversionSpeed
	}
	samp, ok := samplingSpeeds[cfg.SamplingSpeed]
	if !ok {
		return 0, 0, 0, ErrUnknownSamplingSpeed
	}
	return ref, conv, samp, nil
}

// Apply programs cfg into c and leaves it calibrated for the final
// settings. Names are checked before any register is written.
func Apply(c *core.Converter, cfg *Config) error {
	ref, conv, samp, err := cfg.settings()
	if err != nil {
		return err
	}

	before := c.Errors()

	c.SetBusClock(cfg.BusClockHz)
	c.SetReference(ref)
	c.SetResolution(cfg.Resolution)
	c.SetAveraging(cfg.Averaging)
	c.SetConversionSpeed(conv)
	c.SetSamplingSpeed(samp)

	if cfg.Offset < 0 {
		c.SetOffset(uint16(-int32(cfg.Offset)), true)
	} else {
		c.SetOffset(uint16(cfg.Offset), false)
	}

	if cfg.PGAGain != 0 {
		c.EnablePGA(cfg.PGAGain)
	} else {
		c.DisablePGA()
	}

	if cfg.Interrupts {
		c.EnableInterrupts()
	} else {
		c.DisableInterrupts()
	}

	// clock and sample time changes invalidate an earlier calibration
	c.Recalibrate()

	raised := c.Errors() &^ before
	switch {
	case raised.Has(core.ErrorOther):
		return ErrSettingRejected
	case raised.Has(core.ErrorCalibration):
		return ErrCalibrationFailed
	}
	return nil
}
