package domain

// AudioSample is a single mono sample in [-1.0, 1.0] at the 48kHz rate the
// symbol timing in this module hard-assumes.
type AudioSample = float32

// Frequency is a scalar Hz value with the usual Hz/kHz/MHz constructors.
type Frequency struct {
	hz float64
}

// Hz constructs a Frequency from a Hz value.
func Hz(hz float64) Frequency { return Frequency{hz: hz} }

// KHz constructs a Frequency from a kHz value.
func KHz(khz float64) Frequency { return Frequency{hz: khz * 1_000.0} }

// MHz constructs a Frequency from a MHz value.
func MHz(mhz float64) Frequency { return Frequency{hz: mhz * 1_000_000.0} }

// AsHz returns the frequency in Hz.
func (f Frequency) AsHz() float64 { return f.hz }

// AudioDeviceInfo describes one enumerated audio device.
type AudioDeviceInfo struct {
	ID        string
	Name      string
	IsInput   bool
	IsDefault bool
}

// SerialPortInfo describes one enumerated serial port.
type SerialPortInfo struct {
	Name     string
	PortType string
}

// ModemConfig is the subset of application configuration the core needs.
// LoadConfig and SaveConfig read and write just this struct as YAML; the
// wider application settings file and its menus are out of scope (spec.md §1).
type ModemConfig struct {
	SampleRate   int     `yaml:"sample_rate"`
	CarrierFreq  float64 `yaml:"carrier_freq"`
	FFTSize      int     `yaml:"fft_size"`
	TxPowerWatts uint32  `yaml:"tx_power_watts"`
	SerialPort   string  `yaml:"serial_port"`
	SerialBaud   int     `yaml:"serial_baud"`
}

// DefaultModemConfig returns the configuration this module assumes when no
// file is present: 48kHz mono, 1000Hz carrier, 4096-point FFT, 25W TX.
func DefaultModemConfig() ModemConfig {
	return ModemConfig{
		SampleRate:   48000,
		CarrierFreq:  1000.0,
		FFTSize:      4096,
		TxPowerWatts: 25,
		SerialBaud:   38400,
	}
}

// ModemStatus is a point-in-time snapshot of what the core is doing, for a
// UI or CLI to poll without reaching into internals.
type ModemStatus struct {
	RxRunning     bool
	TxRunning     bool
	CarrierFreqHz float64
	SignalLevel   float32
}

// RadioInfo is returned after a successful radio connect.
type RadioInfo struct {
	Port       string
	BaudRate   int
	FrequencyHz float64
	Mode       string
	Connected  bool
}
