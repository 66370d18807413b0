// Command psk31d is a headless BPSK-31 modem daemon: it captures audio,
// decodes received text to stdout, optionally transmits text given on the
// command line, and optionally drives a Yaesu FT-991A over CAT for PTT and
// frequency control.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gordonklaus/portaudio"
	"github.com/spf13/pflag"

	"github.com/nerdenator/psk31-client-workspace/adapters"
	"github.com/nerdenator/psk31-client-workspace/audioengine"
	"github.com/nerdenator/psk31-client-workspace/domain"
	"github.com/nerdenator/psk31-client-workspace/radio"
)

func main() {
	var (
		configFile   = pflag.StringP("config-file", "c", "", "YAML configuration file. Defaults are used if omitted.")
		listDevices  = pflag.BoolP("list-devices", "l", false, "List audio devices and exit.")
		listSerial   = pflag.Bool("list-serial-ports", false, "List serial ports and exit.")
		audioInDev   = pflag.StringP("audio-in", "i", "", "Input audio device name (required to receive).")
		audioOutDev  = pflag.StringP("audio-out", "o", "", "Output audio device name (required to transmit).")
		carrierFreq  = pflag.Float64P("carrier", "f", 0, "RX/TX carrier frequency in Hz, 200-3500. Overrides config.")
		serialPort   = pflag.StringP("serial-port", "s", "", "Serial device for FT-991A CAT control, e.g. /dev/ttyUSB0.")
		serialBaud   = pflag.UintP("serial-baud", "b", 0, "CAT serial baud rate. Overrides config.")
		txText       = pflag.StringP("transmit", "t", "", "Text to transmit, then exit.")
		receive      = pflag.BoolP("receive", "r", false, "Receive and print decoded text to stdout until interrupted.")
		logLevel     = pflag.StringP("log-level", "v", "info", "Log level: debug, info, warn, error.")
		help         = pflag.BoolP("help", "h", false, "Display help text.")
	)

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "psk31d - a BPSK-31 soundcard modem with FT-991A CAT control.\n\n")
		fmt.Fprintf(os.Stderr, "Usage: psk31d [options]\n\n")
		pflag.PrintDefaults()
	}

	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(0)
	}

	if level, err := log.ParseLevel(*logLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.Warn("unrecognized log level, leaving default", "level", *logLevel)
	}

	cfg := domain.DefaultModemConfig()
	if *configFile != "" {
		loaded, err := domain.LoadConfig(*configFile)
		if err != nil {
			log.Fatal("failed to load config", "err", err)
		}
		cfg = loaded
	}
	if *carrierFreq != 0 {
		cfg.CarrierFreq = *carrierFreq
	}
	if *serialBaud != 0 {
		cfg.SerialBaud = int(*serialBaud)
	}
	if *serialPort != "" {
		cfg.SerialPort = *serialPort
	}

	if err := portaudio.Initialize(); err != nil {
		log.Fatal("failed to initialize audio subsystem", "err", err)
	}
	defer portaudio.Terminate()

	if *listDevices {
		runListDevices()
		return
	}

	if *listSerial {
		runListSerialPorts()
		return
	}

	state := audioengine.NewState(cfg)
	events := &stdoutEvents{}
	engine := audioengine.NewEngine(state, events, adapters.NewPortAudioInput(), adapters.NewPortAudioOutput())

	if cfg.SerialPort != "" {
		radioControl, info, closeRadio, err := connectRadio(cfg)
		if err != nil {
			log.Error("radio control unavailable, continuing without PTT", "err", err)
		} else {
			defer closeRadio()
			state.SetRadio(radioControl, cfg.SerialPort)
			log.Info("radio connected", "port", info.Port, "baud", info.BaudRate,
				"freq_hz", info.FrequencyHz, "mode", info.Mode)
		}
	}

	if !*receive && *txText == "" {
		fmt.Fprintln(os.Stderr, "nothing to do: pass --receive, --transmit, or --list-devices")
		pflag.Usage()
		os.Exit(1)
	}

	if *receive {
		if *audioInDev == "" {
			log.Fatal("--receive requires --audio-in")
		}
		if err := engine.StartAudioStream(*audioInDev); err != nil {
			log.Fatal("failed to start audio capture", "err", err)
		}
		if err := engine.StartRX(); err != nil {
			log.Fatal("failed to start receiver", "err", err)
		}
		log.Info("receiving", "carrier_hz", cfg.CarrierFreq, "device", *audioInDev)

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		if *txText != "" {
			if err := transmit(engine, *txText, *audioOutDev); err != nil {
				log.Error("transmit failed", "err", err)
			}
		}

		statusTicker := time.NewTicker(30 * time.Second)
		defer statusTicker.Stop()

		for {
			select {
			case <-sig:
				log.Info("shutting down")
				engine.StopAudioStream()
				return
			case <-statusTicker.C:
				status := engine.Status()
				log.Debug("status", "rx_running", status.RxRunning, "tx_running", status.TxRunning,
					"carrier_hz", status.CarrierFreqHz)
			}
		}
	}

	if err := transmit(engine, *txText, *audioOutDev); err != nil {
		log.Fatal("transmit failed", "err", err)
	}
}

func transmit(engine *audioengine.Engine, text, audioOutDev string) error {
	if audioOutDev == "" {
		return domain.NewError(domain.KindAudio, "--transmit requires --audio-out")
	}
	if err := engine.StartTX(text, audioOutDev); err != nil {
		return err
	}
	for engine.IsTransmitting() {
		time.Sleep(100 * time.Millisecond)
	}
	return nil
}

// connectRadio opens the CAT serial link and reports back a RadioInfo
// snapshot (frequency/mode queried once, best-effort) alongside the control
// surface itself, so the caller has something concrete to log or display
// instead of a bare handle.
func connectRadio(cfg domain.ModemConfig) (radioControl *radio.FT991A, info domain.RadioInfo, closeFn func(), err error) {
	factory := adapters.SerialFactory{}
	conn, err := factory.Open(cfg.SerialPort, uint32(cfg.SerialBaud))
	if err != nil {
		return nil, domain.RadioInfo{}, nil, err
	}

	r := radio.NewFT991A(conn)
	info = domain.RadioInfo{Port: cfg.SerialPort, BaudRate: cfg.SerialBaud, Connected: true}
	if freq, ferr := r.GetFrequency(); ferr == nil {
		info.FrequencyHz = freq.AsHz()
	}
	if mode, merr := r.GetMode(); merr == nil {
		info.Mode = mode
	}

	return r, info, func() { r.Close() }, nil
}

func runListDevices() {
	in := adapters.NewPortAudioInput()
	devices, err := in.ListDevices()
	if err != nil {
		log.Fatal("failed to enumerate devices", "err", err)
	}
	for _, d := range devices {
		kind := "output"
		if d.IsInput {
			kind = "input"
		}
		marker := ""
		if d.IsDefault {
			marker = " (default)"
		}
		fmt.Printf("%-8s %s%s\n", kind, d.Name, marker)
	}
}

func runListSerialPorts() {
	factory := adapters.SerialFactory{}
	ports, err := factory.ListPorts()
	if err != nil {
		log.Error("serial port enumeration unavailable", "err", err)
		return
	}
	for _, p := range ports {
		fmt.Printf("%-20s %s\n", p.Name, p.PortType)
	}
}

// stdoutEvents is the Events sink used in daemon mode: decoded RX text goes
// to stdout, everything else goes to the structured logger.
type stdoutEvents struct{}

func (stdoutEvents) AudioStatus(status string) { log.Info("audio status", "status", status) }
func (stdoutEvents) FFTData(magnitudes []float32) {}
func (stdoutEvents) RxText(text string)        { fmt.Print(text) }
func (stdoutEvents) SignalLevel(level float32) { log.Debug("signal level", "level", level) }
func (stdoutEvents) TxStatus(status string, progress float32) {
	log.Info("tx status", "status", status, "progress", progress)
}
func (stdoutEvents) SerialDisconnected(reason, port string) {
	log.Error("radio serial link lost", "reason", reason, "port", port)
}
