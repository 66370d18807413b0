package adapters

import (
	"sync/atomic"

	"github.com/gordonklaus/portaudio"

	"github.com/nerdenator/psk31-client-workspace/domain"
)

// sampleRateHz is the capture/playback rate this module hard-assumes
// throughout its DSP (see domain.AudioSample).
const sampleRateHz = 48000

// framesPerBuffer is left to PortAudio's own default-latency choice when 0;
// kept as a named constant so both streams agree.
const framesPerBuffer = 0

// PortAudioInput captures mono float32 samples from a named input device.
//
// A portaudio.Stream is tied to the thread that opened it in the underlying
// C library's expectations, so callers should not share one PortAudioInput
// across unrelated goroutines. Start refuses to open a second stream while
// one is running, but Start and Stop take no lock, so concurrent calls are
// not serialized.
type PortAudioInput struct {
	stream  *portaudio.Stream
	running atomic.Bool
}

// NewPortAudioInput returns an input adapter. portaudio.Initialize must have
// been called once by the process before Start is used.
func NewPortAudioInput() *PortAudioInput {
	return &PortAudioInput{}
}

// ListDevices enumerates host input and output devices, flagging which one
// is the host's default of each kind.
func (p *PortAudioInput) ListDevices() ([]domain.AudioDeviceInfo, error) {
	return listPortAudioDevices()
}

// Start opens deviceID for capture at 48kHz mono and begins delivering
// samples to callback on PortAudio's own audio thread.
func (p *PortAudioInput) Start(deviceID string, callback func(samples []domain.AudioSample)) error {
	if p.running.Load() {
		return domain.NewError(domain.KindAudio, "audio input already running")
	}

	device, err := findDeviceByNameAndKind(deviceID, true)
	if err != nil {
		return err
	}

	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   device,
			Channels: 1,
			Latency:  device.DefaultLowInputLatency,
		},
		SampleRate:      sampleRateHz,
		FramesPerBuffer: framesPerBuffer,
	}

	stream, err := portaudio.OpenStream(params, func(in []float32) {
		callback(in)
	})
	if err != nil {
		return domain.Wrap(domain.KindAudio, "failed to open input stream", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		return domain.Wrap(domain.KindAudio, "failed to start input stream", err)
	}

	p.stream = stream
	p.running.Store(true)
	return nil
}

// Stop halts capture and closes the stream. Safe to call when not running.
func (p *PortAudioInput) Stop() error {
	if !p.running.CompareAndSwap(true, false) {
		return nil
	}
	stream := p.stream
	p.stream = nil
	if stream == nil {
		return nil
	}
	if err := stream.Stop(); err != nil {
		return domain.Wrap(domain.KindAudio, "failed to stop input stream", err)
	}
	return stream.Close()
}

// IsRunning reports whether capture is active.
func (p *PortAudioInput) IsRunning() bool {
	return p.running.Load()
}

// PortAudioOutput plays mono float32 samples to a named output device.
type PortAudioOutput struct {
	stream  *portaudio.Stream
	running atomic.Bool
}

// NewPortAudioOutput returns an output adapter.
func NewPortAudioOutput() *PortAudioOutput {
	return &PortAudioOutput{}
}

// ListDevices enumerates host input and output devices.
func (p *PortAudioOutput) ListDevices() ([]domain.AudioDeviceInfo, error) {
	return listPortAudioDevices()
}

// Start opens deviceID for playback at 48kHz mono; callback fills the
// output buffer on each PortAudio callback tick and should zero-pad any
// tail it doesn't have samples for.
func (p *PortAudioOutput) Start(deviceID string, callback func(samples []domain.AudioSample)) error {
	if p.running.Load() {
		return domain.NewError(domain.KindAudio, "audio output already running")
	}

	device, err := findDeviceByNameAndKind(deviceID, false)
	if err != nil {
		return err
	}

	params := portaudio.StreamParameters{
		Output: portaudio.StreamDeviceParameters{
			Device:   device,
			Channels: 1,
			Latency:  device.DefaultLowOutputLatency,
		},
		SampleRate:      sampleRateHz,
		FramesPerBuffer: framesPerBuffer,
	}

	stream, err := portaudio.OpenStream(params, func(out []float32) {
		callback(out)
	})
	if err != nil {
		return domain.Wrap(domain.KindAudio, "failed to open output stream", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		return domain.Wrap(domain.KindAudio, "failed to start output stream", err)
	}

	p.stream = stream
	p.running.Store(true)
	return nil
}

// Stop halts playback and closes the stream. Safe to call when not running.
func (p *PortAudioOutput) Stop() error {
	if !p.running.CompareAndSwap(true, false) {
		return nil
	}
	stream := p.stream
	p.stream = nil
	if stream == nil {
		return nil
	}
	if err := stream.Stop(); err != nil {
		return domain.Wrap(domain.KindAudio, "failed to stop output stream", err)
	}
	return stream.Close()
}

// IsRunning reports whether playback is active.
func (p *PortAudioOutput) IsRunning() bool {
	return p.running.Load()
}

func listPortAudioDevices() ([]domain.AudioDeviceInfo, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, domain.Wrap(domain.KindAudio, "failed to enumerate audio devices", err)
	}

	defaultHost, err := portaudio.DefaultHostApi()
	if err != nil {
		return nil, domain.Wrap(domain.KindAudio, "failed to query default host API", err)
	}

	var infos []domain.AudioDeviceInfo
	for _, d := range devices {
		if d.MaxInputChannels > 0 {
			infos = append(infos, domain.AudioDeviceInfo{
				ID:        d.Name,
				Name:      d.Name,
				IsInput:   true,
				IsDefault: d == defaultHost.DefaultInputDevice,
			})
		}
		if d.MaxOutputChannels > 0 {
			infos = append(infos, domain.AudioDeviceInfo{
				ID:        d.Name,
				Name:      d.Name,
				IsInput:   false,
				IsDefault: d == defaultHost.DefaultOutputDevice,
			})
		}
	}
	return infos, nil
}

func findDeviceByNameAndKind(name string, input bool) (*portaudio.DeviceInfo, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, domain.Wrap(domain.KindAudio, "failed to enumerate audio devices", err)
	}

	for _, d := range devices {
		if d.Name != name {
			continue
		}
		if input && d.MaxInputChannels > 0 {
			return d, nil
		}
		if !input && d.MaxOutputChannels > 0 {
			return d, nil
		}
	}

	return nil, domain.NewError(domain.KindAudio, "audio device not found: "+name)
}
