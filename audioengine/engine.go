// Package audioengine owns the background threads that turn audio device
// callbacks into waterfall data, decoded RX text, and transmitted audio: a
// capture/DSP thread and a TX thread, coordinated through atomic flags and
// a lock-free ring buffer rather than an async runtime.
package audioengine

import (
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nerdenator/psk31-client-workspace/domain"
	"github.com/nerdenator/psk31-client-workspace/dsp"
	"github.com/nerdenator/psk31-client-workspace/modem"
	"github.com/nerdenator/psk31-client-workspace/ports"
	"github.com/nerdenator/psk31-client-workspace/ringbuffer"
)

// ringBufferCapacity gives ~170ms of buffering at 48kHz between the audio
// capture callback and the DSP thread that drains it.
const ringBufferCapacity = 8192

const fftSize = 4096
const fftHopSize = 2048 // 50% overlap for smooth waterfall scrolling

// dspTick is how often the DSP loop wakes to drain the ring buffer; well
// within a comfortable frame budget for 48kHz audio.
const dspTick = 5 * time.Millisecond

// signalLevelEveryTicks throttles signal-level events to roughly 500ms.
const signalLevelEveryTicks = 100

// txProgressTick is how often the TX thread emits progress while playing.
const txProgressTick = 50 * time.Millisecond

// Engine owns the audio input/output ports and drives the capture/DSP and
// TX threads against them.
type Engine struct {
	state    *State
	events   Events
	audioIn  ports.AudioInput
	audioOut ports.AudioOutput

	audioDone chan struct{}
	txDone    chan struct{}
	txRunning atomic.Bool
}

// NewEngine wires an Engine to its shared state, event sink, and device
// ports.
func NewEngine(state *State, events Events, audioIn ports.AudioInput, audioOut ports.AudioOutput) *Engine {
	if events == nil {
		events = NoopEvents{}
	}
	return &Engine{state: state, events: events, audioIn: audioIn, audioOut: audioOut}
}

// StartAudioStream begins capturing from deviceID and starts the DSP
// thread. Returns an error if a stream is already running.
func (e *Engine) StartAudioStream(deviceID string) error {
	if e.state.audioRunning.Load() {
		return domain.NewError(domain.KindAudio, "audio stream already running")
	}

	e.state.audioRunning.Store(true)
	e.state.mu.Lock()
	e.state.audioDeviceName = deviceID
	sampleRate := e.state.config.SampleRate
	e.state.mu.Unlock()

	rb := ringbuffer.New(ringBufferCapacity)

	err := e.audioIn.Start(deviceID, func(samples []domain.AudioSample) {
		for _, sample := range samples {
			rb.TryPush(sample)
		}
	})
	if err != nil {
		e.state.audioRunning.Store(false)
		e.events.AudioStatus("error: " + err.Error())
		return err
	}

	e.events.AudioStatus("running")

	e.audioDone = make(chan struct{})
	go e.runAudioThread(rb, sampleRate, e.audioDone)

	return nil
}

// StopAudioStream stops RX decoding and capture, and waits for the DSP
// thread to exit.
func (e *Engine) StopAudioStream() error {
	e.state.rxRunning.Store(false)
	e.state.audioRunning.Store(false)

	if e.audioDone != nil {
		<-e.audioDone
		e.audioDone = nil
	}
	return nil
}

// StartRX enables the RX decoder on an already-running audio stream.
func (e *Engine) StartRX() error {
	if !e.state.audioRunning.Load() {
		return domain.NewError(domain.KindAudio, "audio stream not running; start audio first")
	}
	e.state.rxRunning.Store(true)
	return nil
}

// StopRX disables the RX decoder without stopping audio capture.
func (e *Engine) StopRX() error {
	e.state.rxRunning.Store(false)
	return nil
}

// runAudioThread is the capture/DSP loop: drain the ring buffer, feed the
// RX decoder, accumulate samples for the waterfall FFT, and periodically
// report signal strength. Runs on its own goroutine for the lifetime of
// one audio stream.
func (e *Engine) runAudioThread(rb *ringbuffer.SPSC, sampleRate int, done chan struct{}) {
	defer close(done)

	fft := dsp.NewFFT(fftSize)
	sampleBuf := make([]float32, 0, fftSize*2)

	initialCarrier := e.state.CarrierFrequency()
	decoder := modem.NewDecoder(initialCarrier, sampleRate)
	currentCarrier := initialCarrier

	var rxTextBuf strings.Builder
	signalEmitCounter := 0
	deviceLost := false

	drain := make([]float32, ringBufferCapacity)

	for e.state.audioRunning.Load() {
		if !e.audioIn.IsRunning() {
			e.state.audioRunning.Store(false)
			deviceLost = true
			break
		}

		n := rb.DrainInto(drain)
		newSamples := drain[:n]

		if e.state.rxRunning.Load() {
			targetCarrier := e.state.CarrierFrequency()
			if abs64(targetCarrier-currentCarrier) > 0.1 {
				decoder.SetCarrierFreq(targetCarrier)
				currentCarrier = targetCarrier
			}

			for _, sample := range newSamples {
				if ch, ok := decoder.Process(sample); ok {
					rxTextBuf.WriteRune(ch)
				}
			}

			if rxTextBuf.Len() > 0 {
				e.events.RxText(rxTextBuf.String())
				rxTextBuf.Reset()
			}
		}

		sampleBuf = append(sampleBuf, newSamples...)

		for len(sampleBuf) >= fftSize {
			magnitudes := fft.Compute(sampleBuf[:fftSize])
			e.events.FFTData(magnitudes)
			sampleBuf = append(sampleBuf[:0], sampleBuf[fftHopSize:]...)
		}

		signalEmitCounter++
		if signalEmitCounter >= signalLevelEveryTicks {
			signalEmitCounter = 0
			level := float32(0)
			if e.state.rxRunning.Load() {
				level = decoder.SignalStrength()
			}
			e.events.SignalLevel(level)
		}

		time.Sleep(dspTick)
	}

	if err := e.audioIn.Stop(); err != nil {
		log.Warn("audio input stop failed", "err", err)
	}
	e.state.mu.Lock()
	e.state.audioDeviceName = ""
	e.state.mu.Unlock()

	if deviceLost {
		e.events.AudioStatus("error: audio device lost")
	} else {
		e.events.AudioStatus("stopped")
	}
}

func abs64(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
