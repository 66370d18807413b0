package audioengine

import (
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nerdenator/psk31-client-workspace/domain"
	"github.com/nerdenator/psk31-client-workspace/modem"
	"github.com/nerdenator/psk31-client-workspace/ports"
)

// pttSwitchDelay is how long the TX thread waits after keying PTT before
// starting audio, giving the radio time to switch into transmit.
const pttSwitchDelay = 50 * time.Millisecond

// drainTailDelay lets the audio device finish playing its last buffer
// before PTT is released.
const drainTailDelay = 100 * time.Millisecond

// StartTX encodes text and transmits it as BPSK-31 audio through deviceID,
// keying PTT on the attached radio (if any) around the transmission.
// Returns an error if a transmission is already in progress or there is
// nothing to send.
func (e *Engine) StartTX(text, deviceID string) error {
	if !e.txRunning.CompareAndSwap(false, true) {
		return domain.NewError(domain.KindAudio, "already transmitting")
	}

	cfg := e.state.Config()
	encoder := modem.NewEncoder(cfg.SampleRate, cfg.CarrierFreq)
	samples := encoder.Encode(text)

	if text == "" || len(samples) == 0 {
		e.txRunning.Store(false)
		return domain.NewError(domain.KindAudio, "nothing to transmit")
	}

	e.state.txAbort.Store(false)

	if e.state.radioHandle() != nil {
		if err := e.state.WithRadio(e.events, func(radio ports.RadioControl) error {
			return radio.PttOn()
		}); err != nil {
			log.Warn("PTT on failed, continuing without PTT", "err", err)
		}
	}

	e.txDone = make(chan struct{})
	go e.runTXThread(samples, deviceID, e.txDone)

	return nil
}

// IsTransmitting reports whether a transmission is currently in progress.
func (e *Engine) IsTransmitting() bool {
	return e.txRunning.Load()
}

// StopTX aborts an in-progress transmission, waits for the TX thread to
// exit, and releases PTT.
func (e *Engine) StopTX() error {
	e.state.txAbort.Store(true)

	if e.txDone != nil {
		<-e.txDone
		e.txDone = nil
	}

	if e.state.radioHandle() != nil {
		if err := e.state.WithRadio(e.events, func(radio ports.RadioControl) error {
			return radio.PttOff()
		}); err != nil {
			log.Warn("PTT off failed", "err", err)
		}
	}

	return nil
}

// runTXThread plays samples through the output device, tracking position
// atomically so progress can be reported, and exits on completion or abort.
func (e *Engine) runTXThread(samples []float32, deviceID string, done chan struct{}) {
	defer close(done)
	defer e.txRunning.Store(false)

	time.Sleep(pttSwitchDelay)
	e.events.TxStatus("transmitting", 0.0)

	var playPos atomic.Uint64
	var playbackDone atomic.Bool
	totalSamples := uint64(len(samples))

	err := e.audioOut.Start(deviceID, func(outputBuf []float32) {
		current := playPos.Load()
		remaining := totalSamples - current
		if current >= totalSamples {
			remaining = 0
		}

		if remaining == 0 {
			for i := range outputBuf {
				outputBuf[i] = 0
			}
			playbackDone.Store(true)
			return
		}

		copyLen := uint64(len(outputBuf))
		if remaining < copyLen {
			copyLen = remaining
		}

		copy(outputBuf[:copyLen], samples[current:current+copyLen])
		for i := copyLen; i < uint64(len(outputBuf)); i++ {
			outputBuf[i] = 0
		}

		playPos.Store(current + copyLen)
	})

	if err != nil {
		log.Error("failed to start audio output", "err", err)
		e.events.TxStatus("error: "+err.Error(), 0.0)
		return
	}

	for {
		if e.state.txAbort.Load() {
			_ = e.audioOut.Stop()
			progress := float32(playPos.Load()) / float32(totalSamples)
			e.events.TxStatus("aborted", progress)
			return
		}

		if playbackDone.Load() {
			time.Sleep(drainTailDelay)
			_ = e.audioOut.Stop()
			if e.state.radioHandle() != nil {
				if err := e.state.WithRadio(e.events, func(radio ports.RadioControl) error {
					return radio.PttOff()
				}); err != nil {
					log.Warn("PTT off failed", "err", err)
				}
			}
			e.events.TxStatus("complete", 1.0)
			return
		}

		progress := float32(playPos.Load()) / float32(totalSamples)
		e.events.TxStatus("transmitting", progress)

		time.Sleep(txProgressTick)
	}
}
