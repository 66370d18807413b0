package main

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerdenator/psk31-client-workspace/audioengine"
	"github.com/nerdenator/psk31-client-workspace/domain"
)

type fakeAudioInput struct{}

func (fakeAudioInput) ListDevices() ([]domain.AudioDeviceInfo, error) { return nil, nil }
func (fakeAudioInput) Start(string, func(samples []domain.AudioSample)) error {
	return nil
}
func (fakeAudioInput) Stop() error     { return nil }
func (fakeAudioInput) IsRunning() bool { return false }

type fakeAudioOutput struct {
	mu       sync.Mutex
	callback func([]domain.AudioSample)
	running  bool
}

func (f *fakeAudioOutput) ListDevices() ([]domain.AudioDeviceInfo, error) { return nil, nil }

func (f *fakeAudioOutput) Start(deviceID string, callback func(samples []domain.AudioSample)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.running = true
	f.callback = callback
	return nil
}

func (f *fakeAudioOutput) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.running = false
	return nil
}

func (f *fakeAudioOutput) IsRunning() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

func (f *fakeAudioOutput) drainUntilDone(t *testing.T) {
	t.Helper()
	buf := make([]float32, 4096)
	started := false
	for i := 0; i < 200; i++ {
		f.mu.Lock()
		cb := f.callback
		running := f.running
		f.mu.Unlock()
		if !running {
			if started {
				return
			}
			// The TX thread starts the output only after its PTT switch
			// delay; wait for it.
			time.Sleep(2 * time.Millisecond)
			continue
		}
		started = true
		if cb != nil {
			cb(buf)
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("playback did not finish in time")
}

func TestTransmitRequiresAudioOutDevice(t *testing.T) {
	state := audioengine.NewState(domain.DefaultModemConfig())
	engine := audioengine.NewEngine(state, nil, fakeAudioInput{}, &fakeAudioOutput{})

	err := transmit(engine, "HELLO", "")
	assert.Error(t, err)
}

func TestTransmitCompletesPlayback(t *testing.T) {
	state := audioengine.NewState(domain.DefaultModemConfig())
	out := &fakeAudioOutput{}
	engine := audioengine.NewEngine(state, nil, fakeAudioInput{}, out)

	done := make(chan error, 1)
	go func() { done <- transmit(engine, "HI", "default") }()

	out.drainUntilDone(t)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("transmit did not return")
	}
	assert.False(t, engine.IsTransmitting())
}
