//go:build jack

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/GeoffreyPlitt/debuggo"
	"github.com/cwbudde/algo-fdnverb/dsp/effects/reverb"
	"github.com/xthexder/go-jack"
)

var jackDebug = debuggo.Debug("fdnverb:jack")

// jackHost feeds JACK input ports through a reverb processor into the
// matching output ports.
type jackHost struct {
	client  *jack.Client
	host    *blockHost
	inputs  []*jack.Port
	outputs []*jack.Port
}

func newJackHost(name string, channels int, opts []reverb.Option) (*jackHost, error) {
	proc, err := reverb.New(opts...)
	if err != nil {
		return nil, err
	}

	client, status := jack.ClientOpen(name, jack.NoStartServer)
	if status != 0 {
		return nil, fmt.Errorf("failed to open JACK client: %w", jack.StrError(status))
	}

	sampleRate := float64(client.GetSampleRate())
	blockSize := int(client.GetBufferSize())
	h := &jackHost{client: client, host: newBlockHost(proc, channels)}
	if err := h.host.resize(sampleRate, blockSize); err != nil {
		client.Close()
		return nil, err
	}

	for ch := 1; ch <= channels; ch++ {
		in := client.PortRegister(fmt.Sprintf("in_%d", ch), jack.DEFAULT_AUDIO_TYPE, jack.PortIsInput, 0)
		out := client.PortRegister(fmt.Sprintf("out_%d", ch), jack.DEFAULT_AUDIO_TYPE, jack.PortIsOutput, 0)
		if in == nil || out == nil {
			client.Close()
			return nil, fmt.Errorf("failed to register JACK ports for channel %d", ch)
		}
		h.inputs = append(h.inputs, in)
		h.outputs = append(h.outputs, out)
	}

	if code := client.SetProcessCallback(h.process); code != 0 {
		client.Close()
		return nil, fmt.Errorf("failed to set JACK process callback: %w", jack.StrError(code))
	}
	if code := client.SetBufferSizeCallback(h.bufferSize); code != 0 {
		client.Close()
		return nil, fmt.Errorf("failed to set JACK buffer size callback: %w", jack.StrError(code))
	}

	jackDebug("JACK client %q ready (sample rate: %.0f Hz, buffer size: %d, channels: %d)",
		name, sampleRate, blockSize, channels)
	return h, nil
}

// bufferSize runs before JACK switches to a new period size and never
// overlaps process.
func (h *jackHost) bufferSize(nframes uint32) int {
	sampleRate := float64(h.client.GetSampleRate())
	if err := h.host.resize(sampleRate, int(nframes)); err != nil {
		jackDebug("Resize to %d frames failed: %v", nframes, err)
		return 1
	}
	jackDebug("Buffer size changed to %d frames", nframes)
	return 0
}

// process runs on the JACK realtime thread.
func (h *jackHost) process(nframes uint32) int {
	views := h.host.block(int(nframes))
	n := len(views[0])

	for ch, port := range h.inputs {
		samples := port.GetBuffer(nframes)
		for i := 0; i < n; i++ {
			views[ch][i] = float64(samples[i])
		}
	}

	h.host.proc.Process(views)

	for ch, port := range h.outputs {
		samples := port.GetBuffer(nframes)
		for i := 0; i < n; i++ {
			samples[i] = jack.AudioSample(views[ch][i])
		}
		for i := n; i < len(samples); i++ {
			samples[i] = 0
		}
	}
	return 0
}

func runJack(name string, channels int, opts []reverb.Option) error {
	h, err := newJackHost(name, channels, opts)
	if err != nil {
		return err
	}
	defer h.client.Close()

	done := make(chan struct{})
	h.client.OnShutdown(func() { close(done) })

	if code := h.client.Activate(); code != 0 {
		return fmt.Errorf("failed to activate JACK client: %w", jack.StrError(code))
	}
	jackDebug("JACK client activated")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)

	select {
	case <-sig:
		jackDebug("Interrupted, stopping")
	case <-done:
		jackDebug("JACK server shut down")
	}

	h.client.Deactivate()
	if dropped := h.host.proc.DroppedBlocks(); dropped > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d blocks passed through unprocessed\n", dropped)
	}
	if truncated := h.host.truncatedFrames(); truncated > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d frames beyond the prepared block size were silenced\n", truncated)
	}
	return nil
}
