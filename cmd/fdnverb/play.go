//go:build oto

package main

import (
	"fmt"
	"time"

	"github.com/GeoffreyPlitt/debuggo"
	"github.com/ebitengine/oto/v3"
)

var playDebug = debuggo.Debug("fdnverb:play")

// play sends c to the default audio device and blocks until it has been
// played.
func play(c *clip) error {
	op := &oto.NewContextOptions{
		SampleRate:   c.sampleRate,
		ChannelCount: c.channels(),
		Format:       oto.FormatFloat32LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("failed to open audio device: %w", err)
	}
	<-ready

	player := ctx.NewPlayer(newPCMReader(c))
	defer player.Close()

	playDebug("Playing %d frames at %d Hz", c.frames(), c.sampleRate)
	player.Play()
	for player.IsPlaying() {
		time.Sleep(50 * time.Millisecond)
	}
	return player.Err()
}
