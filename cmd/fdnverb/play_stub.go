//go:build !oto

package main

import "errors"

var errNoPlayback = errors.New("audio playback not built in; rebuild with -tags oto")

func play(*clip) error {
	return errNoPlayback
}
