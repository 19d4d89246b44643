//go:build !oto

package main

import (
	"bytes"
	"errors"
	"testing"
)

func TestPlayWithoutTag(t *testing.T) {
	s := defaultSettings()
	s.impulse = true
	s.seconds = 0.1
	s.play = true
	if err := run(s, nil, &bytes.Buffer{}); !errors.Is(err, errNoPlayback) {
		t.Fatalf("err = %v, want errNoPlayback", err)
	}
}
