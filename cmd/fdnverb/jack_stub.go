//go:build !jack

package main

import (
	"errors"

	"github.com/cwbudde/algo-fdnverb/dsp/effects/reverb"
)

var errNoJack = errors.New("JACK support not built in; rebuild with -tags jack")

func runJack(string, int, []reverb.Option) error {
	return errNoJack
}
