package main

import (
	"github.com/rs/zerolog"
)

func (rcc *rootCmdConfig) setUpLogging() {
	if rcc.verbose {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}
}
