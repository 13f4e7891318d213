package progress

import (
	"time"

	"github.com/briandowns/spinner"
)

// spinnerSetUnicode is braille dots; spinnerSetASCII is | / - \.
const (
	spinnerSetUnicode = 14
	spinnerSetASCII   = 9
)

// FetchSpinner shows an animated indicator while the pipeline is waiting on
// the repository data source. In non-TTY environments it stays silent so CI
// logs don't fill with control characters.
type FetchSpinner struct {
	s       *spinner.Spinner
	enabled bool
}

// NewFetchSpinner creates a spinner appropriate for the detected terminal.
func NewFetchSpinner(caps TerminalCapabilities) *FetchSpinner {
	if !caps.IsTTY {
		return &FetchSpinner{}
	}

	set := spinnerSetASCII
	if caps.SupportsUnicode {
		set = spinnerSetUnicode
	}
	return &FetchSpinner{
		s:       spinner.New(spinner.CharSets[set], 100*time.Millisecond),
		enabled: true,
	}
}

// Start begins the animation with the given message.
func (f *FetchSpinner) Start(message string) {
	if !f.enabled {
		return
	}
	f.s.Suffix = " " + message
	f.s.Start()
}

// Stop halts the animation and clears the line.
func (f *FetchSpinner) Stop() {
	if !f.enabled {
		return
	}
	f.s.Stop()
}
