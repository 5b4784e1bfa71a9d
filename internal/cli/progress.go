package cli

import (
	"io"

	"github.com/schollz/progressbar/v3"

	"github.com/remiblancher/mceliece/pkg/mceliece"
)

// KeyGenProgress draws key generation stages as a progress bar on w. It
// returns the callback for mceliece.KeyGenerator.OnStage and a function
// that completes the bar.
func KeyGenProgress(w io.Writer, description string) (onStage func(mceliece.Stage), finish func()) {
	bar := progressbar.NewOptions(mceliece.StageCount,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	onStage = func(s mceliece.Stage) {
		bar.Describe(description + ": " + s.String())
		// A retried Goppa polynomial moves the bar back to the start.
		_ = bar.Set(int(s) + 1)
	}
	finish = func() {
		_ = bar.Finish()
	}
	return onStage, finish
}
