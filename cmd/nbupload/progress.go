package main

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/sagarc03/nbupload/cloud"
)

// newProgressBar returns a progress hook that draws a byte counter on w.
// Each attempt that sends the body gets a fresh bar.
func newProgressBar(w io.Writer) cloud.ProgressFunc {
	return func(name string, size int64) io.Writer {
		return progressbar.NewOptions64(size,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription(fmt.Sprintf("Uploading %s", name)),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWidth(30),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionOnCompletion(func() {
				_, _ = fmt.Fprint(w, "\n")
			}),
		)
	}
}
