package cli

import (
	"io"

	"github.com/kyleking/tcnotify/internal/logger"
)

func newTestLogger(out io.Writer) logger.Logger {
	return logger.NewWriterLogger(out, out, true)
}
