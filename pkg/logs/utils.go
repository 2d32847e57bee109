package logs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
)

// formatter adds default fields to each log entry.
type formatter struct {
	owner string
	lf    log.Formatter
}

// Format satisfies the log.Formatter interface.
func (f *formatter) Format(e *log.Entry) ([]byte, error) {
	e.Message = fmt.Sprintf("[%s] %s", f.owner, e.Message)
	return f.lf.Format(e)
}

func NewLogger(owner string) *log.Logger {
	logger := log.New()
	logger.SetFormatter(&formatter{
		owner: owner,
		lf: &log.TextFormatter{
			ForceColors:     true,
			FullTimestamp:   true,
			TimestampFormat: time.StampMilli,
		},
	})
	return logger
}

// NewLoggerWithFile mirrors NewLogger but also appends entries to
// <folder>/<owner>.log. Falls back to stderr-only output if the folder
// cannot be created.
func NewLoggerWithFile(owner string, folder string) *log.Logger {
	logger := NewLogger(owner)
	if folder == "" {
		return logger
	}
	if err := os.MkdirAll(folder, 0755); err != nil {
		logger.Errorf("could not create log folder %s: %s", folder, err)
		return logger
	}
	filePath := filepath.Join(folder, fmt.Sprintf("%s.log", owner))
	f, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		logger.Errorf("could not open log file %s: %s", filePath, err)
		return logger
	}
	logger.SetOutput(io.MultiWriter(os.Stderr, f))
	return logger
}
