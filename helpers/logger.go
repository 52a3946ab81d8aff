package helpers

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// ErrorReporter records failures that an operator must review after a run
type ErrorReporter interface {
	ReportError(stage string, err error)
}

// FileReporter appends timestamped failures to a file
type FileReporter struct {
	mu        sync.Mutex
	errorFile string
}

// NewFileReporter creates a reporter writing to errorFile
func NewFileReporter(errorFile string) *FileReporter {
	return &FileReporter{
		errorFile: errorFile,
	}
}

// ReportError appends err to the report file with the stage name and timestamp
func (r *FileReporter) ReportError(stage string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, fileErr := os.OpenFile(r.errorFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if fileErr != nil {
		fmt.Fprintf(os.Stderr, "open error report %s: %v\n", r.errorFile, fileErr)
		return
	}
	defer f.Close()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	fmt.Fprintf(f, "[%s] [%s] %s\n", timestamp, stage, err.Error())
}
