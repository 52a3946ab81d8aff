package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeFetch represents a failed or non-success page request
	ErrorTypeFetch ErrorType = "fetch"
	// ErrorTypeSelector represents a missing structural element on a parsed page
	ErrorTypeSelector ErrorType = "selector"
	// ErrorTypeConversion represents a record field that could not be normalized
	ErrorTypeConversion ErrorType = "conversion"
	// ErrorTypeLoad represents a failed warehouse statement
	ErrorTypeLoad ErrorType = "load"
	// ErrorTypeQuery represents a failed warehouse read
	ErrorTypeQuery ErrorType = "query"
	// ErrorTypeCache represents cache-related errors
	ErrorTypeCache ErrorType = "cache"
	// ErrorTypePublisher represents publisher-related errors
	ErrorTypePublisher ErrorType = "publisher"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// PipelineError represents a failure in one stage of the pipeline
type PipelineError struct {
	Type    ErrorType
	Stage   string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Stage, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Stage, e.Message)
}

// Unwrap returns the underlying error
func (e *PipelineError) Unwrap() error {
	return e.Err
}

// New creates a new PipelineError
func New(errType ErrorType, stage, message string, err error) *PipelineError {
	return &PipelineError{
		Type:    errType,
		Stage:   stage,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewFetch creates a new fetch error
func NewFetch(stage, message string, err error) *PipelineError {
	return New(ErrorTypeFetch, stage, message, err)
}

// NewSelector creates a new selector-miss error
func NewSelector(stage, message string) *PipelineError {
	return New(ErrorTypeSelector, stage, message, nil)
}

// NewConversion creates a new conversion error
func NewConversion(stage, message string, err error) *PipelineError {
	return New(ErrorTypeConversion, stage, message, err)
}

// NewLoad creates a new load error
func NewLoad(stage, message string, err error) *PipelineError {
	return New(ErrorTypeLoad, stage, message, err)
}

// NewQuery creates a new query error
func NewQuery(stage, message string, err error) *PipelineError {
	return New(ErrorTypeQuery, stage, message, err)
}

// NewCache creates a new cache error
func NewCache(stage, message string, err error) *PipelineError {
	return New(ErrorTypeCache, stage, message, err)
}

// NewPublisher creates a new publisher error
func NewPublisher(stage, message string, err error) *PipelineError {
	return New(ErrorTypePublisher, stage, message, err)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *PipelineError {
	return New(ErrorTypeConfiguration, "config", message, err)
}

// IsType reports whether any error in err's chain is a PipelineError of the given type
func IsType(err error, errType ErrorType) bool {
	var pe *PipelineError
	if !stderrors.As(err, &pe) {
		return false
	}
	if pe.Type == errType {
		return true
	}
	return pe.Err != nil && IsType(pe.Err, errType)
}

// RecordError describes one field of one record that failed to convert
type RecordError struct {
	Index int // 0-based position in the input
	Title string
	Field string
	Value string
	Err   error
}

// Error names the 1-based data row, as counted in the CSV below its header
func (e *RecordError) Error() string {
	return fmt.Sprintf("row %d (%q): %s %q: %v", e.Index+1, e.Title, e.Field, e.Value, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// ConversionErrors accumulates every per-record failure of a normalization pass
type ConversionErrors struct {
	Records []*RecordError
}

// Add appends a record failure
func (c *ConversionErrors) Add(err *RecordError) {
	c.Records = append(c.Records, err)
}

// Len returns the number of failed records
func (c *ConversionErrors) Len() int {
	return len(c.Records)
}

// ErrOrNil returns c as an error when it holds failures, nil otherwise
func (c *ConversionErrors) ErrOrNil() error {
	if c == nil || len(c.Records) == 0 {
		return nil
	}
	return c
}

func (c *ConversionErrors) Error() string {
	parts := make([]string, 0, len(c.Records))
	for _, r := range c.Records {
		parts = append(parts, r.Error())
	}
	return fmt.Sprintf("%d record(s) failed conversion: %s", len(c.Records), strings.Join(parts, "; "))
}

// Unwrap exposes the individual record failures to errors.Is and errors.As
func (c *ConversionErrors) Unwrap() []error {
	errs := make([]error, 0, len(c.Records))
	for _, r := range c.Records {
		errs = append(errs, r)
	}
	return errs
}
