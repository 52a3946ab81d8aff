package normalizer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"sjsage522/bookworker/helpers"
	"sjsage522/bookworker/internal/catalog"
	"sjsage522/bookworker/logger"
	"sjsage522/bookworker/pkg/errors"
)

const (
	stage = "normalizer"

	// InStock is the only availability text that maps to true
	InStock = "In stock"
)

var ratingWords = map[string]int{
	"One":   1,
	"Two":   2,
	"Three": 3,
	"Four":  4,
	"Five":  5,
}

var decimalPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// ParseRating maps a rating word to 1..5 by exact match
func ParseRating(word string) (int, error) {
	rating, ok := ratingWords[word]
	if !ok {
		return 0, fmt.Errorf("unknown rating word")
	}
	return rating, nil
}

// ParsePrice strips symbol (or its latin-1 mis-decoded form) and parses the decimal remainder
func ParsePrice(price, symbol string) (float64, error) {
	remainder := price
	for _, prefix := range []string{"Â" + symbol, symbol} {
		if strings.HasPrefix(remainder, prefix) {
			remainder = strings.TrimPrefix(remainder, prefix)
			break
		}
	}

	if !decimalPattern.MatchString(remainder) {
		return 0, fmt.Errorf("not a decimal amount")
	}
	return strconv.ParseFloat(remainder, 64)
}

// ParseAvailability reports whether the trimmed text is exactly "In stock"
func ParseAvailability(availability string) bool {
	return strings.TrimSpace(availability) == InStock
}

// Normalizer converts raw catalog entries into typed books
type Normalizer struct {
	currencySymbol string
	reporter       helpers.ErrorReporter
	log            *logger.Logger
}

// NewNormalizer creates a normalizer; reporter may be nil
func NewNormalizer(currencySymbol string, reporter helpers.ErrorReporter) *Normalizer {
	return &Normalizer{
		currencySymbol: currencySymbol,
		reporter:       reporter,
		log:            logger.ForNormalizer(),
	}
}

// Normalize maps every raw entry to a book in the same order. When any record
// fails, no books are returned and the error lists every failure.
func (n *Normalizer) Normalize(raws []catalog.RawBook) ([]catalog.Book, error) {
	books := make([]catalog.Book, 0, len(raws))
	var failures errors.ConversionErrors

	for i, raw := range raws {
		book, recordErrs := n.normalizeOne(i, raw)
		if len(recordErrs) > 0 {
			for _, recordErr := range recordErrs {
				failures.Add(recordErr)
				if n.reporter != nil {
					n.reporter.ReportError(stage, recordErr)
				}
			}
			continue
		}
		books = append(books, book)
	}

	if err := failures.ErrOrNil(); err != nil {
		n.log.Error().
			Int("records", len(raws)).
			Int("failed", failures.Len()).
			Msg("Normalization failed")
		return nil, errors.NewConversion(stage, "normalize records", err)
	}

	n.log.Info().
		Int("records", len(books)).
		Msg("Normalized records")
	return books, nil
}

func (n *Normalizer) normalizeOne(index int, raw catalog.RawBook) (catalog.Book, []*errors.RecordError) {
	var errs []*errors.RecordError
	fail := func(field, value string, err error) {
		errs = append(errs, &errors.RecordError{Index: index, Title: raw.Title, Field: field, Value: value, Err: err})
	}

	if strings.TrimSpace(raw.Title) == "" {
		fail("title", raw.Title, fmt.Errorf("missing title"))
	}

	rating, err := ParseRating(raw.Rating)
	if err != nil {
		fail("rating", raw.Rating, err)
	}

	price, err := ParsePrice(raw.Price, n.currencySymbol)
	if err != nil {
		fail("price", raw.Price, err)
	}

	return catalog.Book{
		Title:        raw.Title,
		Rating:       rating,
		Price:        price,
		Availability: ParseAvailability(raw.Availability),
	}, errs
}
