package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// WriteRaw writes scraped records as the raw CSV
func WriteRaw(w io.Writer, books []RawBook) error {
	rows := make([][]string, 0, len(books))
	for _, b := range books {
		rows = append(rows, []string{b.Title, b.Rating, b.Price, b.Availability})
	}
	return writeRows(w, rows)
}

// ReadRaw reads the raw CSV back into records
func ReadRaw(r io.Reader) ([]RawBook, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, err
	}

	books := make([]RawBook, 0, len(rows))
	for _, row := range rows {
		books = append(books, RawBook{
			Title:        row[0],
			Rating:       row[1],
			Price:        row[2],
			Availability: row[3],
		})
	}
	return books, nil
}

// WriteTransformed writes normalized records with warehouse-native literals
func WriteTransformed(w io.Writer, books []Book) error {
	rows := make([][]string, 0, len(books))
	for _, b := range books {
		rows = append(rows, []string{
			b.Title,
			strconv.Itoa(b.Rating),
			strconv.FormatFloat(b.Price, 'f', -1, 64),
			strconv.FormatBool(b.Availability),
		})
	}
	return writeRows(w, rows)
}

// ReadTransformed reads the transformed CSV back into typed records
func ReadTransformed(r io.Reader) ([]Book, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, err
	}

	books := make([]Book, 0, len(rows))
	for i, row := range rows {
		rating, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, fmt.Errorf("row %d: rating: %w", i+1, err)
		}
		price, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: price: %w", i+1, err)
		}
		available, err := strconv.ParseBool(row[3])
		if err != nil {
			return nil, fmt.Errorf("row %d: availability: %w", i+1, err)
		}
		books = append(books, Book{
			Title:        row[0],
			Rating:       rating,
			Price:        price,
			Availability: available,
		})
	}
	return books, nil
}

// WriteFile creates path and hands it to write
func WriteFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// ReadFile opens path and hands it to read
func ReadFile[T any](path string, read func(io.Reader) (T, error)) (T, error) {
	f, err := os.Open(path)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return read(f)
}

func writeRows(w io.Writer, rows [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Header); err != nil {
		return err
	}
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	return writer.Error()
}

func readRows(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(Header)

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty csv file")
	}
	if got := strings.Join(records[0], ","); got != strings.Join(Header, ",") {
		return nil, fmt.Errorf("unexpected csv header %q", got)
	}
	return records[1:], nil
}
