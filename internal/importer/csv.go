package importer

import (
	"compress/gzip"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"homeplate/internal/model"

	"github.com/shopspring/decimal"
)

// Columns is the expected CSV header.
var Columns = []string{"name", "description", "price", "quantity", "available_date", "size", "is_single", "is_bundle"}

// parseGzipCSV decompresses r and parses it as a plate CSV with a header row.
// Malformed rows are collected in Batch.Invalid rather than failing the file.
func parseGzipCSV(ctx context.Context, r io.Reader, source string) (*Batch, error) {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader for %s: %w", source, err)
	}
	defer gzipReader.Close()

	reader := csv.NewReader(gzipReader)
	reader.FieldsPerRecord = len(Columns)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", source, err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}
	if !slices.Equal(header, Columns) {
		return nil, fmt.Errorf("unexpected header in %s: want %s", source, strings.Join(Columns, ","))
	}

	batch := &Batch{Source: source}
	line := 1
	for {
		line++

		// Check context cancellation periodically
		if line%10_000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) && errors.Is(parseErr.Err, csv.ErrFieldCount) {
				batch.Invalid = append(batch.Invalid, RowError{Source: source, Line: line, Err: err})
				continue
			}
			return nil, fmt.Errorf("error reading %s: %w", source, err)
		}

		req, err := parseRecord(record)
		if err != nil {
			batch.Invalid = append(batch.Invalid, RowError{Source: source, Line: line, Err: err})
			continue
		}
		batch.Rows = append(batch.Rows, Row{Line: line, Request: req})
	}

	return batch, nil
}

func parseRecord(record []string) (model.PlateRequest, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(record[2]))
	if err != nil {
		return model.PlateRequest{}, fmt.Errorf("invalid price %q", record[2])
	}
	quantity, err := strconv.Atoi(strings.TrimSpace(record[3]))
	if err != nil {
		return model.PlateRequest{}, fmt.Errorf("invalid quantity %q", record[3])
	}
	isSingle, err := strconv.ParseBool(strings.TrimSpace(record[6]))
	if err != nil {
		return model.PlateRequest{}, fmt.Errorf("invalid is_single %q", record[6])
	}
	isBundle, err := strconv.ParseBool(strings.TrimSpace(record[7]))
	if err != nil {
		return model.PlateRequest{}, fmt.Errorf("invalid is_bundle %q", record[7])
	}

	return model.PlateRequest{
		Name:          record[0],
		Description:   record[1],
		Price:         price,
		Quantity:      quantity,
		AvailableDate: strings.TrimSpace(record[4]),
		Size:          model.PlateSize(strings.ToLower(strings.TrimSpace(record[5]))),
		IsSingle:      isSingle,
		IsBundle:      isBundle,
	}, nil
}
