// Package source loads a payment ledger from disk, choosing the parser by
// file extension.
package source

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/payment-auditor/internal/config"
	"github.com/ginjaninja78/payment-auditor/internal/csvparser"
	"github.com/ginjaninja78/payment-auditor/internal/dataset"
	"github.com/ginjaninja78/payment-auditor/internal/xlsxparser"
)

// ErrSourceLoad matches *LoadError.
var ErrSourceLoad = errors.New("cannot load source")

// ErrUnsupportedFormat is wrapped by a LoadError for unknown extensions.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// LoadError reports a file that could not be turned into a dataset.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s %s: %v", ErrSourceLoad, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func (e *LoadError) Is(target error) bool { return target == ErrSourceLoad }

// Format is a supported input format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// DetectFormat returns the input format for a file name.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".csv", ".txt", ".tsv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Load reads the file at path. Xlsx files use input.sheet; csv files use
// input.csv. A .tsv file is read tab-separated regardless of the configured
// delimiter.
func Load(path string, settings config.InputSettings) (*dataset.Dataset, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	var ds *dataset.Dataset
	switch format {
	case FormatXLSX:
		ds, err = xlsxparser.Parse(path, settings.Sheet)
	case FormatCSV:
		csvSettings := settings.CSV
		if strings.EqualFold(filepath.Ext(path), ".tsv") {
			csvSettings.Delimiter = "tab"
		}
		ds, err = csvparser.Parse(path, csvSettings)
	}
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	return ds, nil
}
