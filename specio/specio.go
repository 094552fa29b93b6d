// Package specio loads and saves spectra as CSV. Single spectra use a
// two-column wavelength/value layout; tables use one row per spectrum with
// numeric header cells naming the wavelength columns and non-numeric header
// cells naming metadata columns.
package specio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-spectral/correct/continuum"
	"github.com/cwbudde/algo-spectral/spectral/frame"
	"github.com/cwbudde/algo-spectral/spectral/series"
)

// Errors returned by the loaders.
var (
	ErrNoData        = errors.New("specio: no valid data rows")
	ErrBadRecord     = errors.New("specio: malformed record")
	ErrMissingHeader = errors.New("specio: table input requires a header row")
)

// Options holds CSV parsing options.
type Options struct {
	WavelengthColumn int  // Column index for wavelengths (default: 0)
	ValueColumn      int  // Column index for values (default: 1)
	HasHeader        bool // Whether the input has a header row (default: true)
	Delimiter        rune // Field delimiter (default: ',')
	SkipRows         int  // Number of rows to skip at the start
}

// DefaultOptions returns the default CSV parsing options.
func DefaultOptions() *Options {
	return &Options{
		WavelengthColumn: 0,
		ValueColumn:      1,
		HasHeader:        true,
		Delimiter:        ',',
	}
}

// LoadSpectrum loads a single spectrum from a wavelength/value CSV file.
func LoadSpectrum(filename string, opts *Options) (*series.Spectrum, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadSpectrumFrom(file, opts)
}

// LoadSpectrumFrom loads a single spectrum from an io.Reader. Rows whose
// value cell is empty, "NA" or "NaN" are skipped.
func LoadSpectrumFrom(r io.Reader, opts *Options) (*series.Spectrum, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	reader := newReader(r, opts)

	if err := skipRows(reader, opts); err != nil {
		return nil, err
	}

	if opts.HasHeader {
		if _, err := reader.Read(); err != nil {
			return nil, err
		}
	}

	var wavelengths, values []float64

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if opts.WavelengthColumn >= len(record) || opts.ValueColumn >= len(record) {
			return nil, fmt.Errorf("%w: %d fields", ErrBadRecord, len(record))
		}

		valStr := cleanCell(record[opts.ValueColumn])
		if skippableCell(valStr) {
			continue
		}

		w, err := strconv.ParseFloat(cleanCell(record[opts.WavelengthColumn]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: wavelength %q", ErrBadRecord, record[opts.WavelengthColumn])
		}
		v, err := strconv.ParseFloat(valStr, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: value %q", ErrBadRecord, valStr)
		}

		wavelengths = append(wavelengths, w)
		values = append(values, v)
	}

	if len(values) == 0 {
		return nil, ErrNoData
	}

	return series.New(values, wavelengths)
}

// LoadTable loads a spectral table from a CSV file. The header row is
// mandatory: numeric header cells become wavelength columns, non-numeric
// cells become metadata columns, so the two label spaces cannot collide.
func LoadTable(filename string, opts *Options) (*frame.Table, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadTableFrom(file, opts)
}

// LoadTableFrom loads a spectral table from an io.Reader.
func LoadTableFrom(r io.Reader, opts *Options) (*frame.Table, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if !opts.HasHeader {
		return nil, ErrMissingHeader
	}

	reader := newReader(r, opts)
	reader.FieldsPerRecord = -1

	if err := skipRows(reader, opts); err != nil {
		return nil, err
	}

	header, err := reader.Read()
	if err != nil {
		return nil, err
	}

	var (
		waveIdx     []int
		wavelengths []float64
		metaIdx     []int
		metaNames   []string
	)

	for i, cell := range header {
		cell = cleanCell(cell)
		if w, err := strconv.ParseFloat(cell, 64); err == nil {
			waveIdx = append(waveIdx, i)
			wavelengths = append(wavelengths, w)
		} else {
			metaIdx = append(metaIdx, i)
			metaNames = append(metaNames, cell)
		}
	}

	if len(waveIdx) == 0 {
		return nil, fmt.Errorf("%w: header has no numeric wavelength columns", ErrNoData)
	}

	var (
		rows [][]float64
		meta = make([][]string, len(metaIdx))
	)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) != len(header) {
			return nil, fmt.Errorf("%w: %d fields, header has %d", ErrBadRecord, len(record), len(header))
		}

		row := make([]float64, len(waveIdx))
		for j, col := range waveIdx {
			v, err := strconv.ParseFloat(cleanCell(record[col]), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: value %q", ErrBadRecord, record[col])
			}
			row[j] = v
		}
		rows = append(rows, row)

		for j, col := range metaIdx {
			meta[j] = append(meta[j], cleanCell(record[col]))
		}
	}

	if len(rows) == 0 {
		return nil, ErrNoData
	}

	table, err := frame.New(rows, wavelengths)
	if err != nil {
		return nil, err
	}
	for j, name := range metaNames {
		if err := table.AddMetaColumn(name, meta[j]); err != nil {
			return nil, err
		}
	}

	return table, nil
}

// SaveResult writes a continuum correction as wavelength/corrected/continuum
// CSV rows with a header.
func SaveResult(filename string, wavelengths []float64, res continuum.Result) error {
	if len(wavelengths) != len(res.Corrected) || len(wavelengths) != len(res.Continuum) {
		return fmt.Errorf("specio: %d wavelengths, %d corrected, %d continuum values",
			len(wavelengths), len(res.Corrected), len(res.Continuum))
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"wavelength", "corrected", "continuum"}); err != nil {
		return err
	}

	for i, w := range wavelengths {
		record := []string{
			strconv.FormatFloat(w, 'f', -1, 64),
			strconv.FormatFloat(res.Corrected[i], 'f', -1, 64),
			strconv.FormatFloat(res.Continuum[i], 'f', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()

	return writer.Error()
}

func newReader(r io.Reader, opts *Options) *csv.Reader {
	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.TrimLeadingSpace = true
	return reader
}

func skipRows(reader *csv.Reader, opts *Options) error {
	for i := 0; i < opts.SkipRows; i++ {
		if _, err := reader.Read(); err != nil {
			return err
		}
	}
	return nil
}

func cleanCell(s string) string {
	return strings.TrimSpace(strings.Trim(s, "\""))
}

func skippableCell(s string) bool {
	switch s {
	case "", "NA", "NaN", "null":
		return true
	}
	return false
}
