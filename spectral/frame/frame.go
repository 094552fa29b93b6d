// Package frame provides the SpectralTable container: rows of observations
// over a shared wavelength axis, with optional non-spectral metadata columns
// and an optional two-level row key. Wavelength columns are read through
// tolerance-gated lookups; metadata columns are read by exact label only.
// All derived containers are deep copies.
package frame

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/cwbudde/algo-spectral/spectral/axis"
	"github.com/cwbudde/algo-spectral/spectral/series"
)

// Errors returned by table construction and lookup.
var (
	ErrLengthMismatch = errors.New("frame: row length does not match wavelength axis")
	ErrUnknownColumn  = errors.New("frame: unknown metadata column")
	ErrUnknownKey     = errors.New("frame: unknown outer row key")
	ErrLabelCollision = errors.New("frame: metadata label collides with a wavelength label")
)

// Table stores per-observation spectra as rows over one wavelength axis.
type Table struct {
	rows        [][]float64
	wavelengths axis.Axis
	tolerance   float64
	meta        map[string][]string
	outer       []string // optional outer-level row keys; nil when single-level
}

// New constructs a Table from copies of rows, each paired with the
// wavelength axis, using the default lookup tolerance.
func New(rows [][]float64, wavelengths []float64) (*Table, error) {
	return NewWithTolerance(rows, wavelengths, axis.DefaultTolerance)
}

// NewWithTolerance constructs a Table with an explicit lookup tolerance.
func NewWithTolerance(rows [][]float64, wavelengths []float64, tolerance float64) (*Table, error) {
	ax := axis.New(wavelengths)

	copied := make([][]float64, len(rows))
	for i, row := range rows {
		if len(row) != ax.Len() {
			return nil, fmt.Errorf("%w: row %d has %d values, axis has %d",
				ErrLengthMismatch, i, len(row), ax.Len())
		}
		copied[i] = make([]float64, len(row))
		copy(copied[i], row)
	}

	return &Table{
		rows:        copied,
		wavelengths: ax,
		tolerance:   tolerance,
		meta:        map[string][]string{},
	}, nil
}

// RowCount returns the number of observations.
func (t *Table) RowCount() int { return len(t.rows) }

// WavelengthCount returns the number of spectral columns.
func (t *Table) WavelengthCount() int { return t.wavelengths.Len() }

// Wavelengths returns a copy of the wavelength axis.
func (t *Table) Wavelengths() axis.Axis { return axis.New(t.wavelengths) }

// Tolerance returns the lookup tolerance.
func (t *Table) Tolerance() float64 { return t.tolerance }

// SetTolerance updates the lookup tolerance.
func (t *Table) SetTolerance(tolerance float64) { t.tolerance = tolerance }

// SetOuterKeys attaches an outer-level key to every row, enabling two-level
// access through ColumnAt. Keys are matched verbatim, never through the
// wavelength tolerance.
func (t *Table) SetOuterKeys(keys []string) error {
	if len(keys) != len(t.rows) {
		return fmt.Errorf("frame: %d outer keys for %d rows", len(keys), len(t.rows))
	}
	t.outer = make([]string, len(keys))
	copy(t.outer, keys)
	return nil
}

// AddMetaColumn attaches a non-spectral column. The label must not collide
// with any wavelength label: a numeric name equal to an axis entry is
// rejected, keeping metadata and wavelength labels disjoint.
func (t *Table) AddMetaColumn(name string, values []string) error {
	if len(values) != len(t.rows) {
		return fmt.Errorf("frame: %d metadata values for %d rows", len(values), len(t.rows))
	}

	if w, err := strconv.ParseFloat(name, 64); err == nil {
		for _, entry := range t.wavelengths {
			if entry == w {
				return fmt.Errorf("%w: %q", ErrLabelCollision, name)
			}
		}
	}

	col := make([]string, len(values))
	copy(col, values)
	t.meta[name] = col

	return nil
}

// MetaColumns returns the metadata column labels.
func (t *Table) MetaColumns() []string {
	names := make([]string, 0, len(t.meta))
	for name := range t.meta {
		names = append(names, name)
	}
	return names
}

// MetaColumn returns a copy of the named metadata column. Lookup is by exact
// label and bypasses the wavelength tolerance entirely.
func (t *Table) MetaColumn(name string) ([]string, error) {
	col, ok := t.meta[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	out := make([]string, len(col))
	copy(out, col)
	return out, nil
}

// Column resolves the wavelength against the table's axis (tolerance-gated)
// and returns the full column across all rows.
func (t *Table) Column(wavelength float64) ([]float64, error) {
	p, err := axis.Resolve(t.wavelengths, wavelength, t.tolerance)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[p]
	}
	return out, nil
}

// ColumnAt restricts the column to rows whose outer-level key equals
// outerKey (matched verbatim), then resolves the innermost wavelength key
// with the usual tolerance gate.
func (t *Table) ColumnAt(outerKey string, wavelength float64) ([]float64, error) {
	if t.outer == nil {
		return nil, errors.New("frame: table has no outer row keys")
	}

	p, err := axis.Resolve(t.wavelengths, wavelength, t.tolerance)
	if err != nil {
		return nil, err
	}

	var out []float64
	for i, key := range t.outer {
		if key == outerKey {
			out = append(out, t.rows[i][p])
		}
	}

	if out == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, outerKey)
	}
	return out, nil
}

// Row returns observation i as a fresh Spectrum carrying the table's axis
// and tolerance. Metadata cell values for the row are attached to the
// spectrum's metadata mapping.
func (t *Table) Row(i int) (*series.Spectrum, error) {
	if i < 0 || i >= len(t.rows) {
		return nil, fmt.Errorf("frame: row %d out of range [0, %d)", i, len(t.rows))
	}

	s, err := series.NewWithTolerance(t.rows[i], t.wavelengths, t.tolerance)
	if err != nil {
		return nil, err
	}

	for name, col := range t.meta {
		s.SetMeta(name, col[i])
	}

	return s, nil
}

// SelectWavelengths resolves each target (tolerance-gated) and returns a
// fresh table narrowed to the selected spectral columns. Metadata columns
// and outer keys are carried unchanged.
func (t *Table) SelectWavelengths(targets []float64) (*Table, error) {
	positions, err := axis.ResolveMany(t.wavelengths, targets, t.tolerance)
	if err != nil {
		return nil, err
	}

	sub, err := t.wavelengths.Select(positions)
	if err != nil {
		return nil, err
	}

	rows := make([][]float64, len(t.rows))
	for i, row := range t.rows {
		rows[i] = make([]float64, len(positions))
		for j, p := range positions {
			rows[i][j] = row[p]
		}
	}

	out := &Table{
		rows:        rows,
		wavelengths: sub,
		tolerance:   t.tolerance,
		meta:        copyMetaColumns(t.meta),
	}
	if t.outer != nil {
		out.outer = make([]string, len(t.outer))
		copy(out.outer, t.outer)
	}

	return out, nil
}

// CorrectRows applies fn to each observation in row order and assembles the
// results into a fresh table over the same axis. Every result must match the
// axis length. Rows are independent; the result does not depend on
// processing order.
func (t *Table) CorrectRows(fn func(*series.Spectrum) ([]float64, error)) (*Table, error) {
	rows := make([][]float64, len(t.rows))

	for i := range t.rows {
		row, err := t.Row(i)
		if err != nil {
			return nil, err
		}

		corrected, err := fn(row)
		if err != nil {
			return nil, fmt.Errorf("frame: row %d: %w", i, err)
		}

		if len(corrected) != t.wavelengths.Len() {
			return nil, fmt.Errorf("%w: row %d correction has %d values, axis has %d",
				ErrLengthMismatch, i, len(corrected), t.wavelengths.Len())
		}

		rows[i] = make([]float64, len(corrected))
		copy(rows[i], corrected)
	}

	out := &Table{
		rows:        rows,
		wavelengths: axis.New(t.wavelengths),
		tolerance:   t.tolerance,
		meta:        copyMetaColumns(t.meta),
	}
	if t.outer != nil {
		out.outer = make([]string, len(t.outer))
		copy(out.outer, t.outer)
	}

	return out, nil
}

func copyMetaColumns(m map[string][]string) map[string][]string {
	out := make(map[string][]string, len(m))
	for name, col := range m {
		c := make([]string, len(col))
		copy(c, col)
		out[name] = c
	}
	return out
}
