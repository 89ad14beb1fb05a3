// Package reference loads the read-only identity and biometric reference
// tables and joins them onto fetched pitches.
package reference

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/statcraft/zoneshift/internal/domain/model"
)

// IdentityTable is the identity register: numeric tracking-source id to
// canonical identity. Loaded once, read-only.
type IdentityTable struct {
	byID map[int]model.Identity
}

// BiometricTable maps a secondary (legacy) id to height in inches.
// Loaded once, read-only.
type BiometricTable struct {
	bySecondary map[string]float64
}

// header indexes the columns we need, tolerating extra columns and any
// column order.
func header(record []string, required ...string) (map[string]int, error) {
	idx := make(map[string]int, len(record))
	for i, name := range record {
		idx[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, name := range required {
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrBadHeader, name)
		}
	}
	return idx, nil
}

// LoadIdentities reads the identity register CSV
// (key_mlbam,key_bbref,name_last,name_first). Rows without a numeric id
// are skipped; a duplicate numeric id keeps the first occurrence.
func LoadIdentities(path string) (*IdentityTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenTable, err)
	}
	defer f.Close()
	return ReadIdentities(f)
}

// ReadIdentities parses the identity register from r.
func ReadIdentities(r io.Reader) (*IdentityTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	head, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadTable, err)
	}
	idx, err := header(head, "key_mlbam", "key_bbref", "name_last", "name_first")
	if err != nil {
		return nil, err
	}

	t := &IdentityTable{byID: make(map[int]model.Identity)}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadTable, err)
		}
		id, err := strconv.Atoi(strings.TrimSpace(record[idx["key_mlbam"]]))
		if err != nil {
			continue
		}
		if _, exists := t.byID[id]; exists {
			continue
		}
		last := strings.TrimSpace(record[idx["name_last"]])
		first := strings.TrimSpace(record[idx["name_first"]])
		t.byID[id] = model.Identity{
			BatterID:    id,
			SecondaryID: strings.TrimSpace(record[idx["key_bbref"]]),
			DisplayName: last + ", " + first,
		}
	}
	return t, nil
}

// Len returns the number of identities in the register.
func (t *IdentityTable) Len() int { return len(t.byID) }

// LoadBiometrics reads the height table CSV (key_bbref,height_in). Rows
// with a non-numeric or non-positive height are skipped; heights must
// come from the table or not at all.
func LoadBiometrics(path string) (*BiometricTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenTable, err)
	}
	defer f.Close()
	return ReadBiometrics(f)
}

// ReadBiometrics parses the height table from r.
func ReadBiometrics(r io.Reader) (*BiometricTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	head, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadTable, err)
	}
	idx, err := header(head, "key_bbref", "height_in")
	if err != nil {
		return nil, err
	}

	t := &BiometricTable{bySecondary: make(map[string]float64)}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadTable, err)
		}
		key := strings.TrimSpace(record[idx["key_bbref"]])
		if key == "" {
			continue
		}
		h, err := strconv.ParseFloat(strings.TrimSpace(record[idx["height_in"]]), 64)
		if err != nil || h <= 0 {
			continue
		}
		t.bySecondary[key] = h
	}
	return t, nil
}

// Len returns the number of biometric records.
func (t *BiometricTable) Len() int { return len(t.bySecondary) }
