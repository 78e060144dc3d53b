package reference

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/guttosm/fertilizer-service/internal/domain/model"
)

// DefaultPackageKg is used when a catalog row has no bag weight.
const DefaultPackageKg = 20.0

// catalogRow mirrors the column names of the catalog source files.
type catalogRow struct {
	ID        string     `json:"_id"`
	Name      string     `json:"비료종류"`
	N         flexNumber `json:"질소"`
	P         flexNumber `json:"인산"`
	K         flexNumber `json:"칼리"`
	PackageKg flexNumber `json:"1포대당 무게"`
}

// flexNumber accepts a JSON number, a numeric string or an empty value.
type flexNumber struct {
	value float64
	set   bool
}

func (f *flexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
		if s == "" {
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q", s)
		}
		f.value, f.set = v, true
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	f.value, f.set = v, true
	return nil
}

// ParseCatalog decodes one catalog file and tags every product with phase.
func ParseCatalog(data []byte, phase model.Phase) ([]model.FertilizerProduct, error) {
	var rows []catalogRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode %s catalog: %w", phase, err)
	}

	products := make([]model.FertilizerProduct, 0, len(rows))
	for i, r := range rows {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			return nil, fmt.Errorf("%s catalog row %d: missing product name", phase, i)
		}
		grade := model.Grade{N: r.N.value, P2O5: r.P.value, K2O: r.K.value}
		if grade.AsNPK().HasNegative() {
			return nil, fmt.Errorf("%s catalog row %d (%s): negative grade", phase, i, name)
		}
		pkg := DefaultPackageKg
		if r.PackageKg.set {
			pkg = r.PackageKg.value
		}
		if pkg <= 0 {
			return nil, fmt.Errorf("%s catalog row %d (%s): package weight must be positive", phase, i, name)
		}
		products = append(products, model.FertilizerProduct{
			ID:        strings.TrimSpace(r.ID),
			Name:      name,
			Grade:     grade,
			Phases:    []model.Phase{phase},
			PackageKg: pkg,
		})
	}
	return products, nil
}

// MergeCatalogs combines the basal and topdress lists. A product present in
// both (same id, or same name when ids are missing) carries both phases.
// Products without an id get a sequential one.
func MergeCatalogs(lists ...[]model.FertilizerProduct) []model.FertilizerProduct {
	var merged []model.FertilizerProduct
	index := make(map[string]int)

	for _, list := range lists {
		for _, p := range list {
			key := p.ID
			if key == "" {
				key = "name:" + p.Name
			}
			if i, ok := index[key]; ok {
				for _, ph := range p.Phases {
					if !merged[i].SupportsPhase(ph) {
						merged[i].Phases = append(merged[i].Phases, ph)
					}
				}
				continue
			}
			p.Phases = append([]model.Phase(nil), p.Phases...)
			index[key] = len(merged)
			merged = append(merged, p)
		}
	}

	for i := range merged {
		if merged[i].ID == "" {
			merged[i].ID = fmt.Sprintf("auto-%03d", i+1)
		}
	}
	return merged
}
