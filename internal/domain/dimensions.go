package domain

import "strings"

// WingbackWidthDeltaCM is the fixed width addition implied by a
// wingback-flagged filter option. It is applied by presentation logic and
// never stored on a dimension row.
const WingbackWidthDeltaCM = 4

// MergedDimensionRow is one row of the final measurement table shown for a
// product.
type MergedDimensionRow struct {
	Measurement string  `json:"measurement"`
	Values      SizeMap `json:"values"`
}

// MergeDimensions overlays per-product overrides onto a template's ordered
// rows. Override values win per size key, but an empty override value never
// erases a template value. Overrides whose measurement does not appear in
// the template are appended after the template rows, preserving their own
// order. With no template and no overrides the result is empty.
func MergeDimensions(templateRows []DimensionRow, overrides []DimensionOverride) []MergedDimensionRow {
	merged := make([]MergedDimensionRow, 0, len(templateRows)+len(overrides))
	consumed := make(map[string]bool, len(overrides))

	for _, row := range templateRows {
		values := SizeMap{}
		for k, v := range row.Values.Data() {
			values[k] = v
		}
		for _, ov := range overrides {
			if !sameMeasurement(ov.Measurement, row.Measurement) {
				continue
			}
			consumed[normalizeMeasurement(ov.Measurement)] = true
			for k, v := range ov.Values {
				if strings.TrimSpace(v) == "" {
					continue
				}
				values[k] = v
			}
		}
		merged = append(merged, MergedDimensionRow{Measurement: row.Measurement, Values: values})
	}

	for _, ov := range overrides {
		if consumed[normalizeMeasurement(ov.Measurement)] {
			continue
		}
		values := SizeMap{}
		for k, v := range ov.Values {
			if strings.TrimSpace(v) == "" {
				continue
			}
			values[k] = v
		}
		if strings.TrimSpace(ov.Measurement) == "" && len(values) == 0 {
			continue
		}
		merged = append(merged, MergedDimensionRow{Measurement: ov.Measurement, Values: values})
	}

	return merged
}

func sameMeasurement(a, b string) bool {
	return normalizeMeasurement(a) == normalizeMeasurement(b)
}

func normalizeMeasurement(m string) string {
	return strings.ToLower(strings.TrimSpace(m))
}
