package consumption

import "strings"

// Column is a canonical column identity.
type Column string

const (
	ColumnPOD     Column = "POD"
	ColumnCompany Column = "Azienda"
	ColumnMonth   Column = "Mese"
	ColumnF1      Column = "kWh F1"
	ColumnF2      Column = "kWh F2"
	ColumnF3      Column = "kWh F3"
	ColumnTotal   Column = "Totale Energia"
)

// CanonicalColumns is the output order of the canonical consumption columns.
var CanonicalColumns = []Column{
	ColumnPOD,
	ColumnCompany,
	ColumnMonth,
	ColumnF1,
	ColumnF2,
	ColumnF3,
	ColumnTotal,
}

// EnergyColumn returns the consumption column of band.
func EnergyColumn(band Band) Column {
	switch band {
	case BandF1:
		return ColumnF1
	case BandF2:
		return ColumnF2
	case BandF3:
		return ColumnF3
	default:
		return ""
	}
}

// ColumnSpec maps a canonical column to the source headers accepted for it.
type ColumnSpec struct {
	Column   Column
	Aliases  []string
	Required bool
}

// ConsumptionSchema is the header mapping applied when a report is split by month.
// Only the month column is needed to partition; the rest is validated by the
// stages that read it.
var ConsumptionSchema = []ColumnSpec{
	{Column: ColumnPOD, Aliases: []string{"Codice POD"}},
	{Column: ColumnCompany},
	{Column: ColumnMonth, Required: true},
	{Column: ColumnF1, Aliases: []string{"F1 kWh", "F1"}},
	{Column: ColumnF2, Aliases: []string{"F2 kWh", "F2"}},
	{Column: ColumnF3, Aliases: []string{"F3 kWh", "F3"}},
	{Column: ColumnTotal, Aliases: []string{"Totale Energia [kWh]", "Energia Totale"}},
}

// OverlayColumns are the canonical columns the PV overlay reads from a month table.
var OverlayColumns = []Column{ColumnPOD, ColumnF1, ColumnF2, ColumnF3, ColumnTotal}

// NormalizeHeader trims a header, collapses inner whitespace and lowercases it.
func NormalizeHeader(header string) string {
	return strings.ToLower(strings.Join(strings.Fields(header), " "))
}

// TrimHeaders trims surrounding whitespace from every header.
func TrimHeaders(headers []string) []string {
	trimmed := make([]string, len(headers))
	for i, h := range headers {
		trimmed[i] = strings.TrimSpace(h)
	}
	return trimmed
}

// ResolveColumns matches headers against schema and returns the index of every
// canonical column found. The first matching header wins. A SchemaError listing
// every missing required column is returned when any is absent.
func ResolveColumns(source string, headers []string, schema []ColumnSpec) (map[Column]int, error) {
	byName := make(map[string]int, len(headers))
	for i, h := range headers {
		key := NormalizeHeader(h)
		if key == "" {
			continue
		}
		if _, exists := byName[key]; !exists {
			byName[key] = i
		}
	}

	resolved := make(map[Column]int, len(schema))
	var missing []string
	for _, spec := range schema {
		idx, ok := lookupHeader(byName, spec)
		if ok {
			resolved[spec.Column] = idx
			continue
		}
		if spec.Required {
			missing = append(missing, string(spec.Column))
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Source: source, Missing: missing}
	}
	return resolved, nil
}

func lookupHeader(byName map[string]int, spec ColumnSpec) (int, bool) {
	if idx, ok := byName[NormalizeHeader(string(spec.Column))]; ok {
		return idx, true
	}
	for _, alias := range spec.Aliases {
		if idx, ok := byName[NormalizeHeader(alias)]; ok {
			return idx, true
		}
	}
	return 0, false
}

// RequireHeaders checks that every name in required appears among headers after
// trimming, and returns a SchemaError listing the absent ones.
func RequireHeaders(source string, headers []string, required ...string) error {
	present := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		present[strings.TrimSpace(h)] = struct{}{}
	}
	var missing []string
	for _, name := range required {
		if _, ok := present[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Source: source, Missing: missing}
	}
	return nil
}
