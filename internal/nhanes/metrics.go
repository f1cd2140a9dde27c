package nhanes

import (
	"math"
	"strings"
)

// Measurement is one participant-analyte observation in long format.
type Measurement struct {
	ParticipantID    string
	AnalyteCode      string
	AnalyteName      string
	Cycle            string
	ConcentrationRaw float64

	// Derived fields, populated by DeriveMetrics.
	LogConcentration float64
	DetectedFlag     bool
}

// ConcentrationColumn reports whether a column name holds an analyte
// concentration. NHANES lab files use URX*/LBX* prefixes; LC comment
// columns and SI unit duplicates are excluded.
func ConcentrationColumn(name string) bool {
	c := strings.ToLower(name)
	if !strings.HasPrefix(c, "urx") && !strings.HasPrefix(c, "lbx") {
		return false
	}
	return !strings.HasSuffix(c, "lc") && !strings.HasSuffix(c, "si")
}

// DeriveMetrics fills the derived fields in place: the natural log of
// positive concentrations (NaN otherwise) and a detection flag for
// any positive value.
func DeriveMetrics(measurements []Measurement) {
	for i := range measurements {
		raw := measurements[i].ConcentrationRaw
		if raw > 0 && !math.IsNaN(raw) {
			measurements[i].LogConcentration = math.Log(raw)
			measurements[i].DetectedFlag = true
		} else {
			measurements[i].LogConcentration = math.NaN()
			measurements[i].DetectedFlag = false
		}
	}
}

// ApplyCodeMap translates raw variable codes to canonical analyte
// names, leaving the raw code in place when unmapped.
func ApplyCodeMap(measurements []Measurement, codeMap map[string]string) {
	for i := range measurements {
		name, ok := codeMap[strings.ToUpper(measurements[i].AnalyteCode)]
		if !ok || name == "" {
			name = measurements[i].AnalyteCode
		}
		measurements[i].AnalyteName = name
	}
}
