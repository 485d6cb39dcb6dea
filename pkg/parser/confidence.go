package parser

import "github.com/jmylchreest/reparse/pkg/schema"

// partialConfidence is the fixed score assigned to partially coerced
// values, overriding the coverage computation.
const partialConfidence = 0.5

// requiredCoverage scores a recovered value by the fraction of the schema's
// required fields it carries a non-null value for. A schema with no
// required fields scores 1.0 for any successful extraction. The result is
// always within [0,1].
func requiredCoverage(s schema.Schema, value map[string]any) float64 {
	required := s.RequiredFields()
	if len(required) == 0 {
		return 1.0
	}

	present := 0
	for _, name := range required {
		if v, ok := value[name]; ok && v != nil {
			present++
		}
	}

	return float64(present) / float64(len(required))
}
