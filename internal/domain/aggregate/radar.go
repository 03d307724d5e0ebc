package aggregate

import (
	"fmt"
	"math"

	model "github.com/hearlab/audex/internal/domain/model"
)

// radarAxisCount is the number of angular axes on every radar chart.
const radarAxisCount = 6

// AxisAngles returns the seven radar angles: six axes spaced evenly around
// the circle (2π·i/6) plus axis 0 repeated to close the polygon.
func AxisAngles() []float64 {
	angles := make([]float64, radarAxisCount+1)
	for i := 0; i < radarAxisCount; i++ {
		angles[i] = 2 * math.Pi * float64(i) / radarAxisCount
	}
	angles[radarAxisCount] = angles[0]
	return angles
}

// PatientRadar builds the closed radar polygon for one patient's record:
// PTA/SRT/SDT for both ears on the six fixed axes.
func PatientRadar(rec model.AudiogramRecord) model.RadarVector {
	values := make([]float64, 0, radarAxisCount+1)
	for _, c := range RadarColumns {
		v, _ := rec.Value(c.Metric, c.Ear)
		values = append(values, v)
	}
	values = append(values, values[0])
	return model.RadarVector{
		Label:  fmt.Sprintf("Patient %s", rec.PatientID),
		Values: values,
		Angles: AxisAngles(),
	}
}

// GroupRadar builds the closed radar polygon from a group's mean row.
// Axes whose mean is absent from the summary are filled with 0.
func GroupRadar(sum model.GroupSummary) model.RadarVector {
	values := make([]float64, 0, radarAxisCount+1)
	for _, axis := range model.RadarAxes {
		values = append(values, sum.Means[axis])
	}
	values = append(values, values[0])
	return model.RadarVector{
		Label:  sum.Group,
		Values: values,
		Angles: AxisAngles(),
	}
}

// MetricRadar builds an isolated-metric polygon for one patient: only the
// metric's own two axes carry the measured values, every other axis is
// zero-filled so the shape stays confined to its owning axes.
//
// Note: 0 dB HL is itself a valid clinical reading, so a zero-filled axis
// is indistinguishable from a true zero threshold in this mode.
func MetricRadar(rec model.AudiogramRecord, metric model.Metric) model.RadarVector {
	values := make([]float64, radarAxisCount+1)
	for i, c := range RadarColumns {
		if c.Metric != metric {
			continue
		}
		v, _ := rec.Value(c.Metric, c.Ear)
		values[i] = v
	}
	values[radarAxisCount] = values[0]
	return model.RadarVector{
		Label:  fmt.Sprintf("%s – Patient %s", metric, rec.PatientID),
		Values: values,
		Angles: AxisAngles(),
	}
}
