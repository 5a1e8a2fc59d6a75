package observability

import (
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// WriteText renders the LMS metric families in the Prometheus text format.
func WriteText(w io.Writer) error {
	RegisterMetrics()

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return err
	}

	for _, family := range families {
		if !strings.HasPrefix(family.GetName(), "lms_") {
			continue
		}
		if _, err := expfmt.MetricFamilyToText(w, family); err != nil {
			return err
		}
	}
	return nil
}
