/*
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package metrics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Summary renders every gathered sample as one line, sorted by family name.
// Counters and gauges print their value, histograms their count and sum.
func Summary(g prometheus.Gatherer) ([]string, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, fmt.Errorf("gathering metrics: %w", err)
	}

	sort.Slice(families, func(i, j int) bool {
		return families[i].GetName() < families[j].GetName()
	})

	var lines []string

	for _, family := range families {
		for _, metric := range family.GetMetric() {
			name := family.GetName() + labels(metric.GetLabel())

			switch family.GetType() {
			case dto.MetricType_COUNTER:
				lines = append(lines, fmt.Sprintf("%s %g", name, metric.GetCounter().GetValue()))
			case dto.MetricType_GAUGE:
				lines = append(lines, fmt.Sprintf("%s %g", name, metric.GetGauge().GetValue()))
			case dto.MetricType_HISTOGRAM:
				h := metric.GetHistogram()
				lines = append(lines, fmt.Sprintf("%s count=%d sum=%.3fs", name, h.GetSampleCount(), h.GetSampleSum()))
			default:
				// Summaries and untyped metrics are never registered here.
			}
		}
	}

	return lines, nil
}

func labels(pairs []*dto.LabelPair) string {
	if len(pairs) == 0 {
		return ""
	}

	parts := make([]string, 0, len(pairs))

	for _, pair := range pairs {
		parts = append(parts, fmt.Sprintf("%s=%q", pair.GetName(), pair.GetValue()))
	}

	return "{" + strings.Join(parts, ",") + "}"
}
