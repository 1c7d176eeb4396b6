// Copyright 2025 Galley Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"github.com/rcrowley/go-metrics"
)

var (
	registry metrics.Registry
)

func SetRegistry(r metrics.Registry) {
	registry = r
}

// RenderTimer times site page renders.
func RenderTimer() metrics.Timer {
	return metrics.GetOrRegisterTimer("render.site.time", registry)
}

// RenderErrors counts failed site page renders.
func RenderErrors() metrics.Meter {
	return metrics.GetOrRegisterMeter("render.site.errors", registry)
}

// PageCacheHits counts responses served from the rendered-page cache.
func PageCacheHits() metrics.Counter {
	return metrics.GetOrRegisterCounter("cache.page.hits", registry)
}

// PageCacheMisses counts cacheable requests that missed the page cache.
func PageCacheMisses() metrics.Counter {
	return metrics.GetOrRegisterCounter("cache.page.misses", registry)
}

// TemplateCount registers a gauge reporting the number of loaded site templates.
func TemplateCount(countFn func() int64) metrics.Gauge {
	return metrics.NewRegisteredFunctionalGauge("render.templates.count", registry, countFn)
}
