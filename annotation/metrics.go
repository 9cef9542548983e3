// seehuhn.de/go/mask - raster mask editing
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package annotation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// commitsTotal counts commits by outcome
	commitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mask_commits_total",
		Help: "Total mask commits by outcome",
	}, []string{"outcome"})

	// underlyingDeletedTotal counts objects removed because a new mask
	// covered them completely
	underlyingDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mask_underlying_deleted_total",
		Help: "Total objects deleted by underlying pixel removal",
	})

	// crossFrameTotal counts objects created on other frames
	crossFrameTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mask_cross_frame_objects_total",
		Help: "Total objects created by copy and propagation",
	}, []string{"source"})

	// objectPixels tracks the size of committed regions
	objectPixels = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mask_object_pixels",
		Help:    "Number of pixels in committed mask regions",
		Buckets: prometheus.ExponentialBuckets(16, 4, 10),
	})
)
