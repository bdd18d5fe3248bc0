/*
 * query.go, part of biofiles.
 *
 * Copyright 2025 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package ccp4

import (
	"fmt"
	"math"

	biofiles "github.com/rmera/biofiles"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

/*Sample returns the raw density at grid node (ix,iy,iz), indices in
crystallographic order counted from the map's own start. Indices
outside the grid are an error, not zero.*/
func (M *Map) Sample(ix, iy, iz int) (float64, error) {
	dims := M.crystDims()
	if ix < 0 || iy < 0 || iz < 0 || ix >= dims[0] || iy >= dims[1] || iz >= dims[2] {
		return 0, &Error{kind: KOutOfBounds,
			message: fmt.Sprintf("node %d,%d,%d outside the %dx%dx%d grid", ix, iy, iz, dims[0], dims[1], dims[2]), deco: []string{"Sample"}}
	}
	return float64(M.Samples[(iz*dims[1]+iy)*dims[0]+ix]), nil
}

/*At returns the density at the cartesian point p (Å), trilinearly
interpolated between the 8 surrounding grid nodes. A point that lands
exactly on a node returns that node's raw value. There is no clamping:
if any node the interpolation needs falls outside the grid, At returns
a KOutOfBounds error. Zero-weight nodes are not needed, so points on
the boundary still work.*/
func (M *Map) At(p biofiles.Vec3) (float64, error) {
	cell, err := M.Cell()
	if err != nil {
		return 0, errDecorate(err, "At")
	}
	H := &M.Header
	grid := [3]int32{H.MX, H.MY, H.MZ}
	for a, g := range grid {
		if g <= 0 {
			return 0, &Error{kind: KInvalidHeader,
				message: fmt.Sprintf("grid sampling %d along axis %d, want positive", g, a), deco: []string{"At"}}
		}
	}
	frac := cell.CartToFrac(p)
	st := M.start()
	var lo [3]int
	var t [3]float64
	for a := 0; a < 3; a++ {
		g := frac[a]*float64(grid[a]) - float64(st[a])
		f := math.Floor(g)
		lo[a] = int(f)
		t[a] = g - f
	}
	dims := M.crystDims()
	val := 0.0
	for dz := 0; dz <= 1; dz++ {
		wz := t[2]
		if dz == 0 {
			wz = 1 - t[2]
		}
		if wz == 0 {
			continue
		}
		for dy := 0; dy <= 1; dy++ {
			wy := t[1]
			if dy == 0 {
				wy = 1 - t[1]
			}
			if wy == 0 {
				continue
			}
			for dx := 0; dx <= 1; dx++ {
				wx := t[0]
				if dx == 0 {
					wx = 1 - t[0]
				}
				if wx == 0 {
					continue
				}
				ix, iy, iz := lo[0]+dx, lo[1]+dy, lo[2]+dz
				if ix < 0 || iy < 0 || iz < 0 || ix >= dims[0] || iy >= dims[1] || iz >= dims[2] {
					return 0, &Error{kind: KOutOfBounds,
						message: fmt.Sprintf("point %.3f,%.3f,%.3f needs node %d,%d,%d, outside the %dx%dx%d grid",
							p[0], p[1], p[2], ix, iy, iz, dims[0], dims[1], dims[2]), deco: []string{"At"}}
				}
				val += wx * wy * wz * float64(M.Samples[(iz*dims[1]+iy)*dims[0]+ix])
			}
		}
	}
	return val, nil
}

/*Stats returns the mean, the population standard deviation, and the
extremes of the density samples, computed from the samples themselves,
not taken from the header (which may carry stale values, or the
format's "not set" markers).*/
func (M *Map) Stats() (mean, sigma, min, max float64) {
	v := make([]float64, len(M.Samples))
	for i, s := range M.Samples {
		v[i] = float64(s)
	}
	mean = stat.Mean(v, nil)
	sigma = stat.PopStdDev(v, nil)
	return mean, sigma, floats.Min(v), floats.Max(v)
}

/*Normalized returns a new map whose samples are in sigma units:
(v-mean)/sigma, with mean and sigma from Stats. The receiver is not
touched. The header statistics of the new map are updated to match its
new samples (mean 0, sigma 1). A flat map has no sigma scale, so
normalizing it is an error. Normalizing twice is the same as
normalizing once, up to float32 rounding.*/
func (M *Map) Normalized() (*Map, error) {
	if len(M.Samples) == 0 {
		return nil, &Error{kind: KMalformedRecord, message: EmptyPayload, deco: []string{"Normalized"}}
	}
	mean, sigma, _, _ := M.Stats()
	if sigma == 0 {
		return nil, &Error{kind: KMalformedRecord, message: "flat density, sigma is zero", deco: []string{"Normalized"}}
	}
	out := new(Map)
	out.Header = M.Header
	out.order = M.order
	out.Samples = make([]float32, len(M.Samples))
	for i, s := range M.Samples {
		out.Samples[i] = float32((float64(s) - mean) / sigma)
	}
	m2, s2, lo, hi := out.Stats()
	out.Header.DMean = float32(m2)
	out.Header.RMS = float32(s2)
	out.Header.DMin = float32(lo)
	out.Header.DMax = float32(hi)
	return out, nil
}
