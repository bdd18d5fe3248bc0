/*
 * units_test.go, part of biofiles.
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

package biofiles

import (
	"math"
	"testing"
)

func TestAngleConversion(Te *testing.T) {
	rad := DegToRad(120.0)
	if math.Abs(rad-2.0943951) > 1e-7 {
		Te.Error("120 degrees should be 2.0943951 rad, got", rad)
	}
	if math.Abs(RadToDeg(rad)-120.0) > 1e-12 {
		Te.Error("deg->rad->deg drifted:", RadToDeg(rad))
	}
}

func TestSigmaConversion(Te *testing.T) {
	rmin := 1.9080 //the Amber OW radius
	sigma := RminToSigma(rmin)
	if math.Abs(sigma-1.6998347) > 1e-6 {
		Te.Error("wrong sigma for R_min 1.9080:", sigma)
	}
	if math.Abs(SigmaToRmin(sigma)-rmin) > 1e-12 {
		Te.Error("rmin->sigma->rmin drifted:", SigmaToRmin(sigma))
	}
	if math.Abs(RminToSigma(SixthRootOf2)-1.0) > 1e-12 {
		Te.Error("2^(1/6) should come back as sigma 1")
	}
}
