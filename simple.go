/*
 * simple.go, part of rmsdcv.
 *
 * Copyright 2024 The rmsdcv authors.
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

package rmsd

import (
	"math"

	v3 "github.com/rmera/rmsdcv/v3"
)

//Result contains the RMSD between a set of positions and a reference, and its
//derivatives with respect to each position, one row per atom, in the same order
//as the positions.
type Result struct {
	RMSD        float64
	Derivatives *v3.Matrix
}

//simple compares positions with the reference directly. It keeps the reference
//and the normalized displacement weights.
type simple struct {
	ref  *v3.Matrix
	wd   []float64
	zero float64
}

func newSimple(W *WeightedPointSet, o *Options) *simple {
	return &simple{ref: W.Reference(), wd: normalized(W.Displace()), zero: o.ZeroThreshold()}
}

//calculate returns sqrt(sum_i wd_i |x_i-r_i|^2) and its derivatives
//wd_i (x_i-r_i)/rmsd. positions must have as many vectors as the reference.
func (S *simple) calculate(positions *v3.Matrix) *Result {
	n := S.ref.NVecs()
	var msd float64
	for i := 0; i < n; i++ {
		x := positions.RawRowView(i)
		r := S.ref.RawRowView(i)
		for k := 0; k < 3; k++ {
			d := x[k] - r[k]
			msd += S.wd[i] * d * d
		}
	}
	ret := &Result{RMSD: math.Sqrt(msd), Derivatives: v3.Zeros(n)}
	if ret.RMSD <= S.zero {
		return ret
	}
	inv := 1 / ret.RMSD
	for i := 0; i < n; i++ {
		x := positions.RawRowView(i)
		r := S.ref.RawRowView(i)
		d := ret.Derivatives.RawRowView(i)
		for k := 0; k < 3; k++ {
			d[k] = S.wd[i] * (x[k] - r[k]) * inv
		}
	}
	return ret
}
