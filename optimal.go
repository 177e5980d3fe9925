/*
 * optimal.go, part of rmsdcv.
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

//Superposition finds the rigid-body transformation that best superimposes a set
//of positions onto a reference, with per-atom alignment weights, and measures the
//remaining deviation with per-atom displacement weights, which can differ from
//the alignment ones. It also gives the analytic derivatives of that deviation.
//
//A Superposition keeps only data derived from the reference and the weights, so
//several goroutines can use the same one at the same time.
type Superposition struct {
	n        int
	wa, wd   []float64 //normalized
	rcenter  [3]float64
	y        []float64 //centered reference, row-major
	tol      float64
	zero     float64
	weighted int //atoms with a non-zero alignment weight
}

//Alignment is the optimal transformation for a given set of positions.
//Rotation maps the centered reference onto the centered positions, that is,
//x_i - PositionCentroid ~= Rotation (r_i - ReferenceCentroid), with x_i and r_i
//taken as column vectors.
type Alignment struct {
	Rotation          *v3.Matrix
	PositionCentroid  *v3.Matrix
	ReferenceCentroid *v3.Matrix
	//Eigenvalues of the quaternion key matrix, in descending order.
	Eigenvalues [4]float64
}

//Gap returns the difference between the two largest eigenvalues of the key matrix.
func (A *Alignment) Gap() float64 {
	return A.Eigenvalues[0] - A.Eigenvalues[1]
}

//fit holds the results of the fitting for one set of positions.
type fit struct {
	x      []float64 //centered positions, row-major
	center [3]float64
	vals   [4]float64
	vecs   [4][4]float64
	q      [4]float64
	rot    [3][3]float64
}

//NewSuperposition returns a Superposition of positions onto reference, with the given
//alignment and displacement weights. All of them must have the same length, and each
//weight set must add up to more than zero. At least 3 atoms need non-zero alignment
//weights. The arguments are not retained. If o is nil, DefaultOptions are used.
func NewSuperposition(reference *v3.Matrix, align, displace []float64, o *Options) (*Superposition, error) {
	W := new(WeightedPointSet)
	if err := W.SetReference(reference); err != nil {
		return nil, errDecorate(err, "NewSuperposition")
	}
	if err := W.SetAlign(align); err != nil {
		return nil, errDecorate(err, "NewSuperposition")
	}
	if err := W.SetDisplace(displace); err != nil {
		return nil, errDecorate(err, "NewSuperposition")
	}
	return newSuperposition(W, o.copy())
}

//newSuperposition builds a Superposition from a W, which it doesn't retain.
func newSuperposition(W *WeightedPointSet, o *Options) (*Superposition, error) {
	if err := W.Validate(Optimal); err != nil {
		return nil, errDecorate(err, "newSuperposition")
	}
	n := W.N()
	S := &Superposition{
		n:    n,
		wa:   normalized(W.Align()),
		wd:   normalized(W.Displace()),
		y:    make([]float64, 3*n),
		tol:  o.Tolerance(),
		zero: o.ZeroThreshold(),
	}
	ref := W.Reference()
	for i := 0; i < n; i++ {
		if S.wa[i] > 0 {
			S.weighted++
		}
		r := ref.RawRowView(i)
		for k := 0; k < 3; k++ {
			S.rcenter[k] += S.wa[i] * r[k]
		}
	}
	if S.weighted < 3 {
		return nil, newDegenerateAlignmentError("newSuperposition", 0, "%d atoms with alignment weight, at least 3 are needed", S.weighted)
	}
	for i := 0; i < n; i++ {
		r := ref.RawRowView(i)
		for k := 0; k < 3; k++ {
			S.y[3*i+k] = r[k] - S.rcenter[k]
		}
	}
	return S, nil
}

//Len returns the number of atoms S works with.
func (S *Superposition) Len() int { return S.n }

//fit centers the positions on their align-weighted centroid, builds the weighted
//correlation matrix with the centered reference and obtains the optimal rotation
//from the top eigenvector of its quaternion key matrix.
func (S *Superposition) fit(positions *v3.Matrix) (*fit, error) {
	const caller = "Superposition.fit"
	if positions == nil {
		return nil, newConfigurationError(caller, "nil positions")
	}
	if p := positions.NVecs(); p != S.n {
		return nil, newConfigurationError(caller, "%d positions given for %d reference atoms", p, S.n)
	}
	f := &fit{x: make([]float64, 3*S.n)}
	for i := 0; i < S.n; i++ {
		row := positions.RawRowView(i)
		for k := 0; k < 3; k++ {
			f.center[k] += S.wa[i] * row[k]
		}
	}
	var c [3][3]float64
	var xx, yy float64
	for i := 0; i < S.n; i++ {
		row := positions.RawRowView(i)
		x := f.x[3*i : 3*i+3]
		for k := 0; k < 3; k++ {
			x[k] = row[k] - f.center[k]
		}
		w := S.wa[i]
		if w == 0 {
			continue
		}
		y := S.y[3*i : 3*i+3]
		for b := 0; b < 3; b++ {
			for g := 0; g < 3; g++ {
				c[b][g] += w * x[b] * y[g]
			}
			xx += w * x[b] * x[b]
			yy += w * y[b] * y[b]
		}
	}
	f.vals, f.vecs = jacobi4(keyMatrix(c))
	gap := f.vals[0] - f.vals[1]
	//sqrt(xx*yy) bounds the absolute value of all the eigenvalues.
	scale := math.Sqrt(xx * yy)
	if scale == 0 || gap <= S.tol*scale {
		return nil, newDegenerateAlignmentError(caller, gap, "largest key matrix eigenvalue is degenerate (gap %g, scale %g), the aligned atoms may be collinear", gap, scale)
	}
	f.q = f.vecs[0]
	f.rot = quaternionRotation(f.q)
	return f, nil
}

//Align returns the optimal transformation to superimpose positions onto the reference.
func (S *Superposition) Align(positions *v3.Matrix) (*Alignment, error) {
	f, err := S.fit(positions)
	if err != nil {
		return nil, errDecorate(err, "Superposition.Align")
	}
	A := &Alignment{
		Rotation:          v3.Zeros(3),
		PositionCentroid:  v3.Zeros(1),
		ReferenceCentroid: v3.Zeros(1),
		Eigenvalues:       f.vals,
	}
	for i := 0; i < 3; i++ {
		A.Rotation.SetVec(i, f.rot[i])
	}
	A.PositionCentroid.SetVec(0, f.center)
	A.ReferenceCentroid.SetVec(0, S.rcenter)
	return A, nil
}

//Superpose returns a copy of positions moved onto the reference with the
//optimal rigid-body transformation.
func (S *Superposition) Superpose(positions *v3.Matrix) (*v3.Matrix, error) {
	A, err := S.Align(positions)
	if err != nil {
		return nil, errDecorate(err, "Superposition.Superpose")
	}
	centered := v3.Zeros(S.n)
	centered.SubVec(positions, A.PositionCentroid)
	//with row vectors, x R is R^T applied to x.
	ret := v3.Zeros(S.n)
	ret.Mul(centered, A.Rotation)
	ret.AddVec(ret, A.ReferenceCentroid)
	return ret, nil
}

//Calculate returns the displacement-weighted RMSD between positions and the reference
//after the optimal superposition, and its derivatives with respect to each position.
//
//With e_i = x_i - R y_i the residual of atom i after the fit, E = sum_i wd_i |e_i|^2
//and its gradient for atom k is
//  dE/dx_k = 2 wd_k e_k - 2 wa_k S + wa_k M y_k
//where S = sum_i wd_i e_i comes from the centroid and M from the change of the optimal
//rotation, obtained by first-order perturbation of the top eigenvector q of the key matrix:
//  M_bg = u^T A^bg q,  u = sum_{j>0} v_j (v_j . h)/(l_0 - l_j),  h = 2 N(G) q,
//  G = dE/dR = -2 sum_i wd_i e_i y_i^T.
//Both extra terms vanish when the alignment and displacement weights are the same.
func (S *Superposition) Calculate(positions *v3.Matrix) (*Result, error) {
	f, err := S.fit(positions)
	if err != nil {
		return nil, errDecorate(err, "Superposition.Calculate")
	}
	n := S.n
	e := make([]float64, 3*n)
	var msd float64
	var s [3]float64
	var g [3][3]float64
	for i := 0; i < n; i++ {
		x := f.x[3*i : 3*i+3]
		y := S.y[3*i : 3*i+3]
		ei := e[3*i : 3*i+3]
		w := S.wd[i]
		for b := 0; b < 3; b++ {
			ei[b] = x[b] - (f.rot[b][0]*y[0] + f.rot[b][1]*y[1] + f.rot[b][2]*y[2])
			msd += w * ei[b] * ei[b]
			s[b] += w * ei[b]
		}
		for b := 0; b < 3; b++ {
			for k := 0; k < 3; k++ {
				g[b][k] -= 2 * w * ei[b] * y[k]
			}
		}
	}
	ret := &Result{RMSD: math.Sqrt(msd), Derivatives: v3.Zeros(n)}
	if ret.RMSD <= S.zero {
		return ret, nil
	}
	ng := keyMatrix(g)
	var h, u [4]float64
	for m := 0; m < 4; m++ {
		for l := 0; l < 4; l++ {
			h[m] += 2 * ng[m][l] * f.q[l]
		}
	}
	for j := 1; j < 4; j++ {
		var vh float64
		for m := 0; m < 4; m++ {
			vh += f.vecs[j][m] * h[m]
		}
		coef := vh / (f.vals[0] - f.vals[j])
		for m := 0; m < 4; m++ {
			u[m] += coef * f.vecs[j][m]
		}
	}
	M := rotationBilinear(u, f.q)
	inv := 1 / (2 * ret.RMSD)
	for k := 0; k < n; k++ {
		y := S.y[3*k : 3*k+3]
		ek := e[3*k : 3*k+3]
		d := ret.Derivatives.RawRowView(k)
		for a := 0; a < 3; a++ {
			my := M[a][0]*y[0] + M[a][1]*y[1] + M[a][2]*y[2]
			d[a] = (2*S.wd[k]*ek[a] - 2*S.wa[k]*s[a] + S.wa[k]*my) * inv
		}
	}
	return ret, nil
}
