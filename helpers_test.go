/*
 * helpers_test.go, part of rmsdcv.
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
	"math/rand"
	"testing"

	v3 "github.com/rmera/rmsdcv/v3"
	"gonum.org/v1/gonum/floats/scalar"
)

func mustMatrix(Te *testing.T, data []float64) *v3.Matrix {
	Te.Helper()
	M, err := v3.NewMatrix(data)
	if err != nil {
		Te.Fatal(err)
	}
	return M
}

func uniform(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1
	}
	return w
}

//rotationAbout returns the matrix that rotates by angle radians about axis (Rodrigues).
func rotationAbout(axis [3]float64, angle float64) [3][3]float64 {
	norm := math.Sqrt(axis[0]*axis[0] + axis[1]*axis[1] + axis[2]*axis[2])
	x, y, z := axis[0]/norm, axis[1]/norm, axis[2]/norm
	c, s := math.Cos(angle), math.Sin(angle)
	t := 1 - c
	return [3][3]float64{
		{t*x*x + c, t*x*y - s*z, t*x*z + s*y},
		{t*x*y + s*z, t*y*y + c, t*y*z - s*x},
		{t*x*z - s*y, t*y*z + s*x, t*z*z + c},
	}
}

//transform returns rot*a_i+trans for each vector a_i in A.
func transform(A *v3.Matrix, rot [3][3]float64, trans [3]float64) *v3.Matrix {
	n := A.NVecs()
	ret := v3.Zeros(n)
	for i := 0; i < n; i++ {
		a := A.Vec(i)
		var b [3]float64
		for j := 0; j < 3; j++ {
			b[j] = rot[j][0]*a[0] + rot[j][1]*a[1] + rot[j][2]*a[2] + trans[j]
		}
		ret.SetVec(i, b)
	}
	return ret
}

//randomCoords returns n random points in a box of side 6 centered on the origin.
func randomCoords(rnd *rand.Rand, n int) *v3.Matrix {
	ret := v3.Zeros(n)
	for i := 0; i < n; i++ {
		ret.SetVec(i, [3]float64{6*rnd.Float64() - 3, 6*rnd.Float64() - 3, 6*rnd.Float64() - 3})
	}
	return ret
}

func randomWeights(rnd *rand.Rand, n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.1 + 1.9*rnd.Float64()
	}
	return w
}

//chain returns a 10-atom chain and a distorted version of it.
func chain() (*v3.Matrix, *v3.Matrix) {
	pos := v3.Zeros(10)
	ref := v3.Zeros(10)
	for i := 0; i < 10; i++ {
		f := float64(i)
		pos.SetVec(i, [3]float64{1.5 * f, math.Sin(f), 0.3 * math.Cos(2*f)})
		ref.SetVec(i, [3]float64{1.4*f + 0.1, math.Cos(f), 0.2 * f})
	}
	return pos, ref
}

//numericalDerivatives estimates the derivatives of the RMSD by central finite differences.
func numericalDerivatives(Te *testing.T, R *RMSD, positions *v3.Matrix, h float64) *v3.Matrix {
	Te.Helper()
	n := positions.NVecs()
	ret := v3.Zeros(n)
	for i := 0; i < n; i++ {
		for k := 0; k < 3; k++ {
			p := positions.Clone()
			p.Set(i, k, positions.At(i, k)+h)
			plus, err := R.Calculate(p)
			if err != nil {
				Te.Fatal(err)
			}
			p.Set(i, k, positions.At(i, k)-h)
			minus, err := R.Calculate(p)
			if err != nil {
				Te.Fatal(err)
			}
			ret.Set(i, k, (plus.RMSD-minus.RMSD)/(2*h))
		}
	}
	return ret
}

//compareDerivatives fails the test if any analytic derivative differs from the numerical
//one by more than 1e-6 relative, with an absolute floor for components close to zero.
func compareDerivatives(Te *testing.T, analytic, numerical *v3.Matrix) {
	Te.Helper()
	n := analytic.NVecs()
	for i := 0; i < n; i++ {
		for k := 0; k < 3; k++ {
			a, f := analytic.At(i, k), numerical.At(i, k)
			if !scalar.EqualWithinAbsOrRel(a, f, 1e-7, 1e-6) {
				Te.Errorf("derivative %d,%d: analytic %.10g numerical %.10g", i, k, a, f)
			}
		}
	}
}

func configured(Te *testing.T, ref *v3.Matrix, align, displace []float64, m Method) *RMSD {
	Te.Helper()
	R := New(nil)
	if err := R.SetReference(ref); err != nil {
		Te.Fatal(err)
	}
	if err := R.SetAlign(align); err != nil {
		Te.Fatal(err)
	}
	if err := R.SetDisplace(displace); err != nil {
		Te.Fatal(err)
	}
	if err := R.SetMethod(m); err != nil {
		Te.Fatal(err)
	}
	return R
}
