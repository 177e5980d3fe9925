/*
 * eigen.go, part of rmsdcv.
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
	"sort"
)

const maxJacobiSweeps = 50

//jacobi4 diagonalizes the symmetric 4x4 matrix a with the cyclic Jacobi method.
//It returns the eigenvalues in descending order and the corresponding orthonormal
//eigenvectors, vecs[i] belonging to vals[i]. Only the upper triangle of a is read.
func jacobi4(a [4][4]float64) (vals [4]float64, vecs [4][4]float64) {
	const n = 4
	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			a[i][j] = a[j][i]
		}
	}
	var v [4][4]float64 //columns are the eigenvectors
	var norm float64
	for i := 0; i < n; i++ {
		v[i][i] = 1
		for j := 0; j < n; j++ {
			norm += a[i][j] * a[i][j]
		}
	}
	for sweep := 0; sweep < maxJacobiSweeps; sweep++ {
		var off float64
		for p := 0; p < n-1; p++ {
			for q := p + 1; q < n; q++ {
				off += a[p][q] * a[p][q]
			}
		}
		//relative to the squared Frobenius norm, which Jacobi rotations preserve.
		if off == 0 || off <= 1e-32*norm {
			break
		}
		for p := 0; p < n-1; p++ {
			for q := p + 1; q < n; q++ {
				if a[p][q] == 0 {
					continue
				}
				theta := (a[q][q] - a[p][p]) / (2 * a[p][q])
				t := 1 / (math.Abs(theta) + math.Sqrt(theta*theta+1))
				if theta < 0 {
					t = -t
				}
				c := 1 / math.Sqrt(t*t+1)
				s := t * c
				for k := 0; k < n; k++ {
					akp, akq := a[k][p], a[k][q]
					a[k][p] = c*akp - s*akq
					a[k][q] = s*akp + c*akq
				}
				for k := 0; k < n; k++ {
					apk, aqk := a[p][k], a[q][k]
					a[p][k] = c*apk - s*aqk
					a[q][k] = s*apk + c*aqk
				}
				for k := 0; k < n; k++ {
					vkp, vkq := v[k][p], v[k][q]
					v[k][p] = c*vkp - s*vkq
					v[k][q] = s*vkp + c*vkq
				}
			}
		}
	}
	order := []int{0, 1, 2, 3}
	sort.SliceStable(order, func(i, j int) bool { return a[order[i]][order[i]] > a[order[j]][order[j]] })
	for i, o := range order {
		vals[i] = a[o][o]
		for k := 0; k < n; k++ {
			vecs[i][k] = v[k][o]
		}
	}
	return vals, vecs
}
