/*
 * quaternion.go, part of rmsdcv.
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

//The rotation matrix of a unit quaternion q is quadratic in q:
//R_bg(q) = q^T A^bg q, for 9 constant symmetric 4x4 matrices A^bg.
//For the correlation matrix C, the key matrix is N(C) = sum_bg C_bg A^bg,
//so that q^T N(C) q = tr(R(q)^T C). Maximizing it over unit quaternions
//gives the best-fit rotation as the top eigenvector of N(C).

//keyMatrix returns N(c), see above.
func keyMatrix(c [3][3]float64) [4][4]float64 {
	var k [4][4]float64
	k[0][0] = c[0][0] + c[1][1] + c[2][2]
	k[1][1] = c[0][0] - c[1][1] - c[2][2]
	k[2][2] = -c[0][0] + c[1][1] - c[2][2]
	k[3][3] = -c[0][0] - c[1][1] + c[2][2]
	k[0][1] = c[2][1] - c[1][2]
	k[0][2] = c[0][2] - c[2][0]
	k[0][3] = c[1][0] - c[0][1]
	k[1][2] = c[0][1] + c[1][0]
	k[1][3] = c[0][2] + c[2][0]
	k[2][3] = c[1][2] + c[2][1]
	for i := 0; i < 4; i++ {
		for j := 0; j < i; j++ {
			k[i][j] = k[j][i]
		}
	}
	return k
}

//rotationBilinear returns the matrix M with M_bg = u^T A^bg q.
//rotationBilinear(q, q) is the rotation matrix of q.
func rotationBilinear(u, q [4]float64) [3][3]float64 {
	var m [3][3]float64
	m[0][0] = u[0]*q[0] + u[1]*q[1] - u[2]*q[2] - u[3]*q[3]
	m[1][1] = u[0]*q[0] - u[1]*q[1] + u[2]*q[2] - u[3]*q[3]
	m[2][2] = u[0]*q[0] - u[1]*q[1] - u[2]*q[2] + u[3]*q[3]
	m[0][1] = (u[1]*q[2] + u[2]*q[1]) - (u[0]*q[3] + u[3]*q[0])
	m[1][0] = (u[1]*q[2] + u[2]*q[1]) + (u[0]*q[3] + u[3]*q[0])
	m[0][2] = (u[1]*q[3] + u[3]*q[1]) + (u[0]*q[2] + u[2]*q[0])
	m[2][0] = (u[1]*q[3] + u[3]*q[1]) - (u[0]*q[2] + u[2]*q[0])
	m[1][2] = (u[2]*q[3] + u[3]*q[2]) - (u[0]*q[1] + u[1]*q[0])
	m[2][1] = (u[2]*q[3] + u[3]*q[2]) + (u[0]*q[1] + u[1]*q[0])
	return m
}

//quaternionRotation returns the rotation matrix of the unit quaternion q.
func quaternionRotation(q [4]float64) [3][3]float64 {
	return rotationBilinear(q, q)
}
