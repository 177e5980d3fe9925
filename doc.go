/*
 * doc.go, part of rmsdcv.
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

/*Package rmsd computes the root mean square deviation (RMSD) between a set of atomic
positions and a fixed reference structure, together with the analytic derivatives of
the RMSD with respect to every position. It is meant to be used once per step of a
simulation, as a collective variable or restraint, where the derivatives give the forces.

	**Capabilities**

	Two methods: SIMPLE compares the positions with the reference directly. OPTIMAL
	superimposes the positions onto the reference first, with the rigid-body
	transformation that minimizes the weighted squared deviation (the quaternion
	form of the Kabsch/Kearsley fit).

	Separate weights for the alignment and for the deviation measured afterwards, so
	one can, for instance, superimpose a rigid core and measure the deviation of a
	whole protein. The derivatives include the contribution from the change of the
	optimal rotation and centroid, which doesn't vanish when both weight sets differ.

	Degenerate fits (fewer than 3 weighted atoms, collinear atoms) are reported as
	errors instead of producing an arbitrary rotation.

Coordinates and derivatives are v3.Matrix objects (github.com/rmera/rmsdcv/v3), where
each row is one atom.

A typical use:

	r := rmsd.New(nil)
	r.SetReference(ref)
	r.SetAlign(alignWeights)
	r.SetDisplace(displaceWeights)
	r.SetMethod(rmsd.Optimal)
	for step := range steps {
		res, err := r.Calculate(coords)
		//res.RMSD, res.Derivatives
	}
*/
package rmsd
