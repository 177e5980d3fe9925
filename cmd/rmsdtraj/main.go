/*
 * main.go, part of rmsdcv.
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

//rmsdtraj prints the RMSD of each model in a trajectory PDB against a reference
//structure, and the norm of its gradient.
//
//Use:
//
//	rmsdtraj [FLAGS] reference.pdb trajectory.pdb
//
//By default, the occupancy column of the reference gives the alignment weights
//and the b-factor column the displacement weights (see -uniform). Both files
//can be compressed with gzip (.gz) or zstd (.zst).
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"runtime"

	"github.com/rmera/rmsdcv"
	"github.com/rmera/rmsdcv/pdb"
	"github.com/rmera/rmsdcv/rmsdplot"
	v3 "github.com/rmera/rmsdcv/v3"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

var verb int

//LogV prints the d arguments to stderr if the verbosity level is at least vref.
func LogV(vref int, d ...interface{}) {
	if verb >= vref {
		fmt.Fprintln(os.Stderr, d...)
	}
}

//CErr aborts the program if err is not nil.
func CErr(err error, info string) {
	if err != nil {
		log.Fatal(err, " ", info)
	}
}

type frameResult struct {
	rmsd  float64
	gnorm float64
	err   error
}

func main() {
	method := flag.String("method", "OPTIMAL", "SIMPLE or OPTIMAL")
	uniform := flag.Bool("uniform", false, "use weights of 1 for all atoms, instead of the occupancy and b-factor columns of the reference")
	plotname := flag.String("plot", "", "if given, plot the RMSD series to this file (png, svg, pdf)")
	superposed := flag.String("superposed", "", "if given, write the frames superimposed on the reference to this PDB file")
	cpus := flag.Int("cpus", -1, "number of goroutines used. If a number <0 is given, all logical CPUs are used")
	tol := flag.Float64("tolerance", 1e-8, "relative eigenvalue gap under which an alignment is considered degenerate")
	verbose := flag.Int("verbose", 0, "Level of verbosity, the higher, the more verbose.")
	flag.Parse()
	verb = *verbose
	args := flag.Args()
	if len(args) < 2 {
		fmt.Printf("Use:\n  rmsdtraj [FLAGS] reference.pdb trajectory.pdb\n")
		flag.PrintDefaults()
		os.Exit(1)
	}
	ref, err := pdb.ReadFile(args[0])
	CErr(err, "main")
	traj, err := pdb.ReadFile(args[1])
	CErr(err, "main")
	LogV(1, "Reference:", ref.Len(), "atoms. Trajectory:", traj.NFrames(), "frames of", traj.Len(), "atoms")

	o := rmsd.DefaultOptions()
	o.Tolerance(*tol)
	if verb > 1 {
		o.Logger(log.New(os.Stderr, "", log.LstdFlags))
	}
	R := rmsd.New(o)
	if *uniform {
		ones := make([]float64, ref.Len())
		for i := range ones {
			ones[i] = 1
		}
		CErr(R.SetReference(ref.Coords()), "main")
		CErr(R.SetAlign(ones), "main")
		CErr(R.SetDisplace(ones), "main")
		CErr(R.SetMethodString(*method), "main")
	} else {
		CErr(R.SetFromStructure(ref, *method), "main")
	}
	if *cpus <= 0 {
		*cpus = runtime.NumCPU()
	}
	results := calculate(R, traj, *cpus)
	rmsds := make([]float64, 0, len(results))
	for i, r := range results {
		if r.err != nil {
			log.Printf("frame %d: %s", i+1, r.err.Error())
			continue
		}
		rmsds = append(rmsds, r.rmsd)
		fmt.Printf("%6d %10.4f %10.4f\n", i+1, r.rmsd, r.gnorm)
	}
	if len(rmsds) == 0 {
		log.Fatal("no frame could be processed")
	}
	mean, std := stat.MeanStdDev(rmsds, nil)
	fmt.Printf("# %s RMSD over %d frames: %.4f +/- %.4f\n", R.Method(), len(rmsds), mean, std)
	if *plotname != "" {
		CErr(rmsdplot.Series(rmsds, fmt.Sprintf("%s RMSD vs %s", R.Method(), args[0]), *plotname), "main")
		LogV(1, "Plot written to", *plotname)
	}
	if *superposed != "" {
		n, err := writeSuperposed(R, traj, *superposed)
		CErr(err, "main")
		LogV(1, n, "superimposed frames written to", *superposed)
	}
}

//writeSuperposed writes the frames of traj, superimposed on the reference, to the
//PDB file name, and returns the number of frames written. Frames that can't be
//superimposed are left out with a warning. If none can, nothing is written.
func writeSuperposed(R *rmsd.RMSD, traj *pdb.Structure, name string) (int, error) {
	frames := make([]*v3.Matrix, 0, traj.NFrames())
	var skipped []int
	for i := 0; i < traj.NFrames(); i++ {
		f, err := R.Superpose(traj.Frame(i))
		if err != nil {
			log.Printf("frame %d not superimposed: %s", i+1, err.Error())
			skipped = append(skipped, i+1)
			continue
		}
		frames = append(frames, f)
	}
	if len(frames) == 0 {
		return 0, fmt.Errorf("no frame could be superimposed, %s not written", name)
	}
	if len(skipped) > 0 {
		log.Printf("frames %v left out of %s, its MODEL numbers don't match the trajectory", skipped, name)
	}
	if err := traj.WriteFile(name, frames...); err != nil {
		return 0, err
	}
	return len(frames), nil
}

//calculate obtains the RMSD for all the frames in traj, using up to cpus goroutines.
//Calculate doesn't modify R, so all of them share it. Failed frames are reported
//in their result, they don't stop the others.
func calculate(R *rmsd.RMSD, traj *pdb.Structure, cpus int) []frameResult {
	results := make([]frameResult, traj.NFrames())
	var g errgroup.Group
	g.SetLimit(cpus)
	for i := 0; i < traj.NFrames(); i++ {
		i := i
		g.Go(func() error {
			res, err := R.Calculate(traj.Frame(i))
			if err != nil {
				results[i].err = err
				return nil
			}
			var gnorm float64
			for _, v := range res.Derivatives.RawMatrix().Data {
				gnorm += v * v
			}
			results[i] = frameResult{rmsd: res.RMSD, gnorm: math.Sqrt(gnorm)}
			LogV(2, "frame", i+1, "done")
			return nil
		})
	}
	g.Wait()
	return results
}
