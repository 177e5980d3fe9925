/*
 * rmsd_test.go, part of rmsdcv.
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
	"bytes"
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand"
	"strings"
	"sync"
	"testing"

	v3 "github.com/rmera/rmsdcv/v3"
)

//triangle at the origin, and the same triangle rotated 90 degrees about z and moved by (5,5,5).
func scenario(Te *testing.T) (*v3.Matrix, *v3.Matrix) {
	pos := mustMatrix(Te, []float64{0, 0, 0, 1, 0, 0, 0, 1, 0})
	ref := transform(pos, rotationAbout([3]float64{0, 0, 1}, math.Pi/2), [3]float64{5, 5, 5})
	return pos, ref
}

func TestScenario(Te *testing.T) {
	pos, ref := scenario(Te)
	fmt.Println("reference", ref)
	R := configured(Te, ref, uniform(3), uniform(3), Optimal)
	res, err := R.Calculate(pos)
	if err != nil {
		Te.Fatal(err)
	}
	if res.RMSD > 1e-9 {
		Te.Errorf("OPTIMAL RMSD should be zero, got %g", res.RMSD)
	}
	if err := R.SetMethod(Simple); err != nil {
		Te.Fatal(err)
	}
	res, err = R.Calculate(pos)
	if err != nil {
		Te.Fatal(err)
	}
	//|(5,5,5)|^2=75, |(4,6,5)|^2=77, |(4,4,5)|^2=57
	expected := math.Sqrt((75.0 + 77.0 + 57.0) / 3.0)
	if math.Abs(res.RMSD-expected) > 1e-12 {
		Te.Errorf("SIMPLE RMSD should be %f, got %f", expected, res.RMSD)
	}
	fmt.Println("SIMPLE RMSD", res.RMSD)
}

func TestSimpleIdentical(Te *testing.T) {
	_, ref := chain()
	R := configured(Te, ref, uniform(10), randomWeights(rand.New(rand.NewSource(1)), 10), Simple)
	res, err := R.Calculate(ref.Clone())
	if err != nil {
		Te.Fatal(err)
	}
	if res.RMSD != 0 {
		Te.Errorf("RMSD should be 0, got %g", res.RMSD)
	}
	for i := 0; i < res.Derivatives.NVecs(); i++ {
		if res.Derivatives.Vec(i) != [3]float64{} {
			Te.Errorf("derivative %d should be zero: %v", i, res.Derivatives.Vec(i))
		}
	}
}

func TestSimpleValue(Te *testing.T) {
	pos := mustMatrix(Te, []float64{1, 0, 0, 0, 2, 0})
	ref := mustMatrix(Te, []float64{0, 0, 0, 0, 0, 0})
	R := configured(Te, ref, uniform(2), []float64{3, 1}, Simple)
	res, err := R.Calculate(pos)
	if err != nil {
		Te.Fatal(err)
	}
	//(3*1+1*4)/4
	if math.Abs(res.RMSD-math.Sqrt(7.0/4.0)) > 1e-14 {
		Te.Errorf("wrong RMSD %f", res.RMSD)
	}
	//displace[i]*(x_i-r_i)/(W*rmsd)
	d0 := 3.0 / (4 * res.RMSD)
	if math.Abs(res.Derivatives.At(0, 0)-d0) > 1e-14 {
		Te.Errorf("wrong derivative %f, expected %f", res.Derivatives.At(0, 0), d0)
	}
}

func TestSimpleFiniteDifferences(Te *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	pos, ref := chain()
	R := configured(Te, ref, uniform(10), randomWeights(rnd, 10), Simple)
	res, err := R.Calculate(pos)
	if err != nil {
		Te.Fatal(err)
	}
	compareDerivatives(Te, res.Derivatives, numericalDerivatives(Te, R, pos, 1e-5))
}

func TestMethod(Te *testing.T) {
	R := New(nil)
	if R.Method() != "" {
		Te.Errorf("unconfigured method should be empty, got %q", R.Method())
	}
	for _, name := range []string{"SIMPLE", "OPTIMAL", "optimal", " Simple "} {
		if err := R.SetMethodString(name); err != nil {
			Te.Fatal(err)
		}
		if R.Method() != strings.ToUpper(strings.TrimSpace(name)) {
			Te.Errorf("method %q reported as %q", name, R.Method())
		}
	}
	var cerr *ConfigurationError
	if err := R.SetMethodString("BEST"); !errors.As(err, &cerr) {
		Te.Errorf("expected a ConfigurationError, got %v", err)
	}
	if R.Method() != "SIMPLE" {
		Te.Errorf("a failed SetMethodString changed the method to %q", R.Method())
	}
	if err := R.SetMethod(Unset); !errors.As(err, &cerr) {
		Te.Errorf("expected a ConfigurationError, got %v", err)
	}
}

func TestConfigurationErrors(Te *testing.T) {
	pos, ref := chain()
	short := uniform(9)
	zero := make([]float64, 10)
	cases := []struct {
		name            string
		ref             *v3.Matrix
		align, displace []float64
		method          Method
		positions       *v3.Matrix
	}{
		{"no method", ref, uniform(10), uniform(10), Unset, pos},
		{"no reference", nil, uniform(10), uniform(10), Optimal, pos},
		{"no align", ref, nil, uniform(10), Optimal, pos},
		{"no displace", ref, uniform(10), nil, Simple, pos},
		{"short align", ref, short, uniform(10), Optimal, pos},
		{"short displace", ref, uniform(10), short, Simple, pos},
		{"zero displace", ref, uniform(10), zero, Simple, pos},
		{"zero align", ref, zero, uniform(10), Optimal, pos},
		{"short positions", ref, uniform(10), uniform(10), Optimal, v3.Zeros(1)},
		{"nil positions", ref, uniform(10), uniform(10), Simple, nil},
	}
	for _, c := range cases {
		R := New(nil)
		if c.ref != nil {
			if err := R.SetReference(c.ref); err != nil {
				Te.Fatal(err)
			}
		}
		if c.align != nil {
			if err := R.SetAlign(c.align); err != nil {
				Te.Fatal(err)
			}
		}
		if c.displace != nil {
			if err := R.SetDisplace(c.displace); err != nil {
				Te.Fatal(err)
			}
		}
		if c.method != Unset {
			if err := R.SetMethod(c.method); err != nil {
				Te.Fatal(err)
			}
		}
		res, err := R.Calculate(c.positions)
		var cerr *ConfigurationError
		if !errors.As(err, &cerr) || res != nil {
			Te.Errorf("%s: expected a ConfigurationError and no result, got %v, %v", c.name, res, err)
			continue
		}
		fmt.Println(c.name, "->", err)
	}
}

func TestZeroAlignWeightsSimple(Te *testing.T) {
	//SIMPLE doesn't use the alignment weights, so they can add up to zero.
	pos, ref := chain()
	R := configured(Te, ref, make([]float64, 10), uniform(10), Simple)
	if _, err := R.Calculate(pos); err != nil {
		Te.Error(err)
	}
}

func TestBadWeights(Te *testing.T) {
	R := New(nil)
	var cerr *ConfigurationError
	for _, w := range [][]float64{{1, -1, 1}, {1, math.NaN(), 1}, {math.Inf(1), 1, 1}, {}} {
		if err := R.SetAlign(w); !errors.As(err, &cerr) {
			Te.Errorf("SetAlign(%v): expected a ConfigurationError, got %v", w, err)
		}
		if err := R.SetDisplace(w); !errors.As(err, &cerr) {
			Te.Errorf("SetDisplace(%v): expected a ConfigurationError, got %v", w, err)
		}
	}
	if err := R.SetReference(nil); !errors.As(err, &cerr) {
		Te.Errorf("SetReference(nil): expected a ConfigurationError, got %v", err)
	}
}

func TestClear(Te *testing.T) {
	pos, ref := chain()
	R := configured(Te, ref, uniform(10), uniform(10), Optimal)
	if _, err := R.Calculate(pos); err != nil {
		Te.Fatal(err)
	}
	R.Clear()
	if R.N() != 0 || R.Method() != "" {
		Te.Errorf("Clear left %d atoms and method %q", R.N(), R.Method())
	}
	var cerr *ConfigurationError
	if _, err := R.Calculate(pos); !errors.As(err, &cerr) {
		Te.Errorf("expected a ConfigurationError after Clear, got %v", err)
	}
	//and it can be configured again
	R2 := configured(Te, ref, uniform(10), uniform(10), Simple)
	*R = *R2
	if _, err := R.Calculate(pos); err != nil {
		Te.Error(err)
	}
}

func TestReconfigure(Te *testing.T) {
	pos, ref := chain()
	R := configured(Te, ref, uniform(10), uniform(10), Optimal)
	first, err := R.Calculate(pos)
	if err != nil {
		Te.Fatal(err)
	}
	//A reference with a different number of atoms leaves the weights mismatched
	//until they are set again.
	short := v3.Zeros(5)
	for i := 0; i < 5; i++ {
		short.SetVec(i, ref.Vec(i))
	}
	if err := R.SetReference(short); err != nil {
		Te.Fatal(err)
	}
	var cerr *ConfigurationError
	if _, err := R.Calculate(pos.Clone()); !errors.As(err, &cerr) {
		Te.Errorf("expected a ConfigurationError, got %v", err)
	}
	if err := R.SetReference(ref); err != nil {
		Te.Fatal(err)
	}
	again, err := R.Calculate(pos)
	if err != nil {
		Te.Fatal(err)
	}
	if again.RMSD != first.RMSD {
		Te.Errorf("RMSD changed after restoring the reference: %f vs %f", again.RMSD, first.RMSD)
	}
	//changing the method keeps the rest of the configuration
	if err := R.SetMethod(Simple); err != nil {
		Te.Fatal(err)
	}
	simple, err := R.Calculate(pos)
	if err != nil {
		Te.Fatal(err)
	}
	if simple.RMSD < first.RMSD {
		Te.Errorf("SIMPLE RMSD %f lower than OPTIMAL %f", simple.RMSD, first.RMSD)
	}
}

type fakeStructure struct {
	coords   *v3.Matrix
	occ, bfs []float64
}

func (F fakeStructure) Coords() *v3.Matrix     { return F.coords }
func (F fakeStructure) Occupancies() []float64 { return F.occ }
func (F fakeStructure) Bfactors() []float64    { return F.bfs }

func TestSetFromStructure(Te *testing.T) {
	pos, ref := chain()
	align := []float64{1, 1, 1, 1, 1, 0, 0, 0, 0, 0}
	displace := uniform(10)
	R := New(nil)
	if err := R.SetFromStructure(fakeStructure{ref, align, displace}, "optimal"); err != nil {
		Te.Fatal(err)
	}
	if R.Method() != "OPTIMAL" || R.N() != 10 {
		Te.Errorf("wrong configuration: %s, %d atoms", R.Method(), R.N())
	}
	res, err := R.Calculate(pos)
	if err != nil {
		Te.Fatal(err)
	}
	R2 := configured(Te, ref, align, displace, Optimal)
	res2, err := R2.Calculate(pos)
	if err != nil {
		Te.Fatal(err)
	}
	if res.RMSD != res2.RMSD {
		Te.Errorf("SetFromStructure and explicit setters disagree: %f vs %f", res.RMSD, res2.RMSD)
	}
	var cerr *ConfigurationError
	if err := R.SetFromStructure(fakeStructure{ref, align, displace}, "WRONG"); !errors.As(err, &cerr) {
		Te.Errorf("expected a ConfigurationError, got %v", err)
	}
	if err := R.SetFromStructure(nil, "SIMPLE"); !errors.As(err, &cerr) {
		Te.Errorf("expected a ConfigurationError, got %v", err)
	}
}

func TestLogger(Te *testing.T) {
	var buf bytes.Buffer
	o := DefaultOptions()
	o.Logger(log.New(&buf, "", 0))
	_, ref := chain()
	R := New(o)
	R.SetReference(ref)
	R.SetAlign(uniform(10))
	R.SetDisplace(uniform(10))
	R.SetMethod(Optimal)
	if !strings.Contains(buf.String(), "10 atoms, method OPTIMAL") {
		Te.Errorf("unexpected log output: %q", buf.String())
	}
	fmt.Print(buf.String())
}

func TestConcurrentCalculate(Te *testing.T) {
	rnd := rand.New(rand.NewSource(11))
	ref := randomCoords(rnd, 20)
	frames := make([]*v3.Matrix, 16)
	for i := range frames {
		frames[i] = randomCoords(rnd, 20)
	}
	R := configured(Te, ref, randomWeights(rnd, 20), randomWeights(rnd, 20), Optimal)
	serial := make([]float64, len(frames))
	for i, f := range frames {
		res, err := R.Calculate(f)
		if err != nil {
			Te.Fatal(err)
		}
		serial[i] = res.RMSD
	}
	others := make([]*RMSD, len(frames))
	for i := range others {
		others[i] = configured(Te, ref, R.set.Align(), R.set.Displace(), Optimal)
	}
	conc := make([]float64, len(frames))
	errs := make([]error, len(frames))
	var wg sync.WaitGroup
	for i, f := range frames {
		wg.Add(1)
		go func(i int, f *v3.Matrix) {
			defer wg.Done()
			//even indexes share R, odd ones use their own object.
			obj := R
			if i%2 == 1 {
				obj = others[i]
			}
			res, err := obj.Calculate(f)
			if err != nil {
				errs[i] = err
				return
			}
			conc[i] = res.RMSD
		}(i, f)
	}
	wg.Wait()
	for i := range frames {
		if errs[i] != nil {
			Te.Error(errs[i])
			continue
		}
		if conc[i] != serial[i] {
			Te.Errorf("frame %d: concurrent %f serial %f", i, conc[i], serial[i])
		}
	}
}
