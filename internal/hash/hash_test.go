/*
Copyright © 2017 the InMAP authors.
This file is part of InMAP.

InMAP is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

InMAP is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with InMAP.  If not, see <http://www.gnu.org/licenses/>.
*/

package hash

import "testing"

type settings struct {
	Moments  []float64
	MinScale float64
	Output   string
}

func TestKey(t *testing.T) {
	a := settings{Moments: []float64{0.5, 1}, MinScale: 3, Output: "moment"}
	b := settings{Moments: []float64{0.5, 1}, MinScale: 3, Output: "moment"}
	c := settings{Moments: []float64{0.5, 1.5}, MinScale: 3, Output: "moment"}
	if Key(a) != Key(b) {
		t.Errorf("equal values should have equal keys: %s != %s", Key(a), Key(b))
	}
	if Key(a) == Key(c) {
		t.Error("different values should have different keys")
	}
	if len(Key(a)) != 32 {
		t.Errorf("key %s should have 32 hex digits", Key(a))
	}
}

func TestKeyFallback(t *testing.T) {
	// gob can't encode functions.
	f := struct{ F func() }{}
	if Key(f) != Key(f) {
		t.Error("keys should be repeatable")
	}
}
