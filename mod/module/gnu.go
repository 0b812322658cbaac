package module

/* Compare file names containing version numbers.

   Copyright (C) 1995 Ian Jackson <iwj10@cus.cam.ac.uk>
   Copyright (C) 2001 Anthony Towns <aj@azure.humbug.org.au>
   Copyright (C) 2008-2025 Free Software Foundation, Inc.

   This file is free software: you can redistribute it and/or modify
   it under the terms of the GNU Lesser General Public License as
   published by the Free Software Foundation, either version 3 of the
   License, or (at your option) any later version.

   This file is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
   GNU Lesser General Public License for more details.

   You should have received a copy of the GNU Lesser General Public License
   along with this program.  If not, see <https://www.gnu.org/licenses/>.  */

// gnuCompare orders versions the way GNU sort -V does: digit runs compare
// by value, other runs by character, and '~' sorts before anything.
// It returns -1, 0 or +1.
func gnuCompare(a, b string) int {
	switch d := verrevcmp(a, b); {
	case d < 0:
		return -1
	case d > 0:
		return 1
	}
	return 0
}

func verrevcmp(s1, s2 string) int {
	i, j := 0, 0
	for i < len(s1) || j < len(s2) {
		firstDiff := 0

		for (i < len(s1) && !isDigit(s1[i])) || (j < len(s2) && !isDigit(s2[j])) {
			c1, c2 := at(s1, i), at(s2, j)
			if o1, o2 := order(c1), order(c2); o1 != o2 {
				return o1 - o2
			}
			i++
			j++
		}

		for i < len(s1) && s1[i] == '0' {
			i++
		}
		for j < len(s2) && s2[j] == '0' {
			j++
		}

		for i < len(s1) && j < len(s2) && isDigit(s1[i]) && isDigit(s2[j]) {
			if firstDiff == 0 {
				firstDiff = int(s1[i]) - int(s2[j])
			}
			i++
			j++
		}

		// the longer digit run is the larger number
		if i < len(s1) && isDigit(s1[i]) {
			return 1
		}
		if j < len(s2) && isDigit(s2[j]) {
			return -1
		}
		if firstDiff != 0 {
			return firstDiff
		}
	}
	return 0
}

func at(s string, i int) byte {
	if i < len(s) {
		return s[i]
	}
	return 0
}

// order: digits and end of string 0, letters their ASCII value, '~' -1,
// everything else after letters.
func order(c byte) int {
	switch {
	case isDigit(c), c == 0:
		return 0
	case isAlpha(c):
		return int(c)
	case c == '~':
		return -1
	}
	return int(c) + 256
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
