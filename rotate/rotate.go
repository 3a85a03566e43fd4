// Copyright ©2015 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rotate decides whether an inserted sequence encountered
// in-CIGAR is a rotation of the duplication-spanning junction formed by
// its flanking reference, within a bounded number of mismatches.
package rotate

// DefaultAllowedMismatches is the default bound on Hamming-style
// mismatches tolerated by Check.
const DefaultAllowedMismatches = 2

// Check decides whether insertion, of length n, is a rotation of
// left+right (each of length n-1, the reference immediately flanking the
// insertion site) within allowedMismatches substitutions. It tries a
// left rotation (rotate the last character to the front) at each shift
// 1..ceil(n/2), then, if none of those succeed, a right rotation (rotate
// the first character to the end) at each shift.
//
// On success, ok is true, shift is the number of left-rotation steps
// applied (n-k when the match came from k right-rotation steps), and
// matched is the rotated insertion sequence that was accepted.
func Check(insertion, left, right string, allowedMismatches int) (ok bool, shift int, matched string) {
	n := len(insertion)
	if n == 0 {
		return false, 0, ""
	}
	steps := (n + 1) / 2

	rot := insertion
	for k := 1; k <= steps; k++ {
		rot = rotateLeft(rot)
		target := suffix(left, k) + prefix(right, n-k)
		if mismatches(rot, target) <= allowedMismatches {
			return true, k, rot
		}
	}

	rot = insertion
	for k := 1; k <= steps; k++ {
		rot = rotateRight(rot)
		target := suffix(left, n-k) + prefix(right, k)
		if mismatches(rot, target) <= allowedMismatches {
			return true, n - k, rot
		}
	}

	return false, 0, ""
}

// rotateLeft moves the last character of s to the front.
func rotateLeft(s string) string {
	if len(s) < 2 {
		return s
	}
	return s[len(s)-1:] + s[:len(s)-1]
}

// rotateRight moves the first character of s to the end.
func rotateRight(s string) string {
	if len(s) < 2 {
		return s
	}
	return s[1:] + s[:1]
}

// suffix returns the last k characters of s, or all of s if k >= len(s).
// A non-positive k returns the empty string.
func suffix(s string, k int) string {
	if k <= 0 {
		return ""
	}
	if k >= len(s) {
		return s
	}
	return s[len(s)-k:]
}

// prefix returns the first k characters of s, or all of s if k >= len(s).
// A non-positive k returns the empty string.
func prefix(s string, k int) string {
	if k <= 0 {
		return ""
	}
	if k >= len(s) {
		return s
	}
	return s[:k]
}

// mismatches returns the Hamming distance over the common prefix of a
// and b plus the absolute difference in their lengths.
func mismatches(a, b string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	m := 0
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			m++
		}
	}
	if len(a) != len(b) {
		if len(a) > len(b) {
			m += len(a) - len(b)
		} else {
			m += len(b) - len(a)
		}
	}
	return m
}
