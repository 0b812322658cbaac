// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package module defines the Reference type used to name a package
// and its requirements, along with support code.
package module

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/mod/semver"
)

// ErrInvalidReference is returned when a textual reference cannot be parsed.
var ErrInvalidReference = errors.New("invalid package reference")

var fieldRE = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.+-]*$`)

// A Reference identifies a specific version of a package, optionally
// qualified by the user and channel that published it.
type Reference struct {
	Name    string // Package name (e.g., "boost_config")
	Version string // Version string (e.g., "1.66.0")
	User    string // Publishing user, empty when unqualified
	Channel string // Publishing channel, empty when unqualified
}

// ParseReference parses a reference in the form "name/version@user/channel".
// The "@user/channel" part is optional.
func ParseReference(s string) (Reference, error) {
	var ref Reference
	pkg, qual, qualified := strings.Cut(s, "@")

	name, version, ok := strings.Cut(pkg, "/")
	if !ok {
		return ref, fmt.Errorf("%w %q: missing version", ErrInvalidReference, s)
	}
	ref.Name, ref.Version = name, version

	if qualified {
		user, channel, ok := strings.Cut(qual, "/")
		if !ok {
			return Reference{}, fmt.Errorf("%w %q: missing channel", ErrInvalidReference, s)
		}
		ref.User, ref.Channel = user, channel
	}
	if err := ref.Validate(); err != nil {
		return Reference{}, err
	}
	return ref, nil
}

// MustParseReference is like ParseReference but panics on error.
func MustParseReference(s string) Reference {
	ref, err := ParseReference(s)
	if err != nil {
		panic(err)
	}
	return ref
}

// Validate reports whether every field of ref is well formed.
func (ref Reference) Validate() error {
	fields := []struct {
		name, value string
		optional    bool
	}{
		{"name", ref.Name, false},
		{"version", ref.Version, false},
		{"user", ref.User, ref.Channel == ""},
		{"channel", ref.Channel, ref.User == ""},
	}
	for _, f := range fields {
		if f.value == "" && f.optional {
			continue
		}
		if !fieldRE.MatchString(f.value) {
			return fmt.Errorf("%w %q: bad %s %q", ErrInvalidReference, ref.String(), f.name, f.value)
		}
	}
	return nil
}

// String returns the canonical textual form accepted by ParseReference.
func (ref Reference) String() string {
	s := ref.Name + "/" + ref.Version
	if ref.User != "" || ref.Channel != "" {
		s += "@" + ref.User + "/" + ref.Channel
	}
	return s
}

// CompareVersion compares two semantic-ish versions. Versions without a
// leading "v" are accepted, and shorthands like "1.0" compare as "1.0.0".
// When either side is not a semantic version, GNU version ordering is used.
func CompareVersion(v1, v2 string) int {
	s1, s2 := canonical(v1), canonical(v2)
	if s1 == "" || s2 == "" {
		return gnuCompare(v1, v2)
	}
	return semver.Compare(s1, s2)
}

func canonical(v string) string {
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return semver.Canonical(v)
}

// EscapePath returns the escaped form of the given package path as a valid
// file system path. It fails if the path is invalid.
func EscapePath(path string) (escaped string, err error) {
	return filepath.Localize(path)
}
