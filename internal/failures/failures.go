// Copyright (c) ciotools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

// Package failures accumulates the named failure categories for one run.
// Categories are recorded at most once, in the order they first occur.
package failures

import (
	"slices"
	"strings"
)

// Category names recorded by the check suite.
const (
	CategoryEncodingHeader  = "encoding-header"
	CategoryCopyrightHeader = "copyright-header"
	CategoryFormatting      = "formatting"
	CategoryStyle           = "style"
	CategoryDocstrings      = "docstrings"
	CategoryTests           = "tests"
	CategoryCoverage        = "coverage"
	CategoryEggsDirectory   = "eggs-directory"
)

// Set is an ordered, append-once set of failure categories.
// The zero value is ready to use. It is not safe for concurrent use;
// the runner mutates it from a single goroutine only.
type Set struct {
	categories []string
}

// Add records a category. Adding a category that is already present is a no-op.
func (s *Set) Add(category string) {
	if slices.Contains(s.categories, category) {
		return
	}

	s.categories = append(s.categories, category)
}

// Empty reports whether no categories have been recorded.
func (s *Set) Empty() bool {
	return len(s.categories) == 0
}

// Len returns the number of recorded categories.
func (s *Set) Len() int {
	return len(s.categories)
}

// Categories returns the recorded categories in first-occurrence order.
func (s *Set) Categories() []string {
	return slices.Clone(s.categories)
}

// Merge adds every category from other into s.
func (s *Set) Merge(other *Set) {
	if other == nil {
		return
	}

	for _, c := range other.categories {
		s.Add(c)
	}
}

// String returns the categories as a comma-separated list.
func (s *Set) String() string {
	return strings.Join(s.categories, ", ")
}
