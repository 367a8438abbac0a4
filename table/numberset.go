/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package table

import (
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
)

// NumberSet is a set of connection IDs. Iteration follows insertion order.
type NumberSet struct {
	ids []uint64
}

// NewNumberSet creates a set holding the given IDs.
func NewNumberSet(ids ...uint64) NumberSet {
	var s NumberSet
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id. Returns false if it was already present.
func (s *NumberSet) Add(id uint64) bool {
	if slices.Contains(s.ids, id) {
		return false
	}
	s.ids = append(s.ids, id)
	return true
}

// AddSet inserts every ID of other.
func (s *NumberSet) AddSet(other NumberSet) {
	for _, id := range other.ids {
		s.Add(id)
	}
}

// Remove deletes id. Returns false if it was not present.
func (s *NumberSet) Remove(id uint64) bool {
	i := slices.Index(s.ids, id)
	if i < 0 {
		return false
	}
	s.ids = slices.Delete(s.ids, i, i+1)
	return true
}

// Contains returns whether id is in the set.
func (s NumberSet) Contains(id uint64) bool {
	return slices.Contains(s.ids, id)
}

// Len returns the number of IDs.
func (s NumberSet) Len() int {
	return len(s.ids)
}

// IsEmpty returns whether the set holds no ID.
func (s NumberSet) IsEmpty() bool {
	return len(s.ids) == 0
}

// At returns the i-th ID in insertion order.
func (s NumberSet) At(i int) uint64 {
	return s.ids[i]
}

// Slice returns a copy of the IDs.
func (s NumberSet) Slice() []uint64 {
	out := make([]uint64, len(s.ids))
	copy(out, s.ids)
	return out
}

// Clone returns an independent copy of the set.
func (s NumberSet) Clone() NumberSet {
	return NumberSet{ids: s.Slice()}
}

// Equal returns whether both sets hold the same IDs, regardless of order.
func (s NumberSet) Equal(other NumberSet) bool {
	if len(s.ids) != len(other.ids) {
		return false
	}
	for _, id := range s.ids {
		if !other.Contains(id) {
			return false
		}
	}
	return true
}

func (s NumberSet) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, id := range s.ids {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatUint(id, 10))
	}
	sb.WriteByte('}')
	return sb.String()
}
