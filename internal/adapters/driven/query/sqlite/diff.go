package sqlite

import (
	"reflect"
	"sort"

	"github.com/rowsync-labs/rowsync-cli/internal/core/domain"
)

// diffRows computes the change records that take the old snapshot to
// the new one. Rows are matched by key; the key column must be unique
// within the result set. Record conventions follow the delegate
// contract: deletes and updates carry pre-change positions, inserts
// post-change positions, moves both.
//
// Moves are kept minimal: among surviving rows, those on a longest
// increasing subsequence of old positions (taken in new order) kept
// their relative order and are not reported as moved.
func diffRows(old, fresh []domain.EntityRef) []domain.ChangeRecord {
	oldPos := make(map[string]int, len(old))
	for i, r := range old {
		oldPos[r.Key] = i
	}
	newPos := make(map[string]int, len(fresh))
	for i, r := range fresh {
		newPos[r.Key] = i
	}

	var records []domain.ChangeRecord

	for i, r := range old {
		if _, ok := newPos[r.Key]; !ok {
			records = append(records, domain.NewRowDeleted(domain.RowPath{Row: i}))
		}
	}

	// Survivors in new order, remembering where they came from.
	type survivor struct {
		oldIdx int
		newIdx int
	}
	var survivors []survivor
	for j, r := range fresh {
		i, ok := oldPos[r.Key]
		if !ok {
			records = append(records, domain.NewRowInserted(domain.RowPath{Row: j}))
			continue
		}
		survivors = append(survivors, survivor{oldIdx: i, newIdx: j})
	}

	seq := make([]int, len(survivors))
	for i, s := range survivors {
		seq[i] = s.oldIdx
	}
	stable := lisMembers(seq)

	for i, s := range survivors {
		if !stable[i] {
			records = append(records, domain.NewRowMoved(
				domain.RowPath{Row: s.oldIdx},
				domain.RowPath{Row: s.newIdx},
			))
		}
		if !reflect.DeepEqual(old[s.oldIdx].Values, fresh[s.newIdx].Values) {
			records = append(records, domain.NewRowUpdated(domain.RowPath{Row: s.oldIdx}))
		}
	}

	return records
}

// lisMembers returns the positions of one longest strictly increasing
// subsequence of seq. Patience sorting with parent links, O(n log n).
func lisMembers(seq []int) map[int]bool {
	members := make(map[int]bool, len(seq))
	if len(seq) == 0 {
		return members
	}

	tails := make([]int, 0, len(seq))   // tails[k]: index of smallest tail of an LIS of length k+1
	parents := make([]int, len(seq))

	for i, v := range seq {
		k := sort.Search(len(tails), func(k int) bool { return seq[tails[k]] >= v })
		if k > 0 {
			parents[i] = tails[k-1]
		} else {
			parents[i] = -1
		}
		if k == len(tails) {
			tails = append(tails, i)
		} else {
			tails[k] = i
		}
	}

	for i := tails[len(tails)-1]; i >= 0; i = parents[i] {
		members[i] = true
	}
	return members
}
