package models

import (
	"database/sql/driver"
	"encoding/json"
	"slices"

	"github.com/lib/pq"
)

// IDSet is an ordered set of identifiers stored as a Postgres TEXT[] column.
// It is used for likes and joined courses.
type IDSet []string

// NewIDSet builds a set from ids, dropping duplicates and blanks.
func NewIDSet(ids ...string) IDSet {
	set := make(IDSet, 0, len(ids))
	for _, id := range ids {
		set = set.Add(id)
	}
	return set
}

// Contains reports whether id is a member.
func (s IDSet) Contains(id string) bool {
	return slices.Contains(s, id)
}

// Add returns the set with id appended when it is not already present.
func (s IDSet) Add(id string) IDSet {
	if id == "" || s.Contains(id) {
		return s
	}
	return append(s, id)
}

// Remove returns the set without id.
func (s IDSet) Remove(id string) IDSet {
	return slices.DeleteFunc(slices.Clone(s), func(v string) bool { return v == id })
}

// Toggle adds id when absent and removes it otherwise.
func (s IDSet) Toggle(id string) IDSet {
	if s.Contains(id) {
		return s.Remove(id)
	}
	return s.Add(id)
}

// Len returns the number of members.
func (s IDSet) Len() int {
	return len(s)
}

// Scan implements sql.Scanner.
func (s *IDSet) Scan(src interface{}) error {
	var arr pq.StringArray
	if err := arr.Scan(src); err != nil {
		return err
	}
	*s = NewIDSet(arr...)
	return nil
}

// Value implements driver.Valuer.
func (s IDSet) Value() (driver.Value, error) {
	if s == nil {
		return pq.StringArray{}.Value()
	}
	return pq.StringArray(s).Value()
}

// MarshalJSON never emits null.
func (s IDSet) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(s))
}
