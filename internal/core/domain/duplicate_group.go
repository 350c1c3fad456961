package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// DuplicateGroup is the ordered set of transaction IDs considered duplicates
// of a transaction at the time that transaction was saved. Members are unique
// and kept in ascending order, so two groups with the same members are equal
// regardless of the order they were discovered in.
//
// In storage it is encoded as a comma-joined list ("3,7,12") to stay
// compatible with the legacy duplicate_ids column; an empty group is NULL.
type DuplicateGroup struct {
	ids []int64
}

// NewDuplicateGroup builds a group from ids, dropping repeats and non-positive values.
func NewDuplicateGroup(ids ...int64) DuplicateGroup {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id > 0 {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return DuplicateGroup{ids: slices.Compact(out)}
}

// ParseDuplicateGroup decodes the comma-joined storage form.
func ParseDuplicateGroup(s string) (DuplicateGroup, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DuplicateGroup{}, nil
	}
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return DuplicateGroup{}, fmt.Errorf("invalid duplicate id %q: %w", p, err)
		}
		ids = append(ids, id)
	}
	return NewDuplicateGroup(ids...), nil
}

// IDs returns a copy of the member ids in ascending order.
func (g DuplicateGroup) IDs() []int64 {
	return slices.Clone(g.ids)
}

// Len returns the number of members.
func (g DuplicateGroup) Len() int { return len(g.ids) }

// IsEmpty reports whether the group has no members.
func (g DuplicateGroup) IsEmpty() bool { return len(g.ids) == 0 }

// Contains reports whether id is a member.
func (g DuplicateGroup) Contains(id int64) bool {
	_, found := slices.BinarySearch(g.ids, id)
	return found
}

// Without returns a copy of the group with id removed.
func (g DuplicateGroup) Without(id int64) DuplicateGroup {
	out := make([]int64, 0, len(g.ids))
	for _, member := range g.ids {
		if member != id {
			out = append(out, member)
		}
	}
	return DuplicateGroup{ids: out}
}

// Equal reports whether both groups have the same members.
func (g DuplicateGroup) Equal(other DuplicateGroup) bool {
	return slices.Equal(g.ids, other.ids)
}

// String returns the comma-joined storage form.
func (g DuplicateGroup) String() string {
	parts := make([]string, len(g.ids))
	for i, id := range g.ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

// MarshalJSON renders the group as a JSON array of ids.
func (g DuplicateGroup) MarshalJSON() ([]byte, error) {
	if g.ids == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(g.ids)
}

// UnmarshalJSON accepts a JSON array of ids or null.
func (g *DuplicateGroup) UnmarshalJSON(data []byte) error {
	var ids []int64
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*g = NewDuplicateGroup(ids...)
	return nil
}

// Value implements driver.Valuer. An empty group is stored as NULL.
func (g DuplicateGroup) Value() (driver.Value, error) {
	if g.IsEmpty() {
		return nil, nil
	}
	return g.String(), nil
}

// Scan implements sql.Scanner for the comma-joined storage form.
func (g *DuplicateGroup) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*g = DuplicateGroup{}
		return nil
	case string:
		parsed, err := ParseDuplicateGroup(v)
		if err != nil {
			return err
		}
		*g = parsed
		return nil
	case []byte:
		parsed, err := ParseDuplicateGroup(string(v))
		if err != nil {
			return err
		}
		*g = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into DuplicateGroup", src)
	}
}
