package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"
)

// CourseType distinguishes mandatory from elective courses.
type CourseType string

const (
	CourseMandatory CourseType = "obavezni"
	CourseElective  CourseType = "izborni"
)

// Course is read-only reference data seeded out of band.
type Course struct {
	ID           string         `db:"id" json:"_id"`
	Title        string         `db:"title" json:"title"`
	Type         CourseType     `db:"type" json:"type"`
	Year         int            `db:"year" json:"year"`
	Description  string         `db:"description" json:"description,omitempty"`
	Programs     pq.StringArray `db:"programs" json:"programs"`
	ProgramYears ProgramYears   `db:"program_years" json:"programYears"`
}

// EffectiveYear returns the year the course is taught in for a program key.
func (c Course) EffectiveYear(program string) int {
	if year, ok := c.ProgramYears[program]; ok {
		return year
	}
	return c.Year
}

// OfferedIn reports whether program lists the course.
func (c Course) OfferedIn(program string) bool {
	for _, p := range c.Programs {
		if p == program {
			return true
		}
	}
	return false
}

// ProgramYears maps a program key to the year overriding Course.Year.
type ProgramYears map[string]int

// Scan implements sql.Scanner for JSONB columns.
func (p *ProgramYears) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*p = ProgramYears{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan program years: unsupported type %T", src)
	}
	out := ProgramYears{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("scan program years: %w", err)
	}
	*p = out
	return nil
}

// Value implements driver.Valuer.
func (p ProgramYears) Value() (driver.Value, error) {
	if p == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(map[string]int(p))
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// MarshalJSON never emits null.
func (p ProgramYears) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]int(p))
}

// CourseFilter narrows course listings. Zero values mean no filter.
type CourseFilter struct {
	Program string
	Year    int
	Type    CourseType
}
