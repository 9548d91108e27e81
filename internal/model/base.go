package model

import (
	"database/sql/driver"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ── PostgreSQL TEXT[] ──

// StringArray maps a PostgreSQL TEXT[] column. Elements are quoted on write so
// commas and spaces survive the round trip.
type StringArray []string

// Scan parses the {a,"b c"} text form returned by PostgreSQL.
func (a *StringArray) Scan(src interface{}) error {
	if src == nil {
		*a = nil
		return nil
	}
	var s string
	switch v := src.(type) {
	case []byte:
		s = string(v)
	case string:
		s = v
	default:
		return fmt.Errorf("StringArray.Scan: unsupported type %T", src)
	}
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '{' || s[len(s)-1] != '}' {
		return fmt.Errorf("StringArray.Scan: malformed array %q", s)
	}
	s = s[1 : len(s)-1]
	if s == "" {
		*a = StringArray{}
		return nil
	}

	var (
		out     StringArray
		cur     strings.Builder
		quoted  bool
		escaped bool
	)
	for _, r := range s {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\' && quoted:
			escaped = true
		case r == '"':
			quoted = !quoted
		case r == ',' && !quoted:
			out = append(out, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	out = append(out, cur.String())
	*a = out
	return nil
}

// Value serializes to the PostgreSQL array literal.
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "{}", nil
	}
	parts := make([]string, len(a))
	for i, s := range a {
		s = strings.ReplaceAll(s, `\`, `\\`)
		s = strings.ReplaceAll(s, `"`, `\"`)
		parts[i] = `"` + s + `"`
	}
	return "{" + strings.Join(parts, ",") + "}", nil
}

// Contains reports whether v is an element, ignoring case.
func (a StringArray) Contains(v string) bool {
	for _, s := range a {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}

// NormalizeTags trims, lowercases, dedupes and sorts tag sets
// (special requirements, equipment, specializations).
func NormalizeTags(tags []string) StringArray {
	seen := make(map[string]struct{}, len(tags))
	out := make(StringArray, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// BaseModel audit fields embedded by every table.
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy *string   `gorm:"type:uuid"                          json:"created_by,omitempty"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy *string   `gorm:"type:uuid"                          json:"updated_by,omitempty"`
}

// SoftDeleteModel audit fields with soft delete.
type SoftDeleteModel struct {
	BaseModel
	DeletedAt gorm.DeletedAt `gorm:"index"    json:"deleted_at,omitempty"`
	DeletedBy *string        `gorm:"type:uuid" json:"deleted_by,omitempty"`
}

// VersionedModel soft delete plus optimistic lock version.
type VersionedModel struct {
	SoftDeleteModel
	Version int `gorm:"not null;default:1" json:"version"`
}
