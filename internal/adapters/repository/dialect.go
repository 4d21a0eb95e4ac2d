package repository

import (
	"fmt"
	"strconv"
	"strings"
)

// chartColumns is the column order used by every statement.
var chartColumns = []string{
	"id", "name", "name_en", "real_name", "birth_date", "birth_time", "birth_place",
	"gender", "category",
	"year_pillar", "month_pillar", "day_pillar", "hour_pillar", "saju_string",
	"wood_count", "fire_count", "earth_count", "metal_count", "water_count",
	"dominant_element", "full_saju_data", "data_source", "created_at", "updated_at",
}

// dialect holds the per-driver SQL differences.
type dialect struct {
	name string
	// text and key are the column types for plain strings and the primary key.
	text string
	key  string
	blob string
	// dollar placeholders ($1, $2, ...) instead of ?.
	dollar bool
	// mysql spells upsert as ON DUPLICATE KEY UPDATE.
	duplicateKey bool
}

var dialects = map[string]dialect{
	DriverSQLite:   {name: DriverSQLite, text: "TEXT", key: "TEXT", blob: "TEXT"},
	DriverPostgres: {name: DriverPostgres, text: "TEXT", key: "TEXT", blob: "TEXT", dollar: true},
	DriverMySQL:    {name: DriverMySQL, text: "VARCHAR(255)", key: "VARCHAR(191)", blob: "LONGTEXT", duplicateKey: true},
}

// rebind rewrites ? placeholders for dialects that number them.
func (d dialect) rebind(q string) string {
	if !d.dollar {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (d dialect) createTable(table string) string {
	var cols []string
	for _, c := range chartColumns {
		typ := d.text
		switch {
		case c == "id":
			typ = d.key + " PRIMARY KEY"
		case strings.HasSuffix(c, "_count"):
			typ = "INTEGER NOT NULL DEFAULT 0"
		case c == "full_saju_data":
			typ = d.blob
		case c == "name" || c == "birth_date":
			typ += " NOT NULL"
		}
		cols = append(cols, c+" "+typ)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", table, strings.Join(cols, ",\n\t"))
}

func (d dialect) upsert(table string) string {
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(chartColumns)), ", ")
	var sets []string
	for _, c := range chartColumns {
		if c == "id" || c == "created_at" {
			continue
		}
		if d.duplicateKey {
			sets = append(sets, fmt.Sprintf("%s = VALUES(%s)", c, c))
		} else {
			sets = append(sets, fmt.Sprintf("%s = excluded.%s", c, c))
		}
	}
	conflict := "ON CONFLICT (id) DO UPDATE SET "
	if d.duplicateKey {
		conflict = "ON DUPLICATE KEY UPDATE "
	}
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) %s%s",
		table, strings.Join(chartColumns, ", "), marks, conflict, strings.Join(sets, ", "))
	return d.rebind(q)
}

func (d dialect) selectByID(table string) string {
	return d.rebind(fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", strings.Join(chartColumns, ", "), table))
}

func (d dialect) selectList(table string) string {
	return d.rebind(fmt.Sprintf("SELECT %s FROM %s ORDER BY id LIMIT ?", strings.Join(chartColumns, ", "), table))
}

func (d dialect) count(table string) string {
	return fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
}
