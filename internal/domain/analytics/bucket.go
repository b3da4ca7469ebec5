package analytics

import (
	"fmt"
	"strings"
	"time"
)

// Bucket granularidad temporal del reporte de ventas por período.
type Bucket string

const (
	BucketDay   Bucket = "day"
	BucketWeek  Bucket = "week"
	BucketMonth Bucket = "month"
	BucketYear  Bucket = "year"
)

// DefaultBucket granularidad usada cuando el cliente no envía group_by.
const DefaultBucket = BucketDay

// ParseBucket valida group_by. Vacío devuelve DefaultBucket.
func ParseBucket(s string) (Bucket, error) {
	switch b := Bucket(strings.ToLower(strings.TrimSpace(s))); b {
	case "":
		return DefaultBucket, nil
	case BucketDay, BucketWeek, BucketMonth, BucketYear:
		return b, nil
	default:
		return "", fmt.Errorf("group_by inválido %q: use day, week, month o year", s)
	}
}

// Key clave del período al que pertenece t (en UTC). Las claves ordenan
// lexicográficamente en orden cronológico.
//
// Las semanas siguen ISO-8601 (lunes a domingo, año ISO): 2024-12-30 cae en "2025-W01".
func (b Bucket) Key(t time.Time) string {
	t = t.UTC()
	switch b {
	case BucketWeek:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case BucketMonth:
		return t.Format("2006-01")
	case BucketYear:
		return t.Format("2006")
	default:
		return t.Format("2006-01-02")
	}
}

// PostgresExpr expresión SQL que produce la misma clave que Key para una columna timestamptz.
func (b Bucket) PostgresExpr(column string) string {
	var layout string
	switch b {
	case BucketWeek:
		layout = `IYYY-"W"IW`
	case BucketMonth:
		layout = "YYYY-MM"
	case BucketYear:
		layout = "YYYY"
	default:
		layout = "YYYY-MM-DD"
	}
	return fmt.Sprintf("to_char(%s AT TIME ZONE 'UTC', '%s')", column, layout)
}
