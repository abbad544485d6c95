package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// generateDDL creates a CREATE TABLE statement from struct tags.
func generateDDL(model any, tableName string) string {
	v := reflect.ValueOf(model)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	t := v.Type()

	var columns []string

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		dbTag := field.Tag.Get("db")
		ddlTag := field.Tag.Get("ddl")

		if dbTag != "" && ddlTag != "" {
			columns = append(columns, fmt.Sprintf("    %s %s", dbTag, ddlTag))
		}
	}

	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n);",
		tableName,
		strings.Join(columns, ",\n"))

	return ddl
}

// TableDDL returns the SQLite CREATE TABLE statement of a collection.
func (v Video) TableDDL(table string) string {
	return generateDDL(v, table)
}

// IndexDDL returns SQLite CREATE INDEX statements of a collection.
func (v Video) IndexDDL(table string) []string {
	return []string{
		fmt.Sprintf(
			"CREATE INDEX IF NOT EXISTS idx_%s_update_date ON %s(update_date);",
			table, table,
		),
	}
}

// Columns returns names of the stored record fields in table order,
// without the row id.
func Columns() []string {
	t := reflect.TypeOf(Video{})
	var res []string
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("db")
		if tag == "" || tag == "id" {
			continue
		}
		res = append(res, tag)
	}
	return res
}
