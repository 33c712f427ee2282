package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

type modelField struct {
	index  int
	column string
}

// plans caches the db-tagged layout of each row struct.
var plans sync.Map

func modelPlan(typ reflect.Type) []modelField {
	if cached, ok := plans.Load(typ); ok {
		return cached.([]modelField)
	}

	fields := make([]modelField, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		col, _, _ := strings.Cut(field.Tag.Get("db"), ",")
		col = strings.TrimSpace(col)
		if col == "" || col == "-" {
			continue
		}
		fields = append(fields, modelField{index: i, column: col})
	}

	actual, _ := plans.LoadOrStore(typ, fields)
	return actual.([]modelField)
}

func structValue(model any) (reflect.Value, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return reflect.Value{}, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("model must be struct, got %s", value.Kind())
	}
	return value, nil
}

// Columns lists the db columns of a row struct in field order. It panics on
// a non-struct so misuse surfaces at package init.
func Columns(model any) []string {
	value, err := structValue(model)
	if err != nil {
		panic(err)
	}
	plan := modelPlan(value.Type())
	cols := make([]string, 0, len(plan))
	for _, f := range plan {
		cols = append(cols, f.column)
	}
	return cols
}

func columnsAndValuesFromModel(model any) ([]string, []any, error) {
	value, err := structValue(model)
	if err != nil {
		return nil, nil, err
	}

	plan := modelPlan(value.Type())
	if len(plan) == 0 {
		return nil, nil, fmt.Errorf("model %s has no db columns", value.Type())
	}
	cols := make([]string, 0, len(plan))
	vals := make([]any, 0, len(plan))
	for _, f := range plan {
		cols = append(cols, f.column)
		vals = append(vals, value.Field(f.index).Interface())
	}
	return cols, vals, nil
}

func InsertModel(table string, model any, suffix string) (string, []any, error) {
	cols, vals, err := columnsAndValuesFromModel(model)
	if err != nil {
		return "", nil, err
	}
	return InsertInto(table).
		Columns(cols...).
		Values(vals...).
		Suffix(suffix).
		ToSQL()
}

// UpsertModel inserts model and, on a conflict over the conflict columns,
// overwrites every other model column from EXCLUDED. extraSets are appended
// verbatim, e.g. "updated_at = NOW()".
func UpsertModel(table string, model any, conflict []string, extraSets ...string) (string, []any, error) {
	if len(conflict) == 0 {
		return "", nil, fmt.Errorf("upsert conflict columns are required")
	}
	cols, vals, err := columnsAndValuesFromModel(model)
	if err != nil {
		return "", nil, err
	}

	skip := make(map[string]struct{}, len(conflict))
	for _, c := range conflict {
		skip[c] = struct{}{}
	}
	sets := make([]string, 0, len(cols)+len(extraSets))
	for _, col := range cols {
		if _, ok := skip[col]; ok {
			continue
		}
		sets = append(sets, col+" = EXCLUDED."+col)
	}
	sets = append(sets, extraSets...)

	suffix := "ON CONFLICT (" + strings.Join(conflict, ", ") + ")"
	if len(sets) == 0 {
		suffix += " DO NOTHING"
	} else {
		suffix += " DO UPDATE SET " + strings.Join(sets, ", ")
	}

	return InsertInto(table).
		Columns(cols...).
		Values(vals...).
		Suffix(suffix).
		ToSQL()
}
