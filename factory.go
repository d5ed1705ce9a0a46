package sqlight

// RowFactory maps a low-level result row (ordered column names plus
// ordered values) into an application-facing record shape.
//
// Factories must be pure: no I/O, no mutation of the inputs. They are
// fixed at handle construction and applied once per returned row.
// Empty result sets never invoke the factory.
type RowFactory func(columns []string, values []any) any

// TupleFactory is the default factory. It returns the row values as an
// ordered []any, preserving engine column order.
func TupleFactory(columns []string, values []any) any {
	return values
}

// MapFactory returns the row as a column-name-keyed map[string]any.
//
// Column order is lost; for queries with duplicate column names the
// last value wins, matching the engine's own reporting order.
func MapFactory(columns []string, values []any) any {
	row := make(map[string]any, len(columns))
	for i, col := range columns {
		row[col] = values[i]
	}
	return row
}

// RecordFactory returns the row as a Record, which keeps column order
// and supports lookup by column name.
func RecordFactory(columns []string, values []any) any {
	return Record{columns: columns, values: values}
}

// Record is a named row shape produced by RecordFactory. It pairs the
// engine's ordered column names with the row's ordered values.
type Record struct {
	columns []string
	values  []any
}

// Get returns the value for the named column and whether the column
// exists in the row. The first matching column wins.
func (r Record) Get(name string) (any, bool) {
	for i, col := range r.columns {
		if col == name {
			return r.values[i], true
		}
	}
	return nil, false
}

// Columns returns the ordered column names reported by the engine.
func (r Record) Columns() []string {
	return r.columns
}

// Values returns the ordered row values.
func (r Record) Values() []any {
	return r.values
}

// Len returns the number of columns in the row.
func (r Record) Len() int {
	return len(r.columns)
}
