package pdo

// ColumnMeta describes one result column.
type ColumnMeta struct {
	Name       string
	NativeType string // Go scan type reported by the driver
	DeclType   string // database type name, e.g. "INTEGER" or "VARCHAR"
	Len        int64  // -1 when unknown
	Precision  int64
	Scale      int64
	Nullable   bool
	Index      int
}

// ColumnCount returns the number of columns in the open result, or 0.
func (s *Statement) ColumnCount() int {
	if s.cur == nil {
		return 0
	}
	if err := s.cur.describe(); err != nil {
		return 0
	}
	return len(s.cur.names)
}

// GetColumnMeta returns metadata for a zero-based column. It reports false
// when no cursor is open or the index is out of range.
func (s *Statement) GetColumnMeta(i int) (ColumnMeta, bool) {
	if s.cur == nil || s.cur.describe() != nil || i < 0 || i >= len(s.cur.names) {
		return ColumnMeta{}, false
	}
	meta := ColumnMeta{
		Name:  applyCase(s.attrs.Case, s.cur.names[i]),
		Len:   -1,
		Index: i,
	}
	if i < len(s.cur.types) {
		ct := s.cur.types[i]
		meta.DeclType = ct.DatabaseTypeName()
		if st := ct.ScanType(); st != nil {
			meta.NativeType = st.String()
		}
		if n, ok := ct.Length(); ok {
			meta.Len = n
		}
		if p, sc, ok := ct.DecimalSize(); ok {
			meta.Precision, meta.Scale = p, sc
		}
		if null, ok := ct.Nullable(); ok {
			meta.Nullable = null
		}
	}
	return meta, true
}

// NextRowset advances to the next result set of a multi-result batch.
func (s *Statement) NextRowset() bool {
	if s.cur == nil {
		return false
	}
	if !s.cur.nextResultSet() {
		if err := s.cur.rows.Err(); err != nil {
			s.fail(s.driverError("next rowset", err))
		}
		return false
	}
	s.succeed()
	return true
}
