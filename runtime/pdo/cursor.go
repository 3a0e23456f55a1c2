package pdo

import (
	"database/sql"
)

// cursor wraps the driver row cursor and its lazily captured column metadata.
type cursor struct {
	rows      *sql.Rows
	names     []string
	types     []*sql.ColumnType
	described bool
}

// describe captures column names, preferring the driver-reported names and
// falling back to the column type metadata.
func (c *cursor) describe() error {
	if c.described {
		return nil
	}
	cts, terr := c.rows.ColumnTypes()
	names, err := c.rows.Columns()
	if err != nil || len(names) == 0 {
		if terr != nil {
			if err != nil {
				return err
			}
			return terr
		}
		names = make([]string, len(cts))
		for i, ct := range cts {
			names[i] = ct.Name()
		}
	}
	if terr == nil {
		c.types = cts
	}
	c.names = names
	c.described = true
	return nil
}

func (c *cursor) dbType(i int) string {
	if i < len(c.types) && c.types[i] != nil {
		return c.types[i].DatabaseTypeName()
	}
	return ""
}

// scan reads the current row as driver values.
func (c *cursor) scan() ([]any, error) {
	vals := make([]any, len(c.names))
	ptrs := make([]any, len(vals))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	if err := c.rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	return vals, nil
}

// nextResultSet advances to the next result and forgets the column metadata.
func (c *cursor) nextResultSet() bool {
	ok := c.rows.NextResultSet()
	c.described = false
	c.names = nil
	c.types = nil
	return ok
}

func (c *cursor) close() error {
	return c.rows.Close()
}
