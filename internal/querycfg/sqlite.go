package querycfg

import (
	"fmt"
	"strings"
)

// SQLite returns the query catalog for the SQLite dialect. SQLite
// accepts MySQL-style backtick identifiers natively, so the bulk
// of the SQL text below is shared verbatim with MySQL; only the
// handful of fields on dialectOpts differ.
func SQLite() *Catalog {
	return buildCatalog(dialectOpts{
		name: "sqlite",

		intPK:   "INTEGER PRIMARY KEY AUTOINCREMENT",
		intCol:  "INTEGER",
		realCol: "REAL",
		textCol: "TEXT",
		varCol:  "VARCHAR(255)",

		lastInsertIDSQL: "SELECT last_insert_rowid()",

		insertIgnore: func(table, columns, values string) string {
			return fmt.Sprintf("INSERT OR IGNORE INTO `%s` (%s) VALUES (%s)", table, columns, values)
		},

		upsertOnConfict: func(table, columns, values string, conflictCols []string, setCol string) string {
			return fmt.Sprintf(
				"INSERT INTO `%s` (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET `%s` = excluded.`%s`",
				table, columns, values, backtickJoin(conflictCols), setCol, setCol,
			)
		},

		alterAddColumn: func(table, column, colType string) string {
			return fmt.Sprintf("ALTER TABLE `%s` ADD COLUMN `%s` %s", table, column, colType)
		},
		alterDropColumn: func(table, column string) string {
			return fmt.Sprintf("ALTER TABLE `%s` DROP COLUMN `%s`", table, column)
		},
	})
}

func backtickJoin(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = "`" + c + "`"
	}
	return strings.Join(quoted, ", ")
}
