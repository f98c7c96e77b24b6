package querycfg

import "fmt"

// MySQL returns the query catalog for the MySQL/InnoDB dialect.
func MySQL() *Catalog {
	return buildCatalog(dialectOpts{
		name: "mysql",

		intPK:   "INTEGER PRIMARY KEY AUTO_INCREMENT",
		intCol:  "INTEGER",
		realCol: "DOUBLE",
		textCol: "TEXT",
		varCol:  "VARCHAR(255)",

		lastInsertIDSQL: "SELECT LAST_INSERT_ID()",

		insertIgnore: func(table, columns, values string) string {
			return fmt.Sprintf("INSERT IGNORE INTO `%s` (%s) VALUES (%s)", table, columns, values)
		},

		upsertOnConfict: func(table, columns, values string, conflictCols []string, setCol string) string {
			return fmt.Sprintf(
				"INSERT INTO `%s` (%s) VALUES (%s) ON DUPLICATE KEY UPDATE `%s` = VALUES(`%s`)",
				table, columns, values, setCol, setCol,
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
