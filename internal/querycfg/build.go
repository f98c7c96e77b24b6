package querycfg

import "fmt"

// dialectOpts captures the handful of places SQLite and MySQL actually
// disagree: column type keywords, autoincrement syntax, the
// insert-or-ignore idiom used for idempotent edge inserts, the
// insert-or-update idiom used for property upserts, ALTER TABLE syntax
// for the v1->v2 migration, and how to read back the last inserted id.
// Everything else — every SELECT, every WHERE clause, every backtick
// identifier — is dialect-neutral (spec §4.2, §9: "the two backing
// engines disagree on prepared-statement dialects", not on DQL syntax).
type dialectOpts struct {
	name string

	intPK   string // autoincrement integer primary key column definition
	intCol  string // plain integer column type
	realCol string // floating point column type
	textCol string // unbounded text column type
	varCol  string // bounded text column type, usable in a UNIQUE index

	lastInsertIDSQL string

	insertIgnore   func(table, columns, values string) string
	upsertOnConfict func(table, columns, values string, conflictCols []string, setCol string) string
	alterAddColumn  func(table, column, colType string) string
	alterDropColumn func(table, column string) string
}

// buildCatalog assembles the full Catalog for one dialect from the SQL
// snippets below, substituting opts where the two engines diverge. The
// resulting Templates map is identical in its set of keys and each
// entry's ParameterNum across both dialects — only the SQL text favors
// of opts differs.
func buildCatalog(opts dialectOpts) *Catalog {
	c := &Catalog{
		SchemaVersion: LibraryVersion,
		Templates:     map[string]Template{},
	}

	addCreateAndCheckTemplates(c, opts)
	addTypeTemplates(c, opts)
	for _, nk := range nodeKinds {
		addNodeTemplates(c, opts, nk)
		addPropertyTemplates(c, opts, nk)
	}
	addEventTemplates(c, opts)
	addEdgeTemplates(c, opts)
	addEnvTemplates(c, opts)

	c.SecondaryIndices = secondaryIndices(opts)
	c.MigrationSchemes = migrationSchemes(opts)

	return c
}

// nodeSpec describes one of Artifact/Execution/Context for template
// generation: which columns it has beyond the shared id/type_id/name.
type nodeSpec struct {
	Table        string
	PropertyTbl  string
	HasURI       bool
	HasState     bool
	NameRequired bool
}

var nodeKinds = []nodeSpec{
	{Table: TableArtifact, PropertyTbl: TableArtifactProperty, HasURI: true, HasState: true, NameRequired: false},
	{Table: TableExecution, PropertyTbl: TableExecutionProperty, HasURI: false, HasState: true, NameRequired: false},
	{Table: TableContext, PropertyTbl: TableContextProperty, HasURI: false, HasState: false, NameRequired: true},
}

func checkName(table string) string {
	return "check_" + snake(table)
}

func createName(table string) string {
	return "create_" + snake(table) + "_table"
}

func snake(table string) string {
	var out []byte
	for i, r := range table {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				out = append(out, '_')
			}
			out = append(out, byte(r-'A'+'a'))
		} else {
			out = append(out, byte(r))
		}
	}
	return string(out)
}

func addCreateAndCheckTemplates(c *Catalog, opts dialectOpts) {
	for _, table := range AllTables {
		if table == TableMLMDEnv {
			continue // handled in addEnvTemplates with its literal spec name
		}
		c.Templates[checkName(table)] = Template{
			SQL:          fmt.Sprintf("SELECT 1 FROM `%s` LIMIT 1", table),
			ParameterNum: 0,
		}
	}
	c.Templates["check_tables_in_v0_13_2"] = Template{
		SQL:          fmt.Sprintf("SELECT 1 FROM `%s` LIMIT 1", TableV0_13_2Marker),
		ParameterNum: 0,
	}

	// create_type_table always produces the current (v2) shape, output_type
	// included: a freshly initialized database is created straight at
	// LibraryVersion and has no need to replay migrationSchemes against
	// itself. The v1->v2 migration scheme exists solely to carry an
	// existing pre-output_type database forward.
	c.Templates[createName(TableType)] = Template{SQL: fmt.Sprintf(`CREATE TABLE IF NOT EXISTS `+"`%s`"+` (
		`+"`id`"+` %s,
		`+"`kind`"+` %s NOT NULL,
		`+"`name`"+` %s NOT NULL,
		`+"`version`"+` %s NOT NULL DEFAULT '',
		`+"`description`"+` %s,
		`+"`input_type`"+` %s,
		`+"`output_type`"+` %s,
		UNIQUE (`+"`kind`, `name`, `version`"+`)
	)`, TableType, opts.intPK, opts.intCol, opts.varCol, opts.varCol, opts.textCol, opts.textCol, opts.textCol)}

	c.Templates[createName(TableTypeProperty)] = Template{SQL: fmt.Sprintf(`CREATE TABLE IF NOT EXISTS `+"`%s`"+` (
		`+"`type_id`"+` %s NOT NULL,
		`+"`name`"+` %s NOT NULL,
		`+"`data_type`"+` %s NOT NULL,
		PRIMARY KEY (`+"`type_id`, `name`"+`)
	)`, TableTypeProperty, opts.intCol, opts.varCol, opts.varCol)}

	c.Templates[createName(TableParentType)] = Template{SQL: fmt.Sprintf(`CREATE TABLE IF NOT EXISTS `+"`%s`"+` (
		`+"`type_id`"+` %s NOT NULL,
		`+"`parent_type_id`"+` %s NOT NULL,
		PRIMARY KEY (`+"`type_id`, `parent_type_id`"+`)
	)`, TableParentType, opts.intCol, opts.intCol)}

	for _, nk := range nodeKinds {
		c.Templates[createName(nk.Table)] = Template{SQL: createNodeTableSQL(opts, nk)}
		c.Templates[createName(nk.PropertyTbl)] = Template{SQL: createPropertyTableSQL(opts, nk)}
	}

	c.Templates[createName(TableEvent)] = Template{SQL: fmt.Sprintf(`CREATE TABLE IF NOT EXISTS `+"`%s`"+` (
		`+"`id`"+` %s,
		`+"`artifact_id`"+` %s NOT NULL,
		`+"`execution_id`"+` %s NOT NULL,
		`+"`type`"+` %s NOT NULL,
		`+"`milliseconds_since_epoch`"+` %s NOT NULL,
		UNIQUE (`+"`artifact_id`, `execution_id`, `type`"+`)
	)`, TableEvent, opts.intPK, opts.intCol, opts.intCol, opts.intCol, opts.intCol)}

	c.Templates[createName(TableEventPath)] = Template{SQL: fmt.Sprintf(`CREATE TABLE IF NOT EXISTS `+"`%s`"+` (
		`+"`event_id`"+` %s NOT NULL,
		`+"`step_ordinal`"+` %s NOT NULL,
		`+"`case_tag`"+` %s NOT NULL,
		`+"`is_index_step`"+` %s NOT NULL,
		`+"`value`"+` %s,
		PRIMARY KEY (`+"`event_id`, `step_ordinal`"+`)
	)`, TableEventPath, opts.intCol, opts.intCol, opts.varCol, opts.intCol, opts.textCol)}

	c.Templates[createName(TableAssociation)] = Template{SQL: fmt.Sprintf(`CREATE TABLE IF NOT EXISTS `+"`%s`"+` (
		`+"`context_id`"+` %s NOT NULL,
		`+"`execution_id`"+` %s NOT NULL,
		PRIMARY KEY (`+"`context_id`, `execution_id`"+`)
	)`, TableAssociation, opts.intCol, opts.intCol)}

	c.Templates[createName(TableAttribution)] = Template{SQL: fmt.Sprintf(`CREATE TABLE IF NOT EXISTS `+"`%s`"+` (
		`+"`context_id`"+` %s NOT NULL,
		`+"`artifact_id`"+` %s NOT NULL,
		PRIMARY KEY (`+"`context_id`, `artifact_id`"+`)
	)`, TableAttribution, opts.intCol, opts.intCol)}

	c.Templates[createName(TableParentContext)] = Template{SQL: fmt.Sprintf(`CREATE TABLE IF NOT EXISTS `+"`%s`"+` (
		`+"`context_id`"+` %s NOT NULL,
		`+"`parent_context_id`"+` %s NOT NULL,
		PRIMARY KEY (`+"`context_id`, `parent_context_id`"+`)
	)`, TableParentContext, opts.intCol, opts.intCol)}
}

func createNodeTableSQL(opts dialectOpts, nk nodeSpec) string {
	uriCol := ""
	if nk.HasURI {
		uriCol = fmt.Sprintf("`uri` %s,\n\t\t", opts.textCol)
	}
	stateCol := ""
	if nk.HasState {
		stateCol = fmt.Sprintf("`state` %s NOT NULL,\n\t\t", opts.intCol)
	}
	nameType := opts.varCol
	nameConstraint := "NOT NULL"
	if !nk.NameRequired {
		nameConstraint = ""
	}
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS `+"`%s`"+` (
		`+"`id`"+` %s,
		`+"`type_id`"+` %s NOT NULL,
		`+"`name`"+` %s %s,
		%s%s`+"`create_time_since_epoch`"+` %s NOT NULL,
		`+"`last_update_time_since_epoch`"+` %s NOT NULL,
		UNIQUE (`+"`type_id`, `name`"+`)
	)`, nk.Table, opts.intPK, opts.intCol, nameType, nameConstraint, uriCol, stateCol, opts.intCol, opts.intCol)
}

func createPropertyTableSQL(opts dialectOpts, nk nodeSpec) string {
	entityCol := entityIDColumn(nk)
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS `+"`%s`"+` (
		`+"`%s`"+` %s NOT NULL,
		`+"`name`"+` %s NOT NULL,
		`+"`is_custom`"+` %s NOT NULL,
		`+"`int_value`"+` %s,
		`+"`double_value`"+` %s,
		`+"`string_value`"+` %s,
		PRIMARY KEY (`+"`%s`, `name`, `is_custom`"+`)
	)`, nk.PropertyTbl, entityCol, opts.intCol, opts.varCol, opts.intCol, opts.intCol, opts.realCol, opts.textCol, entityCol)
}

// entityIDColumn is the foreign-key column name a <Kind>Property row
// uses to reference its owning node: artifact_id, execution_id, or
// context_id.
func entityIDColumn(nk nodeSpec) string {
	switch nk.Table {
	case TableArtifact:
		return "artifact_id"
	case TableExecution:
		return "execution_id"
	case TableContext:
		return "context_id"
	default:
		return "entity_id"
	}
}
