package querycfg

import "fmt"

func addTypeTemplates(c *Catalog, opts dialectOpts) {
	c.Templates["insert_type"] = Template{
		SQL:          "INSERT INTO `Type` (`kind`, `name`, `version`, `description`, `input_type`) VALUES ($0, $1, $2, $3, $4)",
		ParameterNum: 5,
	}
	c.Templates["select_type_by_id"] = Template{
		SQL:          "SELECT `id`, `kind`, `name`, `version`, `description`, `input_type`, `output_type` FROM `Type` WHERE `id` = $0",
		ParameterNum: 1,
	}
	c.Templates["select_type_by_name"] = Template{
		SQL:          "SELECT `id`, `kind`, `name`, `version`, `description`, `input_type`, `output_type` FROM `Type` WHERE `kind` = $0 AND `name` = $1 AND `version` = $2",
		ParameterNum: 3,
	}
	c.Templates["select_types_by_kind"] = Template{
		SQL:          "SELECT `id`, `kind`, `name`, `version`, `description`, `input_type`, `output_type` FROM `Type` WHERE `kind` = $0 ORDER BY `id` ASC",
		ParameterNum: 1,
	}
	c.Templates["update_type_output_type"] = Template{
		SQL:          "UPDATE `Type` SET `output_type` = $1 WHERE `id` = $0",
		ParameterNum: 2,
	}

	c.Templates["insert_type_property"] = Template{
		SQL:          "INSERT INTO `TypeProperty` (`type_id`, `name`, `data_type`) VALUES ($0, $1, $2)",
		ParameterNum: 3,
	}
	c.Templates["select_type_properties_by_type_id"] = Template{
		SQL:          "SELECT `type_id`, `name`, `data_type` FROM `TypeProperty` WHERE `type_id` = $0",
		ParameterNum: 1,
	}

	c.Templates["insert_parent_type"] = Template{
		SQL:          opts.insertIgnore(TableParentType, "`type_id`, `parent_type_id`", "$0, $1"),
		ParameterNum: 2,
	}
	c.Templates["select_parent_types_by_type_id"] = Template{
		SQL:          "SELECT `type_id`, `parent_type_id` FROM `ParentType` WHERE `type_id` = $0",
		ParameterNum: 1,
	}
	c.Templates["select_all_parent_type_edges"] = Template{
		SQL:          "SELECT `type_id`, `parent_type_id` FROM `ParentType`",
		ParameterNum: 0,
	}
}

func addNodeTemplates(c *Catalog, opts dialectOpts, nk nodeSpec) {
	lower := snake(nk.Table)

	insertCols := []string{"`type_id`", "`name`", "`uri`"}
	insertVals := []string{"$0", "$1", "$2"}
	n := 3
	if !nk.HasURI {
		insertCols = []string{"`type_id`", "`name`"}
		insertVals = []string{"$0", "$1"}
		n = 2
	}
	if !nk.NameRequired {
		// An empty optional name is stored as NULL so that unnamed nodes
		// do not collide on UNIQUE(type_id, name).
		insertVals[1] = "NULLIF($1, '')"
	}
	if nk.HasState {
		insertCols = append(insertCols, "`state`")
		insertVals = append(insertVals, fmt.Sprintf("$%d", n))
		n++
	}
	insertCols = append(insertCols, "`create_time_since_epoch`", "`last_update_time_since_epoch`")
	insertVals = append(insertVals, fmt.Sprintf("$%d", n), fmt.Sprintf("$%d", n+1))
	n += 2

	c.Templates["insert_"+lower] = Template{
		SQL: fmt.Sprintf("INSERT INTO `%s` (%s) VALUES (%s)",
			nk.Table, join(insertCols), join(insertVals)),
		ParameterNum: n,
	}

	// update_<table>: id is always $0; remaining columns follow the same
	// shape as insert minus create_time (create_time never changes).
	updateParts := []string{"`type_id` = $1", "`name` = $2"}
	if !nk.NameRequired {
		updateParts[1] = "`name` = NULLIF($2, '')"
	}
	next := 3
	if nk.HasURI {
		updateParts = append(updateParts, fmt.Sprintf("`uri` = $%d", next))
		next++
	}
	if nk.HasState {
		updateParts = append(updateParts, fmt.Sprintf("`state` = $%d", next))
		next++
	}
	updateParts = append(updateParts, fmt.Sprintf("`last_update_time_since_epoch` = $%d", next))
	next++
	c.Templates["update_"+lower] = Template{
		SQL:          fmt.Sprintf("UPDATE `%s` SET %s WHERE `id` = $0", nk.Table, join(updateParts)),
		ParameterNum: next,
	}

	selectCols := nodeSelectColumns(nk)
	c.Templates["select_"+lower+"_by_id"] = Template{
		SQL:          fmt.Sprintf("SELECT %s FROM `%s` WHERE `id` = $0", selectCols, nk.Table),
		ParameterNum: 1,
	}
	c.Templates["select_"+lower+"_by_type_and_name"] = Template{
		SQL:          fmt.Sprintf("SELECT %s FROM `%s` WHERE `type_id` = $0 AND `name` = $1", selectCols, nk.Table),
		ParameterNum: 2,
	}
	c.Templates["select_"+lower+"s_by_type_id"] = Template{
		SQL:          fmt.Sprintf("SELECT %s FROM `%s` WHERE `type_id` = $0 ORDER BY `id` ASC", selectCols, nk.Table),
		ParameterNum: 1,
	}
	c.Templates["select_"+lower+"s_by_ids"] = Template{
		SQL:          fmt.Sprintf("SELECT %s FROM `%s` WHERE `id` IN ($0) ORDER BY `id` ASC", selectCols, nk.Table),
		ParameterNum: 1,
	}
}

func nodeSelectColumns(nk nodeSpec) string {
	cols := []string{"`id`", "`type_id`", "`name`"}
	if nk.HasURI {
		cols = append(cols, "`uri`")
	}
	if nk.HasState {
		cols = append(cols, "`state`")
	}
	cols = append(cols, "`create_time_since_epoch`", "`last_update_time_since_epoch`")
	return join(cols)
}

func addPropertyTemplates(c *Catalog, opts dialectOpts, nk nodeSpec) {
	entityCol := entityIDColumn(nk)
	lower := snake(nk.PropertyTbl)

	for _, valueCol := range []string{"int_value", "double_value", "string_value"} {
		name := "upsert_" + lower + "_" + valueCol
		cols := fmt.Sprintf("`%s`, `name`, `is_custom`, `%s`", entityCol, valueCol)
		c.Templates[name] = Template{
			SQL:          opts.upsertOnConfict(nk.PropertyTbl, cols, "$0, $1, $2, $3", []string{entityCol, "name", "is_custom"}, valueCol),
			ParameterNum: 4,
		}
	}

	c.Templates["select_"+lower+"_by_"+entityCol] = Template{
		SQL: fmt.Sprintf("SELECT `%s`, `name`, `is_custom`, `int_value`, `double_value`, `string_value` FROM `%s` WHERE `%s` = $0",
			entityCol, nk.PropertyTbl, entityCol),
		ParameterNum: 1,
	}
	c.Templates["select_"+lower+"_by_"+entityCol+"s"] = Template{
		SQL: fmt.Sprintf("SELECT `%s`, `name`, `is_custom`, `int_value`, `double_value`, `string_value` FROM `%s` WHERE `%s` IN ($0)",
			entityCol, nk.PropertyTbl, entityCol),
		ParameterNum: 1,
	}
}

func addEventTemplates(c *Catalog, opts dialectOpts) {
	c.Templates["insert_event"] = Template{
		SQL:          "INSERT INTO `Event` (`artifact_id`, `execution_id`, `type`, `milliseconds_since_epoch`) VALUES ($0, $1, $2, $3)",
		ParameterNum: 4,
	}
	c.Templates["select_event_by_id"] = Template{
		SQL:          "SELECT `id`, `artifact_id`, `execution_id`, `type`, `milliseconds_since_epoch` FROM `Event` WHERE `id` = $0",
		ParameterNum: 1,
	}
	c.Templates["select_events_by_artifact_id"] = Template{
		SQL:          "SELECT `id`, `artifact_id`, `execution_id`, `type`, `milliseconds_since_epoch` FROM `Event` WHERE `artifact_id` = $0",
		ParameterNum: 1,
	}
	c.Templates["select_events_by_execution_id"] = Template{
		SQL:          "SELECT `id`, `artifact_id`, `execution_id`, `type`, `milliseconds_since_epoch` FROM `Event` WHERE `execution_id` = $0",
		ParameterNum: 1,
	}

	c.Templates["insert_event_path_step"] = Template{
		SQL:          "INSERT INTO `EventPath` (`event_id`, `step_ordinal`, `case_tag`, `is_index_step`, `value`) VALUES ($0, $1, $2, $3, $4)",
		ParameterNum: 5,
	}
	c.Templates["select_event_path_by_event_id"] = Template{
		SQL:          "SELECT `event_id`, `step_ordinal`, `case_tag`, `is_index_step`, `value` FROM `EventPath` WHERE `event_id` = $0 ORDER BY `step_ordinal` ASC",
		ParameterNum: 1,
	}
}

func addEdgeTemplates(c *Catalog, opts dialectOpts) {
	c.Templates["insert_association"] = Template{
		SQL:          opts.insertIgnore(TableAssociation, "`context_id`, `execution_id`", "$0, $1"),
		ParameterNum: 2,
	}
	c.Templates["select_associations_by_context_id"] = Template{
		SQL:          "SELECT `context_id`, `execution_id` FROM `Association` WHERE `context_id` = $0",
		ParameterNum: 1,
	}
	c.Templates["select_associations_by_execution_id"] = Template{
		SQL:          "SELECT `context_id`, `execution_id` FROM `Association` WHERE `execution_id` = $0",
		ParameterNum: 1,
	}

	c.Templates["insert_attribution"] = Template{
		SQL:          opts.insertIgnore(TableAttribution, "`context_id`, `artifact_id`", "$0, $1"),
		ParameterNum: 2,
	}
	c.Templates["select_attributions_by_context_id"] = Template{
		SQL:          "SELECT `context_id`, `artifact_id` FROM `Attribution` WHERE `context_id` = $0",
		ParameterNum: 1,
	}
	c.Templates["select_attributions_by_artifact_id"] = Template{
		SQL:          "SELECT `context_id`, `artifact_id` FROM `Attribution` WHERE `artifact_id` = $0",
		ParameterNum: 1,
	}

	c.Templates["insert_parent_context"] = Template{
		SQL:          opts.insertIgnore(TableParentContext, "`context_id`, `parent_context_id`", "$0, $1"),
		ParameterNum: 2,
	}
	c.Templates["select_parent_contexts_by_context_id"] = Template{
		SQL:          "SELECT `context_id`, `parent_context_id` FROM `ParentContext` WHERE `context_id` = $0",
		ParameterNum: 1,
	}
	c.Templates["select_child_contexts_by_parent_context_id"] = Template{
		SQL:          "SELECT `context_id`, `parent_context_id` FROM `ParentContext` WHERE `parent_context_id` = $0",
		ParameterNum: 1,
	}
	c.Templates["select_all_parent_context_edges"] = Template{
		SQL:          "SELECT `context_id`, `parent_context_id` FROM `ParentContext`",
		ParameterNum: 0,
	}
}

func addEnvTemplates(c *Catalog, opts dialectOpts) {
	c.Templates["check_mlmd_env_table"] = Template{
		SQL:          "SELECT `schema_version` FROM `MLMDEnv`",
		ParameterNum: 0,
	}
	c.Templates["create_mlmd_env_table"] = Template{
		SQL:          fmt.Sprintf("CREATE TABLE IF NOT EXISTS `MLMDEnv` (`schema_version` %s NOT NULL)", opts.intCol),
		ParameterNum: 0,
	}
	c.Templates["insert_schema_version"] = Template{
		SQL:          "INSERT INTO `MLMDEnv` (`schema_version`) VALUES ($0)",
		ParameterNum: 1,
	}
	c.Templates["update_schema_version"] = Template{
		SQL:          "UPDATE `MLMDEnv` SET `schema_version` = $0",
		ParameterNum: 1,
	}
	c.Templates["select_last_insert_id"] = Template{
		SQL:          opts.lastInsertIDSQL,
		ParameterNum: 0,
	}
}

func secondaryIndices(opts dialectOpts) []Template {
	idx := func(name, table, cols string) Template {
		return Template{SQL: fmt.Sprintf("CREATE INDEX IF NOT EXISTS `%s` ON `%s` (%s)", name, table, cols)}
	}
	return []Template{
		idx("idx_type_name", TableType, "`name`"),
		idx("idx_artifact_create_time", TableArtifact, "`create_time_since_epoch`"),
		idx("idx_artifact_last_update_time", TableArtifact, "`last_update_time_since_epoch`"),
		idx("idx_execution_create_time", TableExecution, "`create_time_since_epoch`"),
		idx("idx_execution_last_update_time", TableExecution, "`last_update_time_since_epoch`"),
		idx("idx_context_create_time", TableContext, "`create_time_since_epoch`"),
		idx("idx_context_last_update_time", TableContext, "`last_update_time_since_epoch`"),
		idx("idx_event_artifact_id", TableEvent, "`artifact_id`"),
		idx("idx_event_execution_id", TableEvent, "`execution_id`"),
	}
}

// migrationSchemes returns the one real migration this catalog carries:
// v1 -> v2 adds Type.output_type (ExecutionType's nested output
// schema); v2 -> v1 drops it. Keyed by destination version, as spec
// §4.2 and §4.3 require.
func migrationSchemes(opts dialectOpts) map[int]MigrationScheme {
	return map[int]MigrationScheme{
		2: {
			UpgradeQueries: []Template{
				{SQL: opts.alterAddColumn(TableType, "output_type", opts.textCol), ParameterNum: 0},
			},
			DowngradeQueries: []Template{
				{SQL: opts.alterDropColumn(TableType, "output_type"), ParameterNum: 0},
			},
		},
	}
}

func join(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}
