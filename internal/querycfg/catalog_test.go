package querycfg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogsAgreeOnTemplateSet(t *testing.T) {
	sqlite := SQLite()
	mysql := MySQL()

	require.Equal(t, len(sqlite.Templates), len(mysql.Templates))
	for name, st := range sqlite.Templates {
		mt, ok := mysql.Templates[name]
		require.Truef(t, ok, "mysql catalog missing template %q present in sqlite", name)
		assert.Equalf(t, st.ParameterNum, mt.ParameterNum, "template %q has differing arity between dialects", name)
	}
}

func TestCatalogHasRequiredTemplates(t *testing.T) {
	required := []string{
		"insert_type", "select_type_by_id", "select_type_by_name", "select_types_by_kind",
		"insert_type_property", "select_type_properties_by_type_id",
		"insert_parent_type", "select_parent_types_by_type_id", "select_all_parent_type_edges",
		"insert_artifact", "update_artifact", "select_artifact_by_id",
		"insert_execution", "update_execution", "select_execution_by_id",
		"insert_context", "update_context", "select_context_by_id",
		"insert_event", "select_event_by_id", "select_events_by_artifact_id", "select_events_by_execution_id",
		"insert_event_path_step", "select_event_path_by_event_id",
		"insert_association", "insert_attribution", "insert_parent_context",
		"select_all_parent_context_edges",
		"check_mlmd_env_table", "create_mlmd_env_table", "insert_schema_version", "update_schema_version",
		"select_last_insert_id",
		"check_tables_in_v0_13_2",
	}
	for _, dialect := range []*Catalog{SQLite(), MySQL()} {
		for _, name := range required {
			_, ok := dialect.Template(name)
			assert.Truef(t, ok, "catalog missing required template %q", name)
		}
	}
}

func TestCatalogChecksCoverAllTables(t *testing.T) {
	c := SQLite()
	for _, table := range AllTables {
		if table == TableMLMDEnv {
			continue
		}
		_, ok := c.Template(checkName(table))
		assert.Truef(t, ok, "catalog missing check template for table %q", table)
	}
}

func TestMigrationSchemeV2AltersOutputType(t *testing.T) {
	for _, c := range []*Catalog{SQLite(), MySQL()} {
		scheme, ok := c.MigrationSchemes[2]
		require.True(t, ok, "catalog has no migration scheme for version 2")
		require.Len(t, scheme.UpgradeQueries, 1)
		require.Len(t, scheme.DowngradeQueries, 1)
		assert.Contains(t, strings.ToUpper(scheme.UpgradeQueries[0].SQL), "ADD COLUMN")
		assert.Contains(t, strings.ToUpper(scheme.DowngradeQueries[0].SQL), "DROP COLUMN")
	}
}

func TestTemplatesUseOnlyDeclaredPlaceholders(t *testing.T) {
	for _, c := range []*Catalog{SQLite(), MySQL()} {
		for name, tmpl := range c.Templates {
			for i := 0; i < MaxPlaceholders; i++ {
				tok := "$" + string(rune('0'+i))
				if strings.Contains(tmpl.SQL, tok) {
					assert.Truef(t, i < tmpl.ParameterNum, "template %q references %s beyond its declared ParameterNum=%d", name, tok, tmpl.ParameterNum)
				}
			}
		}
	}
}

func TestMustTemplatePanicsOnMissing(t *testing.T) {
	c := SQLite()
	assert.Panics(t, func() {
		c.MustTemplate("does_not_exist")
	})
}
