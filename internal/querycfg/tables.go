package querycfg

// Table names, exactly as spec §6 lists them. These are the 15 tables
// InitMetadataSourceIfNotExists checks for presence of (spec §4.3).
const (
	TableType             = "Type"
	TableTypeProperty      = "TypeProperty"
	TableParentType        = "ParentType"
	TableArtifact          = "Artifact"
	TableArtifactProperty  = "ArtifactProperty"
	TableExecution         = "Execution"
	TableExecutionProperty = "ExecutionProperty"
	TableEvent             = "Event"
	TableEventPath         = "EventPath"
	TableMLMDEnv           = "MLMDEnv"
	TableContext           = "Context"
	TableContextProperty   = "ContextProperty"
	TableParentContext     = "ParentContext"
	TableAssociation       = "Association"
	TableAttribution       = "Attribution"
)

// AllTables lists the 15 expected tables in creation order: Type before
// anything that references it, node tables before their property and
// edge tables, MLMDEnv last (its presence is the lifecycle anchor).
var AllTables = []string{
	TableType,
	TableTypeProperty,
	TableParentType,
	TableArtifact,
	TableArtifactProperty,
	TableExecution,
	TableExecutionProperty,
	TableEvent,
	TableEventPath,
	TableContext,
	TableContextProperty,
	TableParentContext,
	TableAssociation,
	TableAttribution,
	TableMLMDEnv,
}

// Column names the List Operation Helper depends on verbatim (spec §6).
const (
	ColID             = "id"
	ColCreateTime     = "create_time_since_epoch"
	ColLastUpdateTime = "last_update_time_since_epoch"
)

// Legacy v0.13.2 tables used only to detect a pre-MLMDEnv database
// during GetSchemaVersion's fallback probe (spec §4.3 step 2). That
// schema generation had no ArtifactProperty/ExecutionProperty split by
// custom/declared and no Context support; Artifact's mere presence is
// enough to distinguish "empty db" from "db predates schema_version".
const TableV0_13_2Marker = "Artifact"
