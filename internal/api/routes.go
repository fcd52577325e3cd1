package api

const (
	HealthCheckRoute = "/healthz"
	AboutRoute       = "/v1/info"

	CheckRoute   = "/v1/check"
	ExplainRoute = "/v1/check/explain"

	AuditParent     = "/v1/audit/"
	ListAuditsRoute = AuditParent + "entries"
	ListPassesRoute = AuditParent + "passes"

	TaskParent       = "/v1/tasks/"
	ListTasksRoute   = TaskParent
	TriggerTaskRoute = TaskParent + "{name}/trigger"
	LogsForTaskRoute = TaskParent + "{name}/logs"
)
