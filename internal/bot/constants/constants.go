package constants

const (
	// Commands.
	StatsCommandName   = "stats"
	HistoryCommandName = "historial"

	// Command options.
	RoleOptionName = "rol"
	TypeOptionName = "tipo"

	// Role tag choices.
	RoleTagStaff = "staff"
	RoleTagMod   = "mod"
	RoleTagAdmin = "admin"

	// Stats type choices.
	StatsTypeDaily  = "diario"
	StatsTypeWeekly = "semanal"

	// History report.
	HistoryWeekCount = 4
	WeekSeparator    = "─"

	DefaultEmbedColor = 0x5865F2
)
