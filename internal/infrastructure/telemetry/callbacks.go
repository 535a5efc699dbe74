package telemetry

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// registerAroundCallbacks registers before and after hooks around every
// gorm processor. after receives the SQL verb, or "" for Row and Raw
// statements whose verb must be read from the SQL. When precede is set the
// after hooks run before the "<precede><kind>" callbacks of another plugin.
func registerAroundCallbacks(db *gorm.DB, prefix, precede string, before func(*gorm.DB), after func(*gorm.DB, string)) error {
	cb := db.Callback()
	afterOp := func(operation string) func(*gorm.DB) {
		return func(tx *gorm.DB) { after(tx, operation) }
	}
	name := func(stage, kind string) string { return prefix + ":" + stage + "_" + kind }
	precedes := func(kind string) string {
		if precede == "" {
			return ""
		}
		return precede + kind
	}

	return errors.Join(
		cb.Create().Before("gorm:create").Register(name("before", "create"), before),
		cb.Create().After("gorm:create").Before(precedes("create")).Register(name("after", "create"), afterOp("INSERT")),
		cb.Query().Before("gorm:query").Register(name("before", "query"), before),
		cb.Query().After("gorm:query").Before(precedes("query")).Register(name("after", "query"), afterOp("SELECT")),
		cb.Update().Before("gorm:update").Register(name("before", "update"), before),
		cb.Update().After("gorm:update").Before(precedes("update")).Register(name("after", "update"), afterOp("UPDATE")),
		cb.Delete().Before("gorm:delete").Register(name("before", "delete"), before),
		cb.Delete().After("gorm:delete").Before(precedes("delete")).Register(name("after", "delete"), afterOp("DELETE")),
		cb.Row().Before("gorm:row").Register(name("before", "row"), before),
		cb.Row().After("gorm:row").Before(precedes("row")).Register(name("after", "row"), afterOp("")),
		cb.Raw().Before("gorm:raw").Register(name("before", "raw"), before),
		cb.Raw().After("gorm:raw").Before(precedes("raw")).Register(name("after", "raw"), afterOp("")),
	)
}

// detectOperationType reads the SQL verb of a raw statement
func detectOperationType(sql string) string {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return "UNKNOWN"
	}
	switch verb := strings.ToUpper(fields[0]); verb {
	case "SELECT", "INSERT", "UPDATE", "DELETE":
		return verb
	default:
		return "OTHER"
	}
}
