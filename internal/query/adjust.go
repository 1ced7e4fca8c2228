package query

// AdjustOperation degrades a requested operation when it has no meaning for
// the resolved member's type: substring and prefix/suffix matching against
// boolean, numeric, date/time, uuid and enum members falls back to equality
// so the query engine is never asked to pattern-match a non-text column.
// Comparison operations pass through untouched, as does everything when the
// member is unknown.
func AdjustOperation(terminal Member, op Operation) Operation {
	if terminal.Type == nil || terminal.Kind == KindText {
		return op
	}

	switch terminal.Kind {
	case KindBool, KindInt, KindUint, KindFloat, KindTime, KindUUID, KindEnum:
		switch op {
		case Contains:
			return Equal
		case NotContains:
			return NotEqual
		case StartsWith, EndsWith:
			return Equal
		}
	}
	return op
}
