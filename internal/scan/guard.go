package scan

// Mode is the identity class a workflow expects from the scanner.
type Mode string

const (
	ModeStudent Mode = "student"
	ModeBook    Mode = "book"
	ModeEither  Mode = "either"
)

// Decision is the outcome of guarding a classified record against the
// expected mode.
type Decision struct {
	Accepted bool
	Record   Record
	Reason   string
}

// Guard checks a classified record against the expected mode. Unknown
// generic codes are coerced to the expected class rather than rejected;
// only a definite mismatch (a book where a student is expected, or the
// reverse) is rejected.
func Guard(record Record, mode Mode) Decision {
	if mode == ModeEither {
		return Decision{Accepted: true, Record: record}
	}

	switch rec := record.(type) {
	case StudentIdentity:
		if mode == ModeBook {
			return Decision{Reason: "student code scanned, expected book"}
		}
	case BookIdentity:
		if mode == ModeStudent {
			return Decision{Reason: "book code scanned, expected student"}
		}
	case GenericCode:
		switch rec.Assumed {
		case ClassBook:
			if mode == ModeStudent {
				return Decision{Reason: "book code scanned, expected student"}
			}
		case ClassStudent:
			if mode == ModeBook {
				return Decision{Reason: "student code scanned, expected book"}
			}
		case ClassUnknown:
			// Best effort: resolve the class from the operation context.
			if mode == ModeStudent {
				rec.Assumed = ClassStudent
			} else {
				rec.Assumed = ClassBook
			}
			return Decision{Accepted: true, Record: rec}
		}
	}

	return Decision{Accepted: true, Record: record}
}
