package primitives

// Predicate is a comparison operator usable between two Fields of the same
// underlying type, or between a Field and a constant.
type Predicate int

const (
	Equals Predicate = iota
	LessThan
	GreaterThan
	LessThanOrEqual
	GreaterThanOrEqual
	NotEqual
	Like // substring match, STRING fields only
)

func (p Predicate) String() string {
	switch p {
	case Equals:
		return "="
	case LessThan:
		return "<"
	case GreaterThan:
		return ">"
	case LessThanOrEqual:
		return "<="
	case GreaterThanOrEqual:
		return ">="
	case NotEqual:
		return "!="
	case Like:
		return "LIKE"
	default:
		return "UNKNOWN"
	}
}
