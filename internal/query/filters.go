package query

// DefaultLimit and MaxLimit bound the number of rows a composed query
// returns. Out-of-range requests fall back to the default (non-positive)
// or are clamped to the cap (too large), never rejected.
const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// FilterSet is the structured filter configuration the composer reads.
// Every field is optional; a nil pointer or zero string imposes no
// constraint. PersonKey is a resolved zt_user account, never a realname:
// resolution happens before composition (see Engine.ResolvePerson) so a
// name with no match can short-circuit to an empty result instead of
// being conflated with an error.
type FilterSet struct {
	ProductID *int64
	ProjectID *int64
	Status    string
	PersonKey string
	Limit     int
}

// ClampLimit forces a requested limit into range: non-positive falls
// back to the default, anything above the cap is cut to the cap. Tools
// use this to echo the effective limit back to the caller.
func ClampLimit(n int) int {
	if n <= 0 {
		return DefaultLimit
	}
	if n > MaxLimit {
		return MaxLimit
	}
	return n
}

// normalized returns a copy with the limit forced into range.
func (f FilterSet) normalized() FilterSet {
	f.Limit = ClampLimit(f.Limit)
	return f
}
