package paging

const (
	// DefaultLimit is the page size used when a request names none.
	DefaultLimit = 5
	// MaxLimit is the largest page size ever returned.
	MaxLimit = 100
)

// Params holds the unified pagination parameters. A request with an empty
// Token asks for the first page, optionally in Mode; otherwise Mode is
// ignored and the scan resumes from the token.
type Params struct {
	Mode  string `json:"list_mode,omitempty"`
	Token string `json:"page_token,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

// IsFirstPage reports whether p starts a new scan.
func (p Params) IsFirstPage() bool {
	return p.Token == ""
}

// Result holds the pagination result
type Result[M any, T any] struct {
	Mode      M      `json:"list_mode"`
	Items     []T    `json:"items"`
	NextToken string `json:"next_page_token,omitempty"`
}

// HasNextPage reports whether the scan may continue.
func (r *Result[M, T]) HasNextPage() bool {
	return r.NextToken != ""
}

// Limits bounds page sizes.
type Limits struct {
	Default int `json:"default_limit" yaml:"default_limit"`
	Max     int `json:"max_limit" yaml:"max_limit"`
}

// DefaultLimits returns DefaultLimit and MaxLimit.
func DefaultLimits() Limits {
	return Limits{Default: DefaultLimit, Max: MaxLimit}
}

// normalize repairs nonsensical limits so Clamp always yields a value >= 1.
func (l Limits) normalize() Limits {
	if l.Max <= 0 {
		l.Max = MaxLimit
	}
	if l.Default <= 0 {
		l.Default = DefaultLimit
	}
	if l.Default > l.Max {
		l.Default = l.Max
	}
	return l
}

// Clamp returns the effective limit for a requested one. Non-positive
// values mean "not given" and yield the default; values above the maximum
// are truncated.
func (l Limits) Clamp(requested int) int {
	l = l.normalize()
	switch {
	case requested <= 0:
		return l.Default
	case requested > l.Max:
		return l.Max
	default:
		return requested
	}
}

// NormalizeParams ensures that Limit is within an acceptable range
func NormalizeParams(params Params, limits Limits) Params {
	params.Limit = limits.Clamp(params.Limit)
	return params
}
