package apiclient

import (
	"net/url"
	"strconv"
	"time"
)

// paramKind is the closed set of query parameter value shapes.
type paramKind int

const (
	kindScalar paramKind = iota
	kindDate
	kindList
	kindNested
)

// Param is one query parameter value. Values are built through the
// constructor functions below; the zero Param encodes as an empty string.
type Param struct {
	kind   paramKind
	scalar string
	date   time.Time
	list   []Param
	nested Params
}

// Params is a query parameter bag supplied per request. It exists only for
// the duration of one request's URL construction.
type Params map[string]Param

// String builds a string-valued parameter.
func String(v string) Param { return Param{scalar: v} }

// Int builds an integer-valued parameter.
func Int(v int) Param { return Param{scalar: strconv.Itoa(v)} }

// Int64 builds a 64-bit integer-valued parameter.
func Int64(v int64) Param { return Param{scalar: strconv.FormatInt(v, 10)} }

// Float builds a float-valued parameter.
func Float(v float64) Param { return Param{scalar: strconv.FormatFloat(v, 'f', -1, 64)} }

// Bool builds a boolean-valued parameter.
func Bool(v bool) Param { return Param{scalar: strconv.FormatBool(v)} }

// Date builds a date-valued parameter, encoded date-only (no time component).
func Date(t time.Time) Param { return Param{kind: kindDate, date: t} }

// List builds a repeated parameter: one encoded pair per element, all under
// the same key, in order.
func List(items ...Param) Param { return Param{kind: kindList, list: items} }

// Nested builds a parameter from an inner bag. Flattening merges the inner
// pairs into the outer result without prefixing keys with the parent key.
func Nested(p Params) Param { return Param{kind: kindNested, nested: p} }

// Values flattens the bag into query values. A nil bag yields nil (no query
// string); an empty nested bag contributes no pairs. Duplicate keys across
// nesting levels accumulate repeated-parameter style. There is no cycle
// guard: a bag reachable from itself through Nested recurses without bound,
// which is the caller's responsibility to avoid.
func (p Params) Values() url.Values {
	if p == nil {
		return nil
	}
	out := url.Values{}
	p.appendTo(out)
	return out
}

func (p Params) appendTo(out url.Values) {
	for key, v := range p {
		v.appendTo(key, out)
	}
}

func (v Param) appendTo(key string, out url.Values) {
	switch v.kind {
	case kindDate:
		out.Add(key, v.date.Format("2006-01-02"))
	case kindList:
		for _, item := range v.list {
			item.appendTo(key, out)
		}
	case kindNested:
		v.nested.appendTo(out)
	default:
		out.Add(key, v.scalar)
	}
}
