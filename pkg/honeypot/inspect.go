package honeypot

import (
	"net/url"
	"sort"
)

// Result is the outcome of inspecting one submission.
type Result struct {
	// SpamFields lists, sorted, the honeypots whose hidden slot was filled.
	SpamFields []string `json:"spamFields"`
	// Data is the submission with honeypot slots reconciled: the visible value
	// lives under the honeypot name and the public identifier key is gone.
	Data map[string]any `json:"data"`
	// Bound is false when the raw submission was not a key/value map and
	// nothing was inspected.
	Bound bool `json:"bound"`
}

// HasSpam reports whether any honeypot was triggered. The verdict is
// advisory; callers decide whether to reject, flag or accept.
func (r Result) HasSpam() bool {
	return len(r.SpamFields) > 0
}

// Triggered reports whether the honeypot called name revealed spam.
func (r Result) Triggered(name string) bool {
	idx := sort.SearchStrings(r.SpamFields, name)
	return idx < len(r.SpamFields) && r.SpamFields[idx] == name
}

// Inspect classifies raw against reg. See Registry.Inspect.
func Inspect(reg Registry, raw any) Result {
	return reg.Inspect(raw)
}

// Inspect classifies a raw submission and reconciles honeypot slots.
//
// raw may be a map[string]any, map[string]string, url.Values or
// map[string][]string. Form values are flattened: no values become nil, a
// single value becomes its string and several stay a []string. Any other
// shape, nil included, yields an unbound, spam-free Result.
//
// A hidden slot counts as filled unless it is absent, nil, "" or an empty
// value list. The visible value is copied under the honeypot name only when
// its slot was submitted. Keys unrelated to honeypots pass through.
func (r Registry) Inspect(raw any) Result {
	data, ok := normalise(raw)
	if !ok {
		return Result{Data: map[string]any{}}
	}

	result := Result{Data: data, Bound: true}
	for name := range r.honeypots {
		id := r.identifierFor(name)

		hidden, hasHidden := data[name]
		visible, hasVisible := data[id]

		if hasHidden && !isEmpty(hidden) {
			result.SpamFields = append(result.SpamFields, name)
		}

		delete(data, name)
		delete(data, id)
		if hasVisible {
			data[name] = visible
		}
	}
	sort.Strings(result.SpamFields)
	return result
}

// InspectValues inspects form values and also returns the cleaned data as
// url.Values for binders that keep working with request forms.
func InspectValues(reg Registry, values url.Values) (Result, url.Values) {
	result := reg.Inspect(values)
	return result, ToValues(result.Data)
}

// ToValues converts cleaned data back into url.Values. Strings and string
// slices map directly; nil values become an empty list; other values are
// dropped because they cannot originate from a form body.
func ToValues(data map[string]any) url.Values {
	out := make(url.Values, len(data))
	for key, value := range data {
		switch typed := value.(type) {
		case nil:
			out[key] = []string{}
		case string:
			out[key] = []string{typed}
		case []string:
			out[key] = append([]string(nil), typed...)
		}
	}
	return out
}

func normalise(raw any) (map[string]any, bool) {
	switch typed := raw.(type) {
	case map[string]any:
		if typed == nil {
			return nil, false
		}
		out := make(map[string]any, len(typed))
		for key, value := range typed {
			out[key] = value
		}
		return out, true
	case map[string]string:
		if typed == nil {
			return nil, false
		}
		out := make(map[string]any, len(typed))
		for key, value := range typed {
			out[key] = value
		}
		return out, true
	case url.Values:
		if typed == nil {
			return nil, false
		}
		return flattenValues(typed), true
	case map[string][]string:
		if typed == nil {
			return nil, false
		}
		return flattenValues(typed), true
	default:
		return nil, false
	}
}

func flattenValues(values map[string][]string) map[string]any {
	out := make(map[string]any, len(values))
	for key, list := range values {
		switch len(list) {
		case 0:
			out[key] = nil
		case 1:
			out[key] = list[0]
		default:
			out[key] = append([]string(nil), list...)
		}
	}
	return out
}

func isEmpty(value any) bool {
	switch typed := value.(type) {
	case nil:
		return true
	case string:
		return typed == ""
	case []string:
		return len(typed) == 0
	default:
		return false
	}
}
