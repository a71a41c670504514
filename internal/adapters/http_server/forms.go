package httpserver

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"travel_planner/internal/domain"
)

var dateLayouts = []string{"2006-01-02", "2006-01-02T15:04", "2006-01-02T15:04:05Z07:00"}

// binder reads typed values out of a form and keeps the first value it could not parse.
type binder struct {
	vals url.Values
	err  error
}

func bindForm(w http.ResponseWriter, r *http.Request) (*binder, bool) {
	if err := r.ParseForm(); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid form", err.Error())
		return nil, false
	}
	return &binder{vals: r.Form}, true
}

func bindQuery(r *http.Request) *binder { return &binder{vals: r.URL.Query()} }

// ok writes a 400 problem when any field failed to bind.
func (b *binder) ok(w http.ResponseWriter) bool {
	if b.err == nil {
		return true
	}
	writeProblem(w, http.StatusBadRequest, "Invalid form", b.err.Error())
	return false
}

func (b *binder) fail(field, raw string) {
	if b.err == nil {
		b.err = fmt.Errorf("%s: cannot read %q", field, raw)
	}
}

func (b *binder) str(k string) string { return strings.TrimSpace(b.vals.Get(k)) }

func (b *binder) has(k string) bool {
	_, ok := b.vals[k]
	return ok
}

func (b *binder) list(k string) []string { return domain.SplitList(strings.Join(b.vals[k], ",")) }

func (b *binder) flag(k string) bool {
	switch strings.ToLower(b.str(k)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

func (b *binder) integer(k string) int {
	v := b.str(k)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		b.fail(k, v)
	}
	return n
}

func (b *binder) id(k string) int64 {
	v := b.str(k)
	if v == "" {
		return 0
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		b.fail(k, v)
	}
	return n
}

func (b *binder) float(k string) float64 {
	v := b.str(k)
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		b.fail(k, v)
	}
	return f
}

// ids reads repeated and comma separated ids in order, duplicates kept.
func (b *binder) ids(k string) []int64 {
	var out []int64
	for _, raw := range b.vals[k] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			n, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				b.fail(k, part)
				continue
			}
			out = append(out, n)
		}
	}
	return out
}

func (b *binder) idSet(k string) []int64 {
	var out []int64
	seen := map[int64]bool{}
	for _, id := range b.ids(k) {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func (b *binder) parseTime(k, v string) *time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return &t
		}
	}
	b.fail(k, v)
	return nil
}

func (b *binder) date(k string) time.Time {
	if t := b.parseTime(k, b.vals.Get(k)); t != nil {
		return *t
	}
	return time.Time{}
}

// at returns the i-th value of a repeated field as an optional time.
func (b *binder) at(k string, i int) *time.Time {
	vs := b.vals[k]
	if i >= len(vs) {
		return nil
	}
	return b.parseTime(k, vs[i])
}
