// Package env holds explicit snapshots of process environments so that
// lookups and child environment composition never read ambient state
// implicitly.
package env

import (
	"os"
	"sort"
	"strings"
)

type Var map[string]string

type Env struct {
	Var Var // overrides (K->V)
	env Var // base snapshot, loaded from the OS on first use when nil
}

func New() *Env {
	return &Env{
		Var: make(Var),
	}
}

// FromList returns an Env whose base is the given KEY=VALUE list instead of
// the OS environment.
func FromList(kvs []string) *Env {
	e := New()
	e.env = Parse(kvs)
	return e
}

// FromOS caches the current process environment as the base.
func (e *Env) FromOS() {
	e.env = Parse(os.Environ())
}

// Parse converts KEY=VALUE entries into a map. Entries without '=' or with an
// empty key are skipped; later entries win.
func Parse(kvs []string) Var {
	m := make(Var, len(kvs))
	for _, kv := range kvs {
		if i := strings.IndexByte(kv, '='); i > 0 {
			m[kv[:i]] = kv[i+1:]
		}
	}
	return m
}

// WithSet returns a copy of e with K=V applied on top of its overrides.
func (e *Env) WithSet(k, v string) *Env {
	out := &Env{Var: make(Var, len(e.Var)+1), env: e.env}
	for kk, vv := range e.Var {
		out.Var[kk] = vv
	}
	if k != "" {
		out.Var[k] = v
	}
	return out
}

// Lookup resolves k against overrides first, then the base snapshot.
func (e *Env) Lookup(k string) (string, bool) {
	if v, ok := e.Var[k]; ok {
		return v, true
	}
	if e.env == nil {
		e.FromOS()
	}
	v, ok := e.env[k]
	return v, ok
}

// Merge composes the final environment list applying order:
// base snapshot, then e.Var overrides, then extra (slice of "K=V").
// $VAR and ${VAR} references are expanded against the composed map (single
// pass, no recursion). The result is sorted by key.
func (e *Env) Merge(extra []string) []string {
	if e.env == nil {
		e.FromOS()
	}
	m := make(Var, len(e.env)+len(e.Var)+len(extra))
	for k, v := range e.env {
		m[k] = v
	}
	for k, v := range e.Var {
		if k == "" {
			continue
		}
		m[k] = v
	}
	for k, v := range Parse(extra) {
		m[k] = v
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+expand(m[k], m))
	}
	return out
}

// expand substitutes $VAR and ${VAR} from m in one pass. Substituted values
// are not expanded again and unknown names become empty.
func expand(s string, m Var) string {
	if !strings.Contains(s, "$") {
		return s
	}
	return os.Expand(s, func(name string) string { return m[name] })
}
