package internal

import (
	"fmt"
	"net/http"
	"strings"
)

// RequestKey is the reserved argument name under which the request Context is passed.
const RequestKey = "request"

// ParamKind classifies a declared endpoint parameter.
type ParamKind int

const (
	KindKeyword ParamKind = iota
	KindVarKeyword
	KindRequest
	KindPositional
)

// Source restricts where a keyword parameter may be read from.
type Source int

const (
	SourceAny Source = iota
	SourcePath
	SourceQuery
	SourceBody
)

// Param is one entry of an endpoint's parameter specification.
type Param struct {
	Name     string
	Kind     ParamKind
	Required bool
	Default  any
	Source   Source
}

// ParamOption customizes a keyword parameter.
type ParamOption func(*Param)

// InPath accepts the parameter only from the matched path.
func InPath() ParamOption { return func(p *Param) { p.Source = SourcePath } }

// InQuery accepts the parameter only from the query string.
func InQuery() ParamOption { return func(p *Param) { p.Source = SourceQuery } }

// InBody accepts the parameter only from the request body.
func InBody() ParamOption { return func(p *Param) { p.Source = SourceBody } }

// Required declares a keyword parameter that must be present.
func Required(name string, opts ...ParamOption) Param {
	p := Param{Name: name, Kind: KindKeyword, Required: true}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// Optional declares a keyword parameter that falls back to def when absent.
func Optional(name string, def any, opts ...ParamOption) Param {
	p := Param{Name: name, Kind: KindKeyword, Default: def}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// Extra accepts every assembled key, not only the declared ones.
func Extra() Param {
	return Param{Kind: KindVarKeyword}
}

// WithRequest passes the request Context under RequestKey.
func WithRequest() Param {
	return Param{Name: RequestKey, Kind: KindRequest}
}

// Positional declares a positional parameter. Endpoints cannot take them;
// registering one fails with ErrPositionalParam.
func Positional(name string) Param {
	return Param{Name: name, Kind: KindPositional}
}

// Route is a method and path pattern bound to an endpoint and its
// classified parameter specification. It is immutable after NewRoute.
type Route struct {
	Method   string
	Pattern  string
	endpoint Endpoint
	keywords []Param
	named    map[string]Param
	required []string
	varKw    bool
	request  bool
}

// NewRoute classifies params once. It fails on positional parameters,
// a request parameter followed by a non-keyword parameter, and duplicates.
func NewRoute(method, pattern string, endpoint Endpoint, params ...Param) (*Route, error) {
	if endpoint == nil {
		return nil, fmt.Errorf("%w: %s %s", ErrNilEndpoint, method, pattern)
	}

	rt := &Route{
		Method:   strings.ToUpper(method),
		Pattern:  pattern,
		endpoint: endpoint,
		named:    make(map[string]Param, len(params)),
	}

	for _, p := range params {
		switch p.Kind {
		case KindPositional:
			if rt.request {
				return nil, fmt.Errorf("%w: %s declared after request in %s %s", ErrRequestNotLast, p.Name, method, pattern)
			}
			return nil, fmt.Errorf("%w: %s in %s %s", ErrPositionalParam, p.Name, method, pattern)
		case KindRequest:
			if rt.request {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateParam, RequestKey)
			}
			rt.request = true
		case KindVarKeyword:
			rt.varKw = true
		case KindKeyword:
			if p.Name == RequestKey {
				return nil, fmt.Errorf("%w: %s", ErrReservedParam, p.Name)
			}
			if _, ok := rt.named[p.Name]; ok {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateParam, p.Name)
			}
			rt.named[p.Name] = p
			rt.keywords = append(rt.keywords, p)
			if p.Required {
				rt.required = append(rt.required, p.Name)
			}
		}
	}
	return rt, nil
}

// MustRoute is like NewRoute but panics on error.
func MustRoute(method, pattern string, endpoint Endpoint, params ...Param) *Route {
	rt, err := NewRoute(method, pattern, endpoint, params...)
	if err != nil {
		panic(err)
	}
	return rt
}

// Endpoint returns the bound endpoint.
func (rt *Route) Endpoint() Endpoint { return rt.endpoint }

// AcceptsRequest reports whether the request Context is injected.
func (rt *Route) AcceptsRequest() bool { return rt.request }

// AcceptsExtra reports whether undeclared keys are kept.
func (rt *Route) AcceptsExtra() bool { return rt.varKw }

// RequiredParams returns the names of required keyword parameters in declaration order.
func (rt *Route) RequiredParams() []string {
	return append([]string(nil), rt.required...)
}

// readsBody reports whether the method carries its arguments in the body.
func readsBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}

// readsQuery reports whether the method carries its arguments in the query string.
func readsQuery(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodDelete:
		return true
	}
	return false
}
