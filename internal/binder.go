package internal

import "maps"

// Bind assembles the endpoint arguments for a request:
//
//  1. without keyword or extra parameters only path parameters are used
//  2. body methods parse the body (see ParseBody)
//  3. query methods take the first value of each query key
//  4. without Extra, keys outside the declared keywords are dropped
//  5. path parameters overwrite assembled keys, with a warning on collision
//  6. the request Context is added under RequestKey when requested
//  7. a missing required keyword is a 400 "missing argument <name>"
//
// Optional keywords that are still absent take their defaults.
func (rt *Route) Bind(c Context) (Args, error) {
	args := make(Args)
	source := make(map[string]Source)

	if rt.varKw || len(rt.keywords) > 0 {
		method := c.Request().Method
		switch {
		case readsBody(method):
			body, err := c.Body()
			if err != nil {
				return nil, err
			}
			for k, v := range body {
				args[k], source[k] = v, SourceBody
			}
		case readsQuery(method):
			for k, values := range c.Request().URL.Query() {
				if len(values) > 0 {
					args[k], source[k] = values[0], SourceQuery
				}
			}
		}

		if !rt.varKw && len(rt.keywords) > 0 {
			maps.DeleteFunc(args, func(k string, _ any) bool {
				_, declared := rt.named[k]
				return !declared
			})
		}
	}

	for k, v := range c.Params() {
		if _, dup := args[k]; dup {
			c.LogWarn("duplicate argument name in path and request data", "name", k)
		}
		args[k], source[k] = v, SourcePath
	}

	// Keywords restricted to one source drop values that came from elsewhere.
	for _, p := range rt.keywords {
		if p.Source == SourceAny {
			continue
		}
		if src, ok := source[p.Name]; ok && src != p.Source {
			delete(args, p.Name)
		}
	}

	if rt.request {
		args[RequestKey] = c
	}

	for _, name := range rt.required {
		if _, ok := args[name]; !ok {
			return nil, ErrBadRequest("missing argument " + name)
		}
	}

	for _, p := range rt.keywords {
		if _, ok := args[p.Name]; !ok && !p.Required && p.Default != nil {
			args[p.Name] = p.Default
		}
	}

	return args, nil
}
