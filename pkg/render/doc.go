// Package render turns template names and data maps into HTML.
//
// Templates loads html/template pages from a file system, with shared
// layouts and the datetime, markdown and plaintext functions. Components
// does the same for templ components. Chain combines both behind one
// renderer for the app:
//
//	pages, err := render.New(templatesFS, render.WithReload(cfg.Debug))
//	views := render.NewComponents().Register("signin", signinView)
//	app := awesome.New(awesome.WithRenderer(render.Chain{pages, views}))
package render
