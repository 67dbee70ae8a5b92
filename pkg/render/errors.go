package render

import "errors"

var (
	ErrTemplateNotFound = errors.New("render: template not found")
	ErrParseTemplates   = errors.New("render: failed to parse templates")
	ErrRender           = errors.New("render: failed to render template")
	ErrMarkdown         = errors.New("render: failed to convert markdown")
)
