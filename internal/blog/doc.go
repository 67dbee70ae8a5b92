// Package blog is a small blogging application built on the awesome
// framework: users with cookie sessions, blogs with markdown content and
// comments, an admin area under /manage/ and a JSON API under /api/.
package blog
