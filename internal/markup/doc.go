// Package markup compiles Markdown/MDX bodies into renderable HTML.
//
// Compilation has two halves. Goldmark turns the body into HTML (optionally with
// the GitHub-flavored extensions), and the result is parsed into an
// x/net/html node tree. An ordered chain of Stages then rewrites that tree:
// heading ids, table of contents, syntax highlighting and heading anchor links.
//
// Stage order is resolved from declared phases and MustRunAfter/MustRunBefore
// constraints (plus optional RunAfterIfPresent predecessors) when a Compiler
// is constructed, so an invalid chain fails early instead of on the first
// document.
package markup
