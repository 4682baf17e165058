package markup

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Compiled is the output of compiling one body.
type Compiled struct {
	HTML     string     `json:"html"`
	TOC      []TOCEntry `json:"toc,omitempty"`
	Headings []Heading  `json:"headings,omitempty"`
}

// Options configures a Compiler.
type Options struct {
	// GFM enables tables, strikethrough, autolinks and task lists.
	GFM bool

	// Stages is the tree-rewriting chain. Order is resolved from phases and
	// dependencies, not from slice order.
	Stages []Stage

	// Observe, when set, receives the duration of every stage run.
	Observe func(stage string, d time.Duration)
}

// Compiler turns Markdown/MDX bodies into HTML. It is safe for concurrent use.
type Compiler struct {
	md      goldmark.Markdown
	stages  []Stage
	observe func(string, time.Duration)
}

// NewCompiler validates the stage chain and builds a Compiler.
func NewCompiler(opts Options) (*Compiler, error) {
	if err := ValidateDependencies(opts.Stages); err != nil {
		return nil, fmt.Errorf("invalid stage chain: %w", err)
	}
	ordered, err := ResolveOrder(opts.Stages)
	if err != nil {
		return nil, fmt.Errorf("invalid stage chain: %w", err)
	}

	var exts []goldmark.Extender
	if opts.GFM {
		exts = append(exts, extension.GFM)
	}
	md := goldmark.New(
		goldmark.WithExtensions(exts...),
		// Bodies may embed raw HTML/JSX that must pass through untouched.
		goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
	)

	return &Compiler{md: md, stages: ordered, observe: opts.Observe}, nil
}

// Stages returns the resolved execution order.
func (c *Compiler) Stages() []Stage {
	out := make([]Stage, len(c.stages))
	copy(out, c.stages)
	return out
}

// Compile converts body to HTML and runs every stage over it. Failures are
// reported as *CompileError naming the stage.
func (c *Compiler) Compile(ctx context.Context, body string) (*Compiled, error) {
	var buf bytes.Buffer
	if err := c.md.Convert([]byte(body), &buf); err != nil {
		return nil, &CompileError{Stage: "markdown", Err: err}
	}

	tree, err := ParseTree(buf.Bytes())
	if err != nil {
		return nil, &CompileError{Stage: "parse", Err: err}
	}

	for _, s := range c.stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()
		err := runStage(ctx, s, tree)
		if c.observe != nil {
			c.observe(s.Name(), time.Since(start))
		}
		if err != nil {
			return nil, &CompileError{Stage: s.Name(), Err: err}
		}
	}

	out, err := tree.Render()
	if err != nil {
		return nil, &CompileError{Stage: "render", Err: err}
	}
	return &Compiled{HTML: out, TOC: tree.TOC, Headings: tree.Headings}, nil
}

// runStage isolates a stage so a panic fails one document, not the build.
func runStage(ctx context.Context, s Stage, t *Tree) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return s.Apply(ctx, t)
}
