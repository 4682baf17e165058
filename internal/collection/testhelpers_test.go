package collection

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/collectionbuilder/internal/authors"
)

const customerMDX = `---
company_name: Acme
company_url: https://acme.example
company_logo: /logos/acme.svg
user_name: Wile E.
user_title: CTO
user_photo: /people/wile.png
highlight: Latency dropped by 90%
cover_image: /covers/acme.png
order: 2
---
Acme moved their cache.
`

const jobMDX = `---
title: Backend Engineer
summary: Build the platform
experience: 3+ years
how: Send us a note
location: Remote
skills:
  - go
  - redis
---
## About the role

Lots of Go.
`

const postMDX = `---
slug: hello-world
title: Hello World
description: First post
authors:
  - alice
tags:
  - redis
  - go
---
## Setup

Install things.

## Setup

` + "```go\npackage main\n```" + `

### Details

More text.
`

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testAuthors() *authors.Registry {
	return authors.NewRegistry(map[string]authors.Author{
		"alice": {Name: "Alice", Title: "Engineer", Bio: "Writes about caches.", Image: "alice.png"},
		"bob":   {Name: "Bob", Image: "bob.jpg"},
	})
}

func newTestTransformer(t *testing.T) *Transformer {
	t.Helper()
	tr, err := NewTransformer(TransformerOptions{Authors: testAuthors(), Logger: quietLogger()})
	require.NoError(t, err)
	return tr
}

// writeContent creates files (relative path -> content) under a fresh root.
func writeContent(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return root
}

func build(t *testing.T, root string, opts ...Option) *Result {
	t.Helper()
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	b := NewBuilder(DefaultDefinitions(root), newTestTransformer(t), opts...)
	res, err := b.Build(t.Context())
	require.NoError(t, err)
	return res
}
