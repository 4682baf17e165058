package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/collectionbuilder/internal/config"
	"git.home.luguber.info/inful/collectionbuilder/internal/eventstore"
	"git.home.luguber.info/inful/collectionbuilder/internal/foundation/errors"
)

const postMDX = `---
slug: hello-world
title: Hello World
description: First post
authors:
  - alice
tags:
  - go
---
## Setup

Install things.
`

const authorsYAML = `alice:
  name: Alice
  image: alice.png
`

const configYAML = `content:
  root: ./data
output:
  directory: ./out
authors:
  file: ./data/authors.yaml
metrics:
  textfile: ./metrics.prom
history:
  database: ./state/history.db
logging:
  level: error
`

// site lays out a config file, an author registry and one post in a temp dir.
func site(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	write := func(rel, body string) {
		p := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
	write("collectionbuilder.yaml", configYAML)
	write("data/authors.yaml", authorsYAML)
	write("data/blog/2024-03-01-hello.mdx", postMDX)
	return dir
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli, kong.Vars{"version": "test"}, kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	require.NoError(t, err)
	kctx, err := parser.Parse(args)
	require.NoError(t, err)
	return kctx.Run(&Global{}, &cli)
}

func TestBuildWritesCollections(t *testing.T) {
	dir := site(t)
	cfgPath := filepath.Join(dir, "collectionbuilder.yaml")

	require.NoError(t, run(t, "-c", cfgPath, "build"))

	data, err := os.ReadFile(filepath.Join(dir, "out", "allPosts.json"))
	require.NoError(t, err)
	var posts []map[string]any
	require.NoError(t, json.Unmarshal(data, &posts))
	require.Len(t, posts, 1)
	assert.Equal(t, "hello-world", posts[0]["slug"])
	assert.Equal(t, "2024-03-01", posts[0]["date"])

	assert.FileExists(t, filepath.Join(dir, "out", "manifest.json"))
	assert.FileExists(t, filepath.Join(dir, "out", "allCustomers.json"))
	assert.FileExists(t, filepath.Join(dir, "metrics.prom"))
}

func TestBuildOutputFlagOverridesConfig(t *testing.T) {
	dir := site(t)
	alt := filepath.Join(t.TempDir(), "alt")

	require.NoError(t, run(t, "-c", filepath.Join(dir, "collectionbuilder.yaml"), "build", "-o", alt))
	assert.FileExists(t, filepath.Join(alt, "allPosts.json"))
	assert.NoDirExists(t, filepath.Join(dir, "out"))
}

func TestBuildRejectedDocuments(t *testing.T) {
	dir := site(t)
	bad := filepath.Join(dir, "data", "blog", "undated.mdx")
	require.NoError(t, os.WriteFile(bad, []byte(postMDX), 0o644))
	cfgPath := filepath.Join(dir, "collectionbuilder.yaml")

	err := run(t, "-c", cfgPath, "build")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryBuild))
	// The valid post is still written.
	assert.FileExists(t, filepath.Join(dir, "out", "allPosts.json"))

	require.NoError(t, run(t, "-c", cfgPath, "build", "--allow-failures"))
}

func TestValidateWritesNothing(t *testing.T) {
	dir := site(t)

	require.NoError(t, run(t, "-c", filepath.Join(dir, "collectionbuilder.yaml"), "validate"))
	assert.NoDirExists(t, filepath.Join(dir, "out"))
	assert.NoFileExists(t, filepath.Join(dir, "metrics.prom"))
	assert.NoDirExists(t, filepath.Join(dir, "state"))
}

func TestValidateUnknownAuthor(t *testing.T) {
	dir := site(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data", "authors.yaml"), []byte("bob:\n  name: Bob\n  image: bob.png\n"), 0o644))

	err := run(t, "-c", filepath.Join(dir, "collectionbuilder.yaml"), "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 document(s) rejected")
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "collectionbuilder.yaml")

	require.NoError(t, run(t, "-c", path, "init"))
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultTheme, cfg.Highlight.Theme)

	err = run(t, "-c", path, "init")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
	require.NoError(t, run(t, "-c", path, "init", "--force"))
}

func TestVisualizeToFile(t *testing.T) {
	dir := site(t)
	out := filepath.Join(dir, "chain.mmd")

	require.NoError(t, run(t, "-c", filepath.Join(dir, "collectionbuilder.yaml"), "visualize", "-f", "mermaid", "-o", out))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "graph")
	assert.Contains(t, string(data), "heading_ids")
}

func TestNewLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(config.LoggingConfig{Level: config.LogLevelInfo, Format: config.LogFormatJSON}, false, &buf)
	logger.Info("hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	buf.Reset()
	logger = newLogger(config.LoggingConfig{Level: config.LogLevelInfo, Format: config.LogFormatText}, false, &buf)
	logger.Debug("hidden")
	assert.Empty(t, buf.String())

	logger = newLogger(config.LoggingConfig{Level: config.LogLevelInfo}, true, &buf)
	logger.Debug("shown")
	assert.Contains(t, buf.String(), "msg=shown")
}

func TestDefinitionsApplyOverrides(t *testing.T) {
	cfg := config.Default()
	cfg.Content.Root = "/content"
	cfg.Collections = map[string]config.CollectionConfig{"posts": {Directory: "articles", Include: "*.md"}}

	defs := definitions(cfg)
	require.Len(t, defs, 3)
	for _, d := range defs {
		if d.Name == "posts" {
			assert.Equal(t, filepath.Join("/content", "articles"), d.Directory)
			assert.Equal(t, "*.md", d.Include)
		}
	}
}

func TestBuildRecordsHistory(t *testing.T) {
	dir := site(t)
	cfgPath := filepath.Join(dir, "collectionbuilder.yaml")

	require.NoError(t, run(t, "-c", cfgPath, "build"))
	require.NoError(t, run(t, "-c", cfgPath, "validate"))
	require.NoError(t, run(t, "-c", cfgPath, "history"))

	store, err := eventstore.NewSQLiteStore(filepath.Join(dir, "state", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	p := eventstore.NewBuildHistoryProjection(store, 10)
	require.NoError(t, p.Rebuild(t.Context()))

	// validate does not record
	history := p.History()
	require.Len(t, history, 1)
	assert.Equal(t, eventstore.StatusSucceeded, history[0].Status)
	assert.Equal(t, 1, history[0].Collections["posts"])

	var buf bytes.Buffer
	require.NoError(t, printHistory(&buf, history, false))
	assert.Contains(t, buf.String(), "posts=1")
	assert.Contains(t, buf.String(), history[0].BuildID[:8])

	buf.Reset()
	require.NoError(t, printHistory(&buf, history, true))
	var decoded []eventstore.BuildSummary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, history[0].BuildID, decoded[0].BuildID)
}

func TestHistoryDisabled(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "collectionbuilder.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("content:\n  root: ./data\n"), 0o644))

	err := run(t, "-c", cfgPath, "history")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}
