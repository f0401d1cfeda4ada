package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/player/internal/player"
	"github.com/desertthunder/player/internal/shared"
	tu "github.com/desertthunder/player/internal/testing"
)

// run executes args against a fresh app and returns what the command printed.
func run(t *testing.T, opts RunnerOpts, args ...string) (*Runner, string, error) {
	t.Helper()
	output := &bytes.Buffer{}
	opts.Output = output
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}

	runner := NewRunner(opts)
	err := runner.App().Run(context.Background(), append([]string{"player"}, args...))
	return runner, output.String(), err
}

func writeMetaFile(t *testing.T) string {
	t.Helper()
	data, err := json.Marshal(tu.SampleSongs())
	if err != nil {
		t.Fatalf("failed to marshal songs: %v", err)
	}
	path := filepath.Join(t.TempDir(), "meta.json")
	tu.MustWriteFile(t, path, data)
	return path
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			fetcher := &tu.StaticFetcher{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "/test/path/config.toml",
				Fetcher:    fetcher,
				HTTPClient: httpClient,
				Logger:     logger,
				Output:     output,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if !runner.loaded {
				t.Error("expected provided config to count as loaded")
			}
			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
			if runner.fetcher != fetcher {
				t.Error("expected fetcher to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.loaded {
				t.Error("expected default config to be resolved before commands run")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil httpClient uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("writes header", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			runner.writePlainHeader("Library")
			if lines := strings.Split(strings.TrimSpace(output.String()), "\n"); len(lines) != 3 || lines[1] != "Library" {
				t.Errorf("unexpected header %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names[cmd.Name] = true
		}
		for _, want := range []string{"setup", "serve", "library", "playlist", "search", "browse"} {
			if !names[want] {
				t.Errorf("expected %q command to be registered", want)
			}
		}
	})

	t.Run("factoryFor", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})

		if _, err := runner.factoryFor(""); err != nil {
			t.Errorf("expected configured engine to be valid, got %v", err)
		}
		if _, err := runner.factoryFor("lucene"); !errors.Is(err, shared.ErrUnknownEngine) {
			t.Errorf("expected ErrUnknownEngine, got %v", err)
		}
	})
}

func TestBefore(t *testing.T) {
	t.Run("loads explicit config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		tu.MustWriteFile(t, path, []byte("[search]\nengine = \"fuzzy\"\n\n[log]\nlevel = \"debug\"\n"))

		runner, _, err := run(t, RunnerOpts{Fetcher: &tu.StaticFetcher{Songs: tu.SampleSongs()}},
			"--config", path, "search", "miles")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if runner.configPath != path {
			t.Errorf("expected config path %s, got %s", path, runner.configPath)
		}
		if runner.config.Search.Engine != "fuzzy" {
			t.Errorf("expected fuzzy engine from file, got %s", runner.config.Search.Engine)
		}
		if runner.config.Server.Port != shared.DefaultConfig().Server.Port {
			t.Error("expected unset values to keep defaults")
		}
		if runner.logger.GetLevel() != log.DebugLevel {
			t.Errorf("expected debug level, got %v", runner.logger.GetLevel())
		}
	})

	t.Run("log level flag wins", func(t *testing.T) {
		runner, _, err := run(t, RunnerOpts{Fetcher: &tu.StaticFetcher{Songs: tu.SampleSongs()}},
			"--log-level", "error", "search", "miles")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if runner.logger.GetLevel() != log.ErrorLevel {
			t.Errorf("expected error level, got %v", runner.logger.GetLevel())
		}
	})

	t.Run("missing explicit config", func(t *testing.T) {
		_, _, err := run(t, RunnerOpts{}, "--config", filepath.Join(t.TempDir(), "nope.toml"), "search", "x")
		if !errors.Is(err, shared.ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		tu.MustWriteFile(t, path, []byte("[server]\nport = 70000\n"))

		_, _, err := run(t, RunnerOpts{}, "--config", path, "search", "x")
		if !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestSearchCommand(t *testing.T) {
	fetcher := func() RunnerOpts {
		return RunnerOpts{Fetcher: &tu.StaticFetcher{Songs: tu.SampleSongs()}}
	}

	t.Run("prints ordinals best first", func(t *testing.T) {
		_, out, err := run(t, fetcher(), "search", "miles")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		for _, want := range []string{
			"Found 2 songs",
			"[3] Miles Davis - So What (Kind of Blue)",
			"[4] Miles Davis - Blue in Green (Kind of Blue)",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, out)
			}
		}
	})

	t.Run("every engine agrees on ordinals", func(t *testing.T) {
		for _, engine := range []string{"trigram", "fuzzy", "sqlite"} {
			t.Run(engine, func(t *testing.T) {
				_, out, err := run(t, fetcher(), "search", "--engine", engine, "--json", "cafe")
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}

				var hits []player.Hit
				if err := json.Unmarshal([]byte(out), &hits); err != nil {
					t.Fatalf("failed to decode output: %v", err)
				}
				if len(hits) == 0 || hits[0].Index != 2 || hits[0].Song.BlobRef != "sha224-0007" {
					t.Errorf("expected Café del Mar at ordinal 2, got %+v", hits)
				}
			})
		}
	})

	t.Run("respects limit", func(t *testing.T) {
		_, out, err := run(t, fetcher(), "search", "--limit", "1", "--json", "miles")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		var hits []player.Hit
		if err := json.Unmarshal([]byte(out), &hits); err != nil {
			t.Fatalf("failed to decode output: %v", err)
		}
		if len(hits) != 1 {
			t.Errorf("expected 1 hit, got %d", len(hits))
		}
	})

	t.Run("no matches", func(t *testing.T) {
		_, out, err := run(t, fetcher(), "search", "qqqq")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(out, "No songs match") {
			t.Errorf("expected no-match message, got %q", out)
		}
	})

	t.Run("requires a query", func(t *testing.T) {
		_, _, err := run(t, fetcher(), "search")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("unknown engine", func(t *testing.T) {
		_, _, err := run(t, fetcher(), "search", "--engine", "lucene", "miles")
		if !errors.Is(err, shared.ErrUnknownEngine) {
			t.Errorf("expected ErrUnknownEngine, got %v", err)
		}
	})

	t.Run("fetch failure", func(t *testing.T) {
		opts := RunnerOpts{Fetcher: &tu.StaticFetcher{Err: errors.New("connection refused")}}
		_, _, err := run(t, opts, "search", "miles")
		if !errors.Is(err, shared.ErrInitFailed) {
			t.Errorf("expected ErrInitFailed, got %v", err)
		}
	})

	t.Run("reads a metadata file", func(t *testing.T) {
		_, out, err := run(t, RunnerOpts{}, "search", "--file", writeMetaFile(t), "radiohead")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(out, "[6] Radiohead - Paranoid Android") {
			t.Errorf("expected Radiohead at ordinal 6, got:\n%s", out)
		}
	})

	t.Run("fetches from a server with a bearer token", func(t *testing.T) {
		var auth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth = r.Header.Get("Authorization")
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(tu.SampleSongs())
		}))
		defer server.Close()

		config := shared.DefaultConfig()
		config.Source.Token = "secret"

		_, out, err := run(t, RunnerOpts{Config: config}, "search", "--source", server.URL+"/api/meta", "thrill")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if auth != "Bearer secret" {
			t.Errorf("expected bearer token, got %q", auth)
		}
		if !strings.Contains(out, "[1] B.B. King - The Thrill Is Gone") {
			t.Errorf("expected B.B. King at ordinal 1, got:\n%s", out)
		}
	})
}

func TestPlaylistCommand(t *testing.T) {
	fetcher := func() RunnerOpts {
		return RunnerOpts{Fetcher: &tu.StaticFetcher{Songs: tu.SampleSongs()}}
	}

	t.Run("render", func(t *testing.T) {
		_, out, err := run(t, fetcher(), "playlist", "render")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if n := strings.Count(out, "amplitude-song-container"); n != 7 {
			t.Errorf("expected 7 song containers, got %d", n)
		}
		if !strings.Contains(out, `data-amplitude-song-index="6"`) {
			t.Error("expected last ordinal to be 6")
		}
	})

	t.Run("config", func(t *testing.T) {
		_, out, err := run(t, fetcher(), "playlist", "config")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var cfg player.Config
		if err := json.Unmarshal([]byte(out), &cfg); err != nil {
			t.Fatalf("failed to decode config: %v", err)
		}
		if len(cfg.Songs) != 7 {
			t.Fatalf("expected 7 songs, got %d", len(cfg.Songs))
		}
		if cfg.Songs[0].Name != "Untitled" || cfg.Songs[6].Name != "Paranoid Android" {
			t.Errorf("expected sorted songs, got first %q last %q", cfg.Songs[0].Name, cfg.Songs[6].Name)
		}
		if cfg.Songs[3].URL != "../ui/download/sha224-0001" {
			t.Errorf("unexpected url %q", cfg.Songs[3].URL)
		}
		if cfg.Bindings[37] != "prev" || cfg.Bindings[39] != "next" || cfg.Bindings[32] != "play_pause" {
			t.Errorf("unexpected bindings %v", cfg.Bindings)
		}
	})

	t.Run("export", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out", "library.m3u")
		_, out, err := run(t, fetcher(), "playlist", "export", "--format", "m3u", "--output", path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(out, "Exported 7 songs") {
			t.Errorf("unexpected output %q", out)
		}

		data := tu.MustReadFile(t, path)
		if !strings.HasPrefix(data, "#EXTM3U") {
			t.Errorf("expected M3U header, got %q", data)
		}
		if strings.Index(data, "sha224-0006") > strings.Index(data, "sha224-0004") {
			t.Error("expected exported songs in sorted order")
		}
	})

	t.Run("export rejects unknown format", func(t *testing.T) {
		_, _, err := run(t, fetcher(), "playlist", "export", "--format", "xlsx", "--output", filepath.Join(t.TempDir(), "x"))
		if !errors.Is(err, shared.ErrInvalidFormat) {
			t.Errorf("expected ErrInvalidFormat, got %v", err)
		}
	})
}

func TestSetupCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	_, out, err := run(t, RunnerOpts{}, "setup", "--output", path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(out, path) {
		t.Errorf("expected output to mention %s, got %q", path, out)
	}
	if _, err := shared.LoadConfig(path); err != nil {
		t.Errorf("expected written config to load, got %v", err)
	}

	if _, _, err := run(t, RunnerOpts{}, "setup", "--output", path); err == nil {
		t.Error("expected error when config already exists")
	}
}

func TestLibraryScanCommand(t *testing.T) {
	t.Run("empty library", func(t *testing.T) {
		dir := t.TempDir()
		tu.MustWriteFile(t, filepath.Join(dir, "notes.txt"), []byte("not audio"))

		_, out, err := run(t, RunnerOpts{}, "library", "scan", "--library", dir)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(out, "0 songs, 0 B") {
			t.Errorf("expected empty summary, got %q", out)
		}
	})

	t.Run("json output is an array", func(t *testing.T) {
		_, out, err := run(t, RunnerOpts{}, "library", "scan", "--library", t.TempDir(), "--json")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if strings.TrimSpace(out) != "[]" {
			t.Errorf("expected empty array, got %q", out)
		}
	})

	t.Run("requires paths", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Library.Paths = nil

		_, _, err := run(t, RunnerOpts{Config: config}, "library", "scan")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})
}

func TestBuildServer(t *testing.T) {
	dir := t.TempDir()
	runner := NewRunner(RunnerOpts{
		Config: shared.DefaultConfig(),
		Logger: shared.NewLogger(io.Discard),
		Output: &bytes.Buffer{},
	})

	cfg := runner.config.Server
	cfg.Prefix = "/player"
	cfg.RateLimit = 0

	srv, catalog, err := runner.buildServer(context.Background(), serveOpts{server: cfg, paths: []string{dir}})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if catalog.Generation() != 1 {
		t.Errorf("expected one refresh, got %d", catalog.Generation())
	}

	ts := httptest.NewServer(srv)
	defer ts.Close()

	t.Run("health reports a session", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/player/healthz")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		var body map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode health: %v", err)
		}
		if body["status"] != "ok" {
			t.Errorf("expected ok status, got %v", body["status"])
		}
	})

	t.Run("client pipeline reads the served catalog", func(t *testing.T) {
		_, out, err := run(t, RunnerOpts{}, "playlist", "config", "--source", ts.URL+"/api/meta")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var cfg player.Config
		if err := json.Unmarshal([]byte(out), &cfg); err != nil {
			t.Fatalf("failed to decode config: %v", err)
		}
		if len(cfg.Songs) != 0 {
			t.Errorf("expected empty library, got %d songs", len(cfg.Songs))
		}
	})

	t.Run("fails without a player session", func(t *testing.T) {
		broken := NewRunner(RunnerOpts{
			Config: shared.DefaultConfig(),
			Logger: shared.NewLogger(io.Discard),
			Output: &bytes.Buffer{},
		})
		broken.config.Search.Database = filepath.Join(t.TempDir(), "missing", "search.db")

		srv, _, err := broken.buildServer(context.Background(), serveOpts{server: cfg, paths: []string{dir}, engine: "sqlite"})
		if !errors.Is(err, shared.ErrInitFailed) {
			t.Errorf("expected ErrInitFailed, got %v", err)
		}
		if srv != nil {
			t.Error("expected no server when the session cannot be built")
		}
	})

	t.Run("unknown engine", func(t *testing.T) {
		_, _, err := runner.buildServer(context.Background(), serveOpts{server: cfg, paths: []string{dir}, engine: "lucene"})
		if !errors.Is(err, shared.ErrUnknownEngine) {
			t.Errorf("expected ErrUnknownEngine, got %v", err)
		}
	})
}
