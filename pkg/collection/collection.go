package collection

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Package collection loads collection definitions (YAML/JSON) describing which feeds to digest.

const (
	DefaultName       = "default"
	DefaultTitle      = "AI News"
	DefaultFetchHours = 48
	DefaultCategory   = "other"
	DefaultLanguage   = "en"
	defaultOutputRoot = "output"
)

// ErrNotFound is returned when the collection file does not exist.
var ErrNotFound = errors.New("collection file not found")

// Feed is one configured RSS/Atom source.
type Feed struct {
	Name     string `json:"name" yaml:"name"`
	URL      string `json:"url" yaml:"url"`
	Category string `json:"category" yaml:"category"`
	Language string `json:"language" yaml:"language"`
}

// Output controls where the digest file is written.
type Output struct {
	Directory string `json:"directory" yaml:"directory"`
}

// Collection is a named set of feeds plus the filter policy applied to their entries.
type Collection struct {
	Name            string   `json:"name" yaml:"name"`
	Title           string   `json:"title" yaml:"title"`
	Feeds           []Feed   `json:"feeds" yaml:"feeds"`
	Keywords        []string `json:"keywords" yaml:"keywords"`
	ExcludeKeywords []string `json:"exclude_keywords" yaml:"exclude_keywords"`
	FetchHours      *int     `json:"fetch_hours" yaml:"fetch_hours"`
	Output          Output   `json:"output" yaml:"output"`
}

// Load reads, sanitizes and validates the collection file at p.
func Load(p string) (*Collection, error) {
	if strings.TrimSpace(p) == "" {
		return nil, errors.New("collection file path is empty")
	}

	file, err := os.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
		}
		return nil, fmt.Errorf("open collection file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read collection file: %w", err)
	}

	c, err := Parse(raw, filepath.Ext(p))
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Parse decodes collection content; ext selects the decoder and an empty ext tries each one.
func Parse(data []byte, ext string) (*Collection, error) {
	c, err := parseCollection(data, ext)
	if err != nil {
		return nil, err
	}

	c = sanitizeCollection(c)
	if err := validateCollection(c); err != nil {
		return nil, err
	}
	return &c, nil
}

func parseCollection(data []byte, ext string) (Collection, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	var lastErr error
	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		c, err := unmarshalCollection(d.name, data, d.fn)
		if err == nil {
			return c, nil
		}
		lastErr = err
	}

	if lastErr != nil {
		return Collection{}, lastErr
	}
	return Collection{}, fmt.Errorf("collection file format %q not recognized (expected YAML or JSON)", ext)
}

type unmarshalFn func([]byte, any) error

func unmarshalCollection(name string, data []byte, fn unmarshalFn) (Collection, error) {
	var c Collection
	if err := fn(data, &c); err != nil {
		return Collection{}, fmt.Errorf("decode %s collection: %w", name, err)
	}
	return c, nil
}

func sanitizeCollection(c Collection) Collection {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		c.Name = DefaultName
	}
	c.Title = strings.TrimSpace(c.Title)
	if c.Title == "" {
		c.Title = DefaultTitle
	}
	if c.FetchHours == nil {
		h := DefaultFetchHours
		c.FetchHours = &h
	}
	c.Output.Directory = strings.TrimSpace(c.Output.Directory)
	if c.Output.Directory == "" {
		c.Output.Directory = path.Join(defaultOutputRoot, c.Name)
	}

	feeds := make([]Feed, len(c.Feeds))
	for i, f := range c.Feeds {
		feeds[i] = sanitizeFeed(f)
	}
	c.Feeds = feeds

	return c
}

func sanitizeFeed(f Feed) Feed {
	f.Name = strings.TrimSpace(f.Name)
	f.URL = strings.TrimSpace(f.URL)
	f.Category = strings.TrimSpace(f.Category)
	f.Language = strings.TrimSpace(f.Language)

	if f.Category == "" {
		f.Category = DefaultCategory
	}
	if f.Language == "" {
		f.Language = DefaultLanguage
	}
	return f
}

func validateCollection(c Collection) error {
	if *c.FetchHours < 0 {
		return fmt.Errorf("fetch_hours must not be negative, got %d", *c.FetchHours)
	}
	for i, f := range c.Feeds {
		if f.Name == "" {
			return fmt.Errorf("feeds[%d]: name is required", i)
		}
		if f.URL == "" {
			return fmt.Errorf("feeds[%d]: url is required for feed %q", i, f.Name)
		}
	}
	return nil
}

// Hours returns the recency window, falling back to the default when unset.
func (c *Collection) Hours() int {
	if c == nil || c.FetchHours == nil {
		return DefaultFetchHours
	}
	return *c.FetchHours
}
