// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys and the contact email used for polite
// API pools. Keys come from three layers, later layers winning: a
// directory of plain-text files (filename is the key, trimmed contents
// the value), a .env file, and the process environment.
package secrets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Key names, as used for files in the secrets directory.
const (
	OpenAIKey          = "openai-api-key"
	GeminiKey          = "gemini-api-key"
	AnthropicKey       = "anthropic-api-key"
	SemanticScholarKey = "semantic-scholar-api-key"
	CourtListenerToken = "courtlistener-api-key"
	GoogleBooksKey     = "google-books-api-key"
	NCBIKey            = "ncbi-api-key"
	ContactEmail       = "contact-email"
)

// envNames maps each key to the environment variable that supplies it in
// a .env file or the process environment.
var envNames = map[string]string{
	OpenAIKey:          "OPENAI_API_KEY",
	GeminiKey:          "GEMINI_API_KEY",
	AnthropicKey:       "ANTHROPIC_API_KEY",
	SemanticScholarKey: "SEMANTIC_SCHOLAR_API_KEY",
	CourtListenerToken: "COURTLISTENER_API_TOKEN",
	GoogleBooksKey:     "GOOGLE_BOOKS_API_KEY",
	NCBIKey:            "NCBI_API_KEY",
	ContactEmail:       "CITE_RESOLVER_EMAIL",
}

// Secrets maps key names to values.
type Secrets map[string]string

// Get returns the value for key, or "".
func (s Secrets) Get(key string) string { return s[key] }

// Has reports whether key has a non-empty value.
func (s Secrets) Has(key string) bool { return s[key] != "" }

// Names returns the key names that have values, without the values, for
// diagnostics.
func (s Secrets) Names() []string {
	var names []string
	for _, k := range []string{OpenAIKey, GeminiKey, AnthropicKey, SemanticScholarKey, CourtListenerToken, GoogleBooksKey, NCBIKey, ContactEmail} {
		if s.Has(k) {
			names = append(names, k)
		}
	}
	return names
}

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (Secrets, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Secrets{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(Secrets)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// LoadEnvFile reads a .env file. Variables are accepted under their
// environment name (OPENAI_API_KEY) or the key name itself
// (openai-api-key). Key names are rewritten to their environment names
// before parsing because dotenv names may not contain dashes. A missing
// file yields an empty map.
func LoadEnvFile(path string) (Secrets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Secrets{}, nil
		}
		return nil, fmt.Errorf("reading env file %s: %w", path, err)
	}

	vars, err := godotenv.Unmarshal(translateKeyNames(string(data)))
	if err != nil {
		return nil, fmt.Errorf("parsing env file %s: %w", path, err)
	}

	out := make(Secrets)
	for key, env := range envNames {
		if v := strings.TrimSpace(vars[env]); v != "" {
			out[key] = v
		}
	}
	return out, nil
}

// translateKeyNames replaces known dashed key names at the start of an
// assignment with their environment names. Other lines pass through.
func translateKeyNames(src string) string {
	lines := strings.Split(src, "\n")
	for i, line := range lines {
		body := strings.TrimLeft(line, " \t")
		indent := line[:len(line)-len(body)]
		prefix := ""
		if rest, ok := strings.CutPrefix(body, "export "); ok {
			prefix, body = "export ", strings.TrimLeft(rest, " \t")
		}
		name, value, ok := strings.Cut(body, "=")
		if !ok {
			continue
		}
		if env, known := envNames[strings.TrimSpace(name)]; known {
			lines[i] = indent + prefix + env + "=" + value
		}
	}
	return strings.Join(lines, "\n")
}

// FromEnviron reads the keys from the process environment.
func FromEnviron() Secrets {
	out := make(Secrets)
	for key, env := range envNames {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			out[key] = v
		}
	}
	return out
}

// Resolve merges the secrets directory, the .env file and the process
// environment. Either path may be empty to skip that layer.
func Resolve(dir, envFile string) (Secrets, error) {
	out := make(Secrets)
	if dir != "" {
		s, err := Load(dir)
		if err != nil {
			return nil, err
		}
		merge(out, s)
	}
	if envFile != "" {
		s, err := LoadEnvFile(envFile)
		if err != nil {
			return nil, err
		}
		merge(out, s)
	}
	merge(out, FromEnviron())
	return out, nil
}

func merge(dst, src Secrets) {
	for k, v := range src {
		dst[k] = v
	}
}
