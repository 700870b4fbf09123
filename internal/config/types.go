package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ZebulonRouseFrantzich/lsprov/internal/binary"
)

// DefaultArgs are the arguments the language server is launched with.
var DefaultArgs = []string{"lsp"}

// Manifest describes the language server an extension launches.
type Manifest struct {
	// ID is the language server id the host asks for.
	ID string `json:"id"`

	// Tool is the executable name; it is also the asset name prefix and the
	// name of the tool's cache directory.
	Tool string `json:"tool"`

	// Repository is the "owner/repo" slug releases are fetched from.
	Repository string `json:"repository"`

	// Args are passed to the executable.
	Args []string `json:"args"`

	// Env is the ordered environment of the language server process.
	Env []EnvVar `json:"env"`
}

// EnvVar is a single environment variable.
type EnvVar struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// DefaultManifest returns the manifest used when none is configured.
func DefaultManifest() *Manifest {
	return &Manifest{
		ID:         binary.DefaultTool,
		Tool:       binary.DefaultTool,
		Repository: binary.DefaultRepository,
		Args:       append([]string(nil), DefaultArgs...),
		Env:        []EnvVar{},
	}
}

// EnvPairs returns Env as ordered [name, value] pairs.
func (m *Manifest) EnvPairs() [][2]string {
	pairs := make([][2]string, 0, len(m.Env))
	for _, e := range m.Env {
		pairs = append(pairs, [2]string{e.Name, e.Value})
	}
	return pairs
}

// Validate checks that the manifest can be used to provision and launch a tool.
func (m *Manifest) Validate() error {
	if m.ID == "" {
		return &ValidationError{Field: luaFieldID, Message: "cannot be empty"}
	}

	if err := binary.ValidateToolName(m.Tool); err != nil {
		return &ValidationError{Field: luaFieldTool, Message: err.Error()}
	}

	if !repositoryPattern.MatchString(m.Repository) {
		return &ValidationError{
			Field:   luaFieldRepository,
			Message: fmt.Sprintf("invalid repository %q (expected owner/repo)", m.Repository),
		}
	}

	if len(m.Args) > MaxArgs {
		return &ValidationError{
			Field:   luaFieldArgs,
			Message: fmt.Sprintf("too many arguments (%d), maximum is %d", len(m.Args), MaxArgs),
		}
	}

	if len(m.Env) > MaxEnv {
		return &ValidationError{
			Field:   luaFieldEnv,
			Message: fmt.Sprintf("too many variables (%d), maximum is %d", len(m.Env), MaxEnv),
		}
	}

	seen := make(map[string]bool, len(m.Env))
	for i, e := range m.Env {
		field := fmt.Sprintf("env[%d]", i+1)
		if e.Name == "" {
			return &ValidationError{Field: field, Message: "name cannot be empty"}
		}
		if strings.ContainsAny(e.Name, "=\x00") {
			return &ValidationError{Field: field, Message: fmt.Sprintf("invalid name %q", e.Name)}
		}
		if seen[e.Name] {
			return &ValidationError{Field: field, Message: fmt.Sprintf("duplicate name %q", e.Name)}
		}
		seen[e.Name] = true
	}

	return nil
}

// ValidationError reports an invalid manifest or settings field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return "invalid " + e.Field + ": " + e.Message
	}
	return "invalid configuration: " + e.Message
}

// repositoryPattern matches GitHub "owner/repo" slugs.
var repositoryPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9-]*/[A-Za-z0-9._-]+$`)
