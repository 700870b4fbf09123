package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/go-logr/logr"
	lua "github.com/yuin/gopher-lua"

	"github.com/ZebulonRouseFrantzich/lsprov/internal/platform"
)

// Parser evaluates extension manifests with platform detection.
type Parser struct {
	detector platform.Detector
	logger   logr.Logger
}

// NewParser creates a new manifest parser. A nil detector skips injection of
// the platform table.
func NewParser(detector platform.Detector, logger logr.Logger) *Parser {
	if logger.GetSink() == nil {
		logger = logr.Discard()
	}
	return &Parser{detector: detector, logger: logger}
}

// ParseFile reads and evaluates the manifest at path.
func (p *Parser) ParseFile(ctx context.Context, path string) (*Manifest, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat manifest: %w", err)
	}
	if info.Size() > MaxManifestSize {
		return nil, &ParseError{
			Message: "manifest too large",
			Detail:  fmt.Sprintf("%s is %d bytes, maximum is %d", path, info.Size(), MaxManifestSize),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	for _, finding := range DetectSensitiveData(string(data)) {
		p.logger.Info("manifest may contain a hardcoded secret",
			"path", path, "line", finding.Line, "kind", finding.PatternName, "preview", finding.Preview)
	}

	return p.ParseString(ctx, string(data))
}

// ParseString evaluates manifest code held in memory.
func (p *Parser) ParseString(ctx context.Context, luaCode string) (*Manifest, error) {
	L := newSandboxedVM()
	defer L.Close()
	L.SetContext(ctx)

	if p.detector != nil {
		platformInfo, err := p.detector.Detect(ctx)
		if err != nil {
			return nil, fmt.Errorf("platform detection failed: %w", err)
		}
		if err := platform.InjectPlatformTable(L, platformInfo); err != nil {
			return nil, fmt.Errorf("inject platform table: %w", err)
		}
	}

	if err := L.DoString(luaCode); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("evaluate manifest: %w", ctxErr)
		}
		return nil, &ParseError{
			Message: "Lua syntax error",
			Detail:  err.Error(),
		}
	}

	return extractManifest(L)
}

// ParseError represents a manifest parsing error with friendly message.
type ParseError struct {
	Message string // User-friendly message
	Detail  string // Technical details (raw Lua error)
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// extractManifest reads the global "extension" table, filling omitted fields
// from DefaultManifest.
func extractManifest(L *lua.LState) (*Manifest, error) {
	extValue := L.GetGlobal(luaGlobalExtension)
	extTable, ok := extValue.(*lua.LTable)
	if !ok {
		return nil, &ParseError{
			Message: "missing or invalid 'extension' table",
			Detail:  fmt.Sprintf("expected table, got %s", extValue.Type()),
		}
	}

	m := DefaultManifest()

	for _, field := range []struct {
		name string
		dest *string
	}{
		{luaFieldID, &m.ID},
		{luaFieldTool, &m.Tool},
		{luaFieldRepository, &m.Repository},
	} {
		value := extTable.RawGetString(field.name)
		switch value.Type() {
		case lua.LTNil:
		case lua.LTString:
			*field.dest = value.String()
		default:
			return nil, fieldTypeError(field.name, "string", value)
		}
	}

	// An id without a tool names the tool too.
	if extTable.RawGetString(luaFieldTool).Type() == lua.LTNil && extTable.RawGetString(luaFieldID).Type() == lua.LTString {
		m.Tool = m.ID
	}

	if argsValue := extTable.RawGetString(luaFieldArgs); argsValue.Type() != lua.LTNil {
		argsTable, ok := argsValue.(*lua.LTable)
		if !ok {
			return nil, fieldTypeError(luaFieldArgs, "table", argsValue)
		}
		args, err := extractArgs(argsTable)
		if err != nil {
			return nil, err
		}
		m.Args = args
	}

	if envValue := extTable.RawGetString(luaFieldEnv); envValue.Type() != lua.LTNil {
		envTable, ok := envValue.(*lua.LTable)
		if !ok {
			return nil, fieldTypeError(luaFieldEnv, "table", envValue)
		}
		env, err := extractEnv(envTable)
		if err != nil {
			return nil, err
		}
		m.Env = env
	}

	if err := m.Validate(); err != nil {
		return nil, &ParseError{
			Message: "manifest validation failed",
			Detail:  err.Error(),
		}
	}

	return m, nil
}

// extractArgs reads the array part of table. Nil holes left by platform
// conditionals (platform.is_linux and "--x" or nil) are skipped.
func extractArgs(table *lua.LTable) ([]string, error) {
	args := []string{}
	for i := 1; i <= table.MaxN(); i++ {
		value := table.RawGetInt(i)
		switch value.Type() {
		case lua.LTNil:
			continue
		case lua.LTString, lua.LTNumber:
			args = append(args, value.String())
		default:
			return nil, fieldTypeError(fmt.Sprintf("%s[%d]", luaFieldArgs, i), "string", value)
		}
	}
	return args, nil
}

// extractEnv reads environment variables. The array part holds ordered
// entries, either { name = "N", value = "V" } or { "N", "V" }. String keys
// of the hash part (N = "V") follow in sorted order, since Lua does not keep
// their insertion order.
func extractEnv(table *lua.LTable) ([]EnvVar, error) {
	env := []EnvVar{}

	for i := 1; i <= table.MaxN(); i++ {
		value := table.RawGetInt(i)
		if value.Type() == lua.LTNil {
			continue
		}
		entry, ok := value.(*lua.LTable)
		if !ok {
			return nil, fieldTypeError(fmt.Sprintf("%s[%d]", luaFieldEnv, i), "table", value)
		}

		name := entry.RawGetString(luaFieldName)
		val := entry.RawGetString(luaFieldValue)
		if name.Type() == lua.LTNil {
			name, val = entry.RawGetInt(1), entry.RawGetInt(2)
		}
		if name.Type() != lua.LTString {
			return nil, fieldTypeError(fmt.Sprintf("%s[%d].name", luaFieldEnv, i), "string", name)
		}
		// A nil value drops the variable, mirroring nil holes in args.
		if val.Type() == lua.LTNil {
			continue
		}
		if val.Type() != lua.LTString && val.Type() != lua.LTNumber && val.Type() != lua.LTBool {
			return nil, fieldTypeError(fmt.Sprintf("%s[%d].value", luaFieldEnv, i), "string", val)
		}
		env = append(env, EnvVar{Name: name.String(), Value: val.String()})
	}

	var keys []string
	var keyErr error
	table.ForEach(func(key, value lua.LValue) {
		if key.Type() == lua.LTNumber {
			return
		}
		if key.Type() != lua.LTString {
			keyErr = fieldTypeError(luaFieldEnv+" key", "string", key)
			return
		}
		switch value.Type() {
		case lua.LTString, lua.LTNumber, lua.LTBool:
			keys = append(keys, key.String())
		default:
			keyErr = fieldTypeError(luaFieldEnv+"."+key.String(), "string", value)
		}
	})
	if keyErr != nil {
		return nil, keyErr
	}

	sort.Strings(keys)
	for _, key := range keys {
		env = append(env, EnvVar{Name: key, Value: table.RawGetString(key).String()})
	}

	return env, nil
}

func fieldTypeError(field, want string, got lua.LValue) error {
	return &ParseError{
		Message: fmt.Sprintf("invalid '%s' field", field),
		Detail:  fmt.Sprintf("expected %s, got %s", want, got.Type()),
	}
}

// FormatError formats a ParseError for user display.
// In verbose mode, show the raw Lua error. Otherwise, show friendly message.
func FormatError(err error, verbose bool) string {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		if verbose {
			return fmt.Sprintf("%s\n\nDetails:\n%s", parseErr.Message, parseErr.Detail)
		}
		detail := parseErr.Detail
		if idx := strings.Index(detail, "stack traceback"); idx > 0 {
			detail = strings.TrimSpace(detail[:idx])
		}
		return fmt.Sprintf("%s: %s", parseErr.Message, detail)
	}
	return err.Error()
}
