package config

// Lua schema field names and globals
const (
	luaGlobalExtension = "extension"
	luaFieldID         = "id"
	luaFieldTool       = "tool"
	luaFieldRepository = "repository"
	luaFieldArgs       = "args"
	luaFieldEnv        = "env"
	luaFieldName       = "name"
	luaFieldValue      = "value"
)

const (
	// AppName names the config and cache directories.
	AppName = "lsprov"

	// EnvPrefix prefixes every environment variable read by LoadSettings.
	EnvPrefix = "LSPROV"

	// ConfigFileName is the base name of the settings file; viper picks the
	// extension (toml, yaml, json).
	ConfigFileName = "config"

	// MaxManifestSize bounds the size of a manifest file.
	MaxManifestSize = 1 << 20

	// MaxArgs bounds the number of launch arguments in a manifest.
	MaxArgs = 64

	// MaxEnv bounds the number of environment variables in a manifest.
	MaxEnv = 64
)
