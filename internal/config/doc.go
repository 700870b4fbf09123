// Package config loads lsprov settings and extension manifests.
//
// # Settings
//
// LoadSettings layers, from lowest to highest precedence:
//   - built-in defaults (DefaultSettings)
//   - a config file: --config, or config.{toml,yaml} in ConfigDir
//   - environment variables prefixed with LSPROV_ (GITHUB_TOKEN is honored
//     when LSPROV_GITHUB_TOKEN is unset)
//
// # Extension manifests
//
// A manifest is a Lua file assigning a global "extension" table. It describes
// which language server an extension launches and how:
//
//	extension = {
//	    id = "sqruff",
//	    tool = "sqruff",
//	    repository = "quarylabs/sqruff",
//	    args = { "lsp" },
//	    env = {
//	        { name = "RUST_LOG", value = platform.is_linux and "debug" or "info" },
//	    },
//	}
//
// Omitted fields take their values from DefaultManifest. The read-only
// "platform" table from the platform package is injected before the file
// runs, so manifests can vary by host.
//
// # Sandboxing
//
// Manifest code runs in a restricted gopher-lua VM without the os, io and
// debug libraries and without any way of loading other code (require,
// dofile, loadfile, load, loadstring). The string, table and math libraries
// remain available. The VM is bound to the caller's context, so a manifest
// that never terminates is stopped by cancelling it.
package config
