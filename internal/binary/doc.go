// Package binary locates or provisions the executable behind a language
// server.
//
// # Resolution
//
// Provisioner.Resolve returns a path to an executable for a tool:
//   - A tool already on the search path is returned as-is, without network access
//   - Otherwise the latest stable release with assets is looked up and the
//     asset for the requested platform is selected by exact name
//   - If {tool}-{version}/{tool} already exists in the tool's working
//     directory it is returned (presence alone is trusted)
//   - Otherwise the asset is downloaded once, unpacked into {tool}-{version},
//     and every other entry of the working directory is removed
//
// Nothing is retried. Errors are typed (ReleaseResolutionError,
// AssetNotFoundError, DownloadError, ExtractionError, VerificationError) so
// callers can tell them apart with errors.As. Cleanup failures never fail a
// resolution and are returned as Result.Warnings instead.
//
// # Layout
//
//	<root>/
//	  sqruff/
//	    sqruff-v0.29.1/
//	      sqruff
//	      .lsprov-install.json
//
// # Usage
//
//	prov, err := binary.NewProvisioner(binary.Config{
//	    RootDir:  cacheDir,
//	    Releases: release.NewGitHub(nil),
//	})
//	if err != nil {
//	    return err
//	}
//
//	res, err := prov.Resolve(ctx, binary.ToolRequest{
//	    Name:       "sqruff",
//	    Repository: "quarylabs/sqruff",
//	    OS:         platform.Linux,
//	    Arch:       platform.X86_64,
//	}, binary.Environment{Locator: worktree})
//
// # Architecture
//
// The package is organized into several components:
//   - Provisioner: the resolution procedure
//   - Downloader: single-attempt HTTP download into a directory
//   - Extractor: tar.gz and zip extraction
//   - Verifier: optional OpenPGP detached-signature verification
//   - asset.go: platform-specific asset naming
package binary
