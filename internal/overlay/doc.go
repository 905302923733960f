// Package overlay merges an ordered list of source roots into a single
// manifest of relative path to source file mappings.
//
// # Roots and precedence
//
// The first root is the entry root: it defines the relative namespace.
// Every other root mirrors the same folder layout, and a file placed at a
// matching relative position overrides the file from an earlier root. Root
// order is the only precedence signal; directory names carry no meaning.
//
//	resolver := overlay.NewResolver(overlay.Options{
//	    EntryRoot:      "/data/base",
//	    AllowOverrides: true,
//	})
//	manifest, err := resolver.BuildEntries(ctx, []string{"/data/base", "/data/patch1"})
//
// With overrides disabled, a relative path contributed by two roots fails
// with a domain.OverrideConflictError naming the path and both sources.
//
// # Ordering
//
// Manifest entries are sorted by byte-wise comparison of the full relative
// path, so output order does not depend on walk order or nesting.
//
// # Exclusions
//
// Exclude patterns use gitignore syntax and are matched against relative
// paths. Excluded directories are not descended into.
package overlay
