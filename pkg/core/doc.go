// Package core defines the shared language of the leapshard system.
//
// This package contains:
//   - The paging window model (WindowSpec, Operand)
//   - Rewrite markers recorded against a statement (RewriteMarker)
//   - The statement parse context (SelectStatement) that owns the
//     placeholder counter, the marker list and the attached window
//   - Shared configuration types (DialectConfig, ShardConfig)
//
// The Golden Rule: pkg/core imports ONLY pkg/token and stdlib.
// All other packages depend on core, not the reverse.
package core
