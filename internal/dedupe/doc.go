// Package dedupe implements duplicate detection and removal planning for
// playlist filtering.
//
// The pipeline is pure computation over in-memory track lists:
//
//  1. [NormalizeTitle] canonicalizes titles for comparison
//  2. [Score] rates a pair of tracks with a 0-100 confidence and reasons
//  3. [MatchAgainstFilter] finds cross-playlist duplicates and warnings
//  4. [FindInternalDuplicates] finds duplicate groups inside one playlist
//  5. [BuildPlan] merges findings into a removal plan, one decision per id
//  6. [Reconciler] executes the plan in batches against a [Remover]
//
// Only the Reconciler has side effects; everything above it is deterministic
// and holds no state between runs.
package dedupe
