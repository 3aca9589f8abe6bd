package migrate

import (
	"github.com/hashicorp/go-multierror"
)

// MigrationCoverage is the result of comparing a DynamicMigration's
// declared source/target paths against the full set of paths reachable in
// a source/target Shape pair (§3.7).
type MigrationCoverage struct {
	MissingSource []Path
	MissingTarget []Path
}

// Complete reports whether every reachable source and target path was
// accounted for.
func (c MigrationCoverage) Complete() bool {
	return len(c.MissingSource) == 0 && len(c.MissingTarget) == 0
}

// ValidateShape computes m's coverage of source and target and returns an
// error (*MigrationError with Kind == Incomplete, wrapped in a
// multierror.Error if the caller accumulates several validations) when
// coverage is not Complete.
func ValidateShape(m DynamicMigration, source, target Shape) (MigrationCoverage, error) {
	coverage := coverageOf(m, source, target)
	if coverage.Complete() {
		return coverage, nil
	}

	var missingSourceStrs, missingTargetStrs []string
	for _, p := range coverage.MissingSource {
		missingSourceStrs = append(missingSourceStrs, p.String())
	}
	for _, p := range coverage.MissingTarget {
		missingTargetStrs = append(missingTargetStrs, p.String())
	}
	return coverage, NewIncomplete(missingSourceStrs, missingTargetStrs)
}

// coverageOf implements spec.md §4.4: Complete iff
// source_shape ⊆ handled_from_source ∪ (target_shape ∩ unchanged), and
// symmetrically for target. A source (or target) path that the migration
// never mentions still counts as covered when the *other* shape reaches
// the same path with the same leaf Tag — the field passes through
// unchanged rather than being migrated, so it is not missing coverage.
func coverageOf(m DynamicMigration, source, target Shape) MigrationCoverage {
	handledSource := pathSet(m.HandledSourcePaths())
	providedTarget := pathSet(m.ProvidedTargetPaths())

	sourcePaths := source.ReachablePaths()
	targetPaths := target.ReachablePaths()
	sourceLeaf := leafSet(sourcePaths)
	targetLeaf := leafSet(targetPaths)

	var missingSource, missingTarget []Path
	for _, hp := range sourcePaths {
		if _, ok := handledSource[hp.Path.String()]; ok {
			continue
		}
		if leaf, ok := targetLeaf[hp.Path.String()]; ok && leaf == hp.Leaf {
			continue
		}
		missingSource = append(missingSource, hp.Path)
	}
	for _, hp := range targetPaths {
		if _, ok := providedTarget[hp.Path.String()]; ok {
			continue
		}
		if leaf, ok := sourceLeaf[hp.Path.String()]; ok && leaf == hp.Leaf {
			continue
		}
		missingTarget = append(missingTarget, hp.Path)
	}
	return MigrationCoverage{MissingSource: missingSource, MissingTarget: missingTarget}
}

func pathSet(paths []Path) map[string]struct{} {
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		set[p.String()] = struct{}{}
	}
	return set
}

func leafSet(paths []HierarchicalPath) map[string]Tag {
	set := make(map[string]Tag, len(paths))
	for _, hp := range paths {
		set[hp.Path.String()] = hp.Leaf
	}
	return set
}

// ValidateMany runs ValidateShape over several (migration, source, target)
// triples, accumulating every failure into a single *multierror.Error
// rather than stopping at the first, grounded on the teacher's use of
// hashicorp/go-multierror to aggregate independent setup failures.
func ValidateMany(checks []ShapeCheck) error {
	var result *multierror.Error
	for _, c := range checks {
		if _, err := ValidateShape(c.Migration, c.Source, c.Target); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// ShapeCheck is one (migration, source, target) triple to validate, used
// by ValidateMany for batch validation (e.g. an entire CLI invocation
// validating several migration files against a shape store).
type ShapeCheck struct {
	Migration DynamicMigration
	Source    Shape
	Target    Shape
}
