package packaging

import (
	"context"
	"fmt"
	"os"

	"github.com/JonMunkholm/refdata/internal/core"
	"github.com/JonMunkholm/refdata/internal/matrix"
	"github.com/JonMunkholm/refdata/internal/model"
)

// Builder writes the libraries of a plan below Root.
type Builder struct {
	// Root is the libraries directory. It is cleared before every build.
	Root   string
	Plan   *Plan
	Order  matrix.IndexOrder
	Report *core.Report
}

// Result is what a build produced.
type Result struct {
	Libraries []*Library

	// Export is nil when no library carries the matrix or the matrix was
	// empty.
	Export *matrix.Export
}

// Zips returns the packaged archives in build order.
func (r *Result) Zips() []string {
	var out []string
	for _, l := range r.Libraries {
		if l.Zip != "" {
			out = append(out, l.Zip)
		}
	}
	return out
}

// Build writes every library of the plan. The library carrying the matrix
// writes it before its entities, and the impact factors are stripped from
// data once the matrix exists, so impact categories are serialized without
// them.
func (b *Builder) Build(ctx context.Context, data *model.RefData) (*Result, error) {
	plan := b.Plan
	if plan == nil {
		plan = DefaultPlan(DefaultVersion)
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	report := b.Report
	if report == nil {
		report = core.NewReport(nil)
	}
	log := report.Logger()

	if err := os.RemoveAll(b.Root); err != nil {
		return nil, fmt.Errorf("clear %s: %w", b.Root, err)
	}
	if err := os.MkdirAll(b.Root, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", b.Root, err)
	}

	result := &Result{}
	built := make(map[string]*Library)
	for _, spec := range plan.Libraries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var deps []*Library
		for _, dep := range spec.Dependencies {
			deps = append(deps, built[dep])
		}
		name := plan.FullName(spec.Name)
		log.Info("init library", "library", name, "dependencies", len(deps))
		lib, err := initLibrary(b.Root, name, deps)
		if err != nil {
			return nil, err
		}

		if spec.HasMatrix() {
			export, err := matrix.Assemble(data, matrix.Options{Order: b.Order, Report: report})
			if err != nil {
				return nil, fmt.Errorf("library %s: %w", name, err)
			}
			if export != nil {
				log.Info("write matrix", "library", name, "dir", lib.Dir)
				if err := export.WriteDir(lib.Dir); err != nil {
					return nil, err
				}
				result.Export = export
			}
			data.StripImpactFactors()
		}

		var lists [][]model.Entity
		for _, c := range spec.Content {
			list, err := c.Entities(data)
			if err != nil {
				return nil, err
			}
			if list != nil {
				lists = append(lists, list)
			}
		}
		log.Info("write data", "library", name)
		if err := lib.Write(lists...); err != nil {
			return nil, err
		}

		log.Info("package library", "library", name)
		if err := lib.Package(); err != nil {
			return nil, err
		}

		built[spec.Name] = lib
		result.Libraries = append(result.Libraries, lib)
	}
	return result, nil
}
