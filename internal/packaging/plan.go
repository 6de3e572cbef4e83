package packaging

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/JonMunkholm/refdata/internal/model"
)

// DefaultVersion is appended to every library and pack name.
const DefaultVersion = "2.0.0.alpha"

// Library base names of the default plan.
const (
	UnitsLibrary = "openLCA-ref-units"
	FlowsLibrary = "openLCA-ref-flows"
	LCIALibrary  = "openLCA-LCIA-pack"
)

// Content selects what goes into a library.
type Content string

const (
	ContentCurrencies       Content = "currencies"
	ContentUnitGroups       Content = "unit_groups"
	ContentFlowProperties   Content = "flow_properties"
	ContentFlows            Content = "flows"
	ContentLocations        Content = "locations"
	ContentImpactCategories Content = "lcia_categories"
	ContentImpactMethods    Content = "lcia_methods"

	// ContentMatrix writes C.npz with its index tables and strips the impact
	// factors from the graph afterwards.
	ContentMatrix Content = "matrix"
)

// Valid reports whether c names a known content kind.
func (c Content) Valid() bool {
	switch c {
	case ContentCurrencies, ContentUnitGroups, ContentFlowProperties, ContentFlows,
		ContentLocations, ContentImpactCategories, ContentImpactMethods, ContentMatrix:
		return true
	}
	return false
}

// Entities returns the distinct entities of data selected by c. The matrix
// content has no entities.
func (c Content) Entities(data *model.RefData) ([]model.Entity, error) {
	switch c {
	case ContentCurrencies:
		return entities(data.Currencies.Values()), nil
	case ContentUnitGroups:
		return entities(data.UnitGroups.Values()), nil
	case ContentFlowProperties:
		return entities(data.FlowProperties.Values()), nil
	case ContentFlows:
		return entities(data.Flows.Values()), nil
	case ContentLocations:
		return entities(data.Locations.Values()), nil
	case ContentImpactCategories:
		return entities(data.ImpactCategories.Values()), nil
	case ContentImpactMethods:
		return entities(data.ImpactMethods.Values()), nil
	case ContentMatrix:
		return nil, nil
	}
	return nil, fmt.Errorf("unknown library content %q", c)
}

func entities[T model.Entity](values []T) []model.Entity {
	out := make([]model.Entity, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// LibrarySpec describes one library of a plan.
type LibrarySpec struct {
	Name         string    `yaml:"name"`
	Dependencies []string  `yaml:"dependencies,omitempty"`
	Content      []Content `yaml:"content"`
}

// HasMatrix reports whether the library carries the matrix.
func (s LibrarySpec) HasMatrix() bool {
	for _, c := range s.Content {
		if c == ContentMatrix {
			return true
		}
	}
	return false
}

// Plan lists the libraries of a build in build order.
type Plan struct {
	Version   string        `yaml:"version,omitempty"`
	Libraries []LibrarySpec `yaml:"libraries"`
}

// DefaultPlan returns the three standard libraries.
func DefaultPlan(version string) *Plan {
	if version == "" {
		version = DefaultVersion
	}
	return &Plan{
		Version: version,
		Libraries: []LibrarySpec{
			{
				Name:    UnitsLibrary,
				Content: []Content{ContentCurrencies, ContentUnitGroups, ContentFlowProperties},
			},
			{
				Name:         FlowsLibrary,
				Dependencies: []string{UnitsLibrary},
				Content:      []Content{ContentFlows, ContentLocations},
			},
			{
				Name:         LCIALibrary,
				Dependencies: []string{UnitsLibrary, FlowsLibrary},
				Content:      []Content{ContentMatrix, ContentImpactMethods, ContentImpactCategories},
			},
		},
	}
}

// LoadPlan reads a YAML plan file. A version in the file takes precedence
// over version.
func LoadPlan(path, version string) (*Plan, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}
	var p Plan
	if err := yaml.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("parse plan %s: %w", path, err)
	}
	if p.Version == "" {
		p.Version = version
	}
	if p.Version == "" {
		p.Version = DefaultVersion
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("plan %s: %w", path, err)
	}
	return &p, nil
}

// FullName returns the versioned name of a library.
func (p *Plan) FullName(name string) string {
	return name + "-" + p.Version
}

// Validate checks that names are unique, dependencies point to earlier
// libraries, content names are known and at most one library carries the
// matrix. All problems are reported together.
func (p *Plan) Validate() error {
	var errs []string
	if len(p.Libraries) == 0 {
		errs = append(errs, "no libraries")
	}
	seen := make(map[string]bool)
	matrices := 0
	for i, lib := range p.Libraries {
		if strings.TrimSpace(lib.Name) == "" {
			errs = append(errs, fmt.Sprintf("library %d has no name", i+1))
		}
		if seen[lib.Name] {
			errs = append(errs, fmt.Sprintf("library %s is defined twice", lib.Name))
		}
		for _, dep := range lib.Dependencies {
			if !seen[dep] {
				errs = append(errs, fmt.Sprintf("library %s depends on %s which is not built before it", lib.Name, dep))
			}
		}
		seen[lib.Name] = true
		for _, c := range lib.Content {
			if !c.Valid() {
				errs = append(errs, fmt.Sprintf("library %s: unknown content %q", lib.Name, c))
			}
		}
		if lib.HasMatrix() {
			matrices++
		}
	}
	if matrices > 1 {
		errs = append(errs, fmt.Sprintf("%d libraries carry the matrix, at most one may", matrices))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid plan:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
