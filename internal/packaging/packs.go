package packaging

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/JonMunkholm/refdata/internal/core"
	"github.com/JonMunkholm/refdata/internal/model"
)

// Pack is a single-archive data package. Each pack contains everything of
// the packs before it.
type Pack struct {
	Name    string
	Content []Content
}

// Packs returns the cumulative unit, flow and LCIA packs.
func Packs() []Pack {
	units := []Content{ContentUnitGroups, ContentFlowProperties, ContentCurrencies}
	flows := append(append([]Content{}, units...), ContentFlows, ContentLocations)
	all := append(append([]Content{}, flows...), ContentImpactCategories, ContentImpactMethods)
	return []Pack{
		{Name: UnitsLibrary, Content: units},
		{Name: FlowsLibrary, Content: flows},
		{Name: LCIALibrary, Content: all},
	}
}

// PackFile returns the archive name of a pack.
func PackFile(name, version string) string {
	return fmt.Sprintf("%s_%s.zip", name, version)
}

// BuildPacks writes every pack to dir/<name>_<version>.zip, replacing
// existing archives, and returns the paths. Impact categories keep their
// factors.
func BuildPacks(ctx context.Context, dir, version string, data *model.RefData, report *core.Report) ([]string, error) {
	if version == "" {
		version = DefaultVersion
	}
	if report == nil {
		report = core.NewReport(nil)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}

	var paths []string
	for _, pack := range Packs() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := filepath.Join(dir, PackFile(pack.Name, version))
		report.Logger().Info("write package", "package", filepath.Base(path))
		n, err := writePack(path, pack, data)
		if err != nil {
			return nil, fmt.Errorf("package %s: %w", pack.Name, err)
		}
		report.Logger().Debug("package written", "package", filepath.Base(path), "entities", n)
		paths = append(paths, path)
	}
	return paths, nil
}

func writePack(path string, pack Pack, data *model.RefData) (int, error) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return 0, err
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	sw, err := NewSchemaWriter(f)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, c := range pack.Content {
		list, err := c.Entities(data)
		if err != nil {
			return total, err
		}
		n, err := sw.WriteAll(list)
		total += n
		if err != nil {
			return total, err
		}
	}
	if err := sw.Close(); err != nil {
		return total, err
	}
	return total, f.Close()
}
