package lineage

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

type datasetFile struct {
	Strains []*Strain `yaml:"strains"`
}

// Dataset is a loaded lineage: the synthetic root plus where it came from.
type Dataset struct {
	Root     *Strain
	Sources  []string
	Warnings []error
}

// UnmarshalYAML normalises known categories and keeps unknown ones verbatim.
func (t *Type) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		*t = Other
		return nil
	}
	if parsed := ParseType(raw); parsed != Other {
		*t = parsed
		return nil
	}
	*t = Type(raw)
	return nil
}

// Parse decodes one dataset document and validates it.
func Parse(name string, data []byte) ([]*Strain, error) {
	var df datasetFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	for _, s := range df.Strains {
		if err := validate(s, nil, make(map[*Strain]bool)); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}
	return df.Strains, nil
}

func validate(s *Strain, trail []string, onPath map[*Strain]bool) error {
	if s == nil {
		return fmt.Errorf("empty strain entry under %s", strings.Join(trail, " > "))
	}
	if onPath[s] {
		return nil
	}
	onPath[s] = true
	defer delete(onPath, s)

	trail = append(trail, s.ID)
	at := strings.Join(trail, " > ")
	switch {
	case strings.TrimSpace(s.ID) == "":
		return fmt.Errorf("strain without id at %s", at)
	case s.ID == RootID || s.Type == RootType:
		return fmt.Errorf("%q is reserved (at %s)", RootID, at)
	case strings.TrimSpace(s.Name) == "":
		return fmt.Errorf("strain %q has no name (at %s)", s.ID, at)
	case s.Year <= 0:
		return fmt.Errorf("strain %q has invalid year %d (at %s)", s.ID, s.Year, at)
	}
	if s.Type == "" {
		s.Type = Other
	}
	for _, p := range s.Parents {
		if err := validate(p, trail, onPath); err != nil {
			return err
		}
	}
	return nil
}

// LoadFS loads every *.yaml / *.yml file of dir inside fsys, in name order.
func LoadFS(fsys fs.FS, dir string) ([]*Strain, []string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, nil, fmt.Errorf("reading embedded lineage: %w", err)
	}

	var all []*Strain
	var sources []string
	for _, entry := range entries {
		if entry.IsDir() || !isDatasetFile(entry.Name()) {
			continue
		}
		name := path.Join(dir, entry.Name())
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, nil, fmt.Errorf("reading %s: %w", entry.Name(), err)
		}
		strains, err := Parse(entry.Name(), data)
		if err != nil {
			return nil, nil, err
		}
		all = append(all, strains...)
		sources = append(sources, name)
	}
	return all, sources, nil
}

// LoadFile loads a single dataset file from disk and wraps it under a root.
func LoadFile(file string) (*Dataset, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	strains, err := Parse(filepath.Base(file), data)
	if err != nil {
		return nil, err
	}
	if len(strains) == 0 {
		return nil, fmt.Errorf("%s: no strains defined", file)
	}
	return &Dataset{Root: NewRoot(strains), Sources: []string{file}}, nil
}

// LoadAll merges the embedded dataset with overlay files from overlayDir.
// Overlay files that fail to parse are skipped and reported as warnings.
// A top-level strain redefined by a later file replaces the earlier one.
func LoadAll(fsys fs.FS, dir, overlayDir string) (*Dataset, error) {
	strains, sources, err := LoadFS(fsys, dir)
	if err != nil {
		return nil, err
	}
	ds := &Dataset{Sources: sources}

	entries, err := os.ReadDir(overlayDir)
	if err == nil {
		names := make([]string, 0, len(entries))
		for _, entry := range entries {
			if !entry.IsDir() && isDatasetFile(entry.Name()) {
				names = append(names, entry.Name())
			}
		}
		sort.Strings(names)
		for _, name := range names {
			file := filepath.Join(overlayDir, name)
			data, err := os.ReadFile(file)
			if err != nil {
				ds.Warnings = append(ds.Warnings, err)
				continue
			}
			extra, err := Parse(name, data)
			if err != nil {
				ds.Warnings = append(ds.Warnings, err)
				continue
			}
			strains = append(strains, extra...)
			ds.Sources = append(ds.Sources, file)
		}
	}

	top := dedup(strains)
	if len(top) == 0 {
		return nil, fmt.Errorf("lineage dataset is empty")
	}
	ds.Root = NewRoot(top)
	return ds, nil
}

// dedup removes duplicate top-level strains by id. The last definition wins
// but keeps the position of the first one.
func dedup(strains []*Strain) []*Strain {
	index := make(map[string]int, len(strains))
	result := make([]*Strain, 0, len(strains))
	for _, s := range strains {
		if i, ok := index[s.ID]; ok {
			result[i] = s
			continue
		}
		index[s.ID] = len(result)
		result = append(result, s)
	}
	return result
}

func isDatasetFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
