package reference

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/guttosm/fertilizer-service/internal/domain/model"
)

const (
	baseCatalogFile     = "base_fertilizers.json"
	topdressCatalogFile = "topdress_fertilizers.json"
	farmProfileFile     = "farm.json"
	cropCodesFile       = "crop_codes.json"

	SourceEmbedded = "embedded"
)

//go:embed data/*.json
var embedded embed.FS

// Options selects where reference data is read from. Empty fields use the
// embedded defaults.
type Options struct {
	// CatalogDir holds base_fertilizers.json and topdress_fertilizers.json,
	// and optionally crop_codes.json and farm.json.
	CatalogDir string
	// FarmProfilePath overrides the farm profile file.
	FarmProfilePath string
}

// Snapshot is one immutable generation of reference data. Accessors return
// copies so callers cannot alter a published snapshot.
type Snapshot struct {
	crops    *CropTable
	catalog  []model.FertilizerProduct
	farm     model.FarmProfile
	source   string
	loadedAt time.Time
}

// NewSnapshot assembles a snapshot from already-loaded parts.
func NewSnapshot(crops *CropTable, catalog []model.FertilizerProduct, farm model.FarmProfile) *Snapshot {
	if crops == nil {
		crops = DefaultCropTable()
	}
	return &Snapshot{
		crops:    crops,
		catalog:  cloneCatalog(catalog),
		farm:     cloneFarm(farm),
		source:   "custom",
		loadedAt: time.Now().UTC(),
	}
}

// Crops returns the crop code table.
func (s *Snapshot) Crops() *CropTable { return s.crops }

// Catalog returns the fertilizer catalog.
func (s *Snapshot) Catalog() []model.FertilizerProduct { return cloneCatalog(s.catalog) }

// CatalogForPhase returns the products applicable in phase.
func (s *Snapshot) CatalogForPhase(phase model.Phase) []model.FertilizerProduct {
	var out []model.FertilizerProduct
	for _, p := range s.catalog {
		if p.SupportsPhase(phase) {
			out = append(out, cloneProduct(p))
		}
	}
	return out
}

// Farm returns the default farm profile.
func (s *Snapshot) Farm() model.FarmProfile { return cloneFarm(s.farm) }

// Source describes where the snapshot was loaded from.
func (s *Snapshot) Source() string { return s.source }

// LoadedAt is when the snapshot was built.
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

// Load builds a snapshot according to opts.
func Load(opts Options) (*Snapshot, error) {
	var fsys fs.FS
	source := SourceEmbedded
	if opts.CatalogDir != "" {
		fsys = os.DirFS(opts.CatalogDir)
		source = opts.CatalogDir
	} else {
		sub, err := fs.Sub(embedded, "data")
		if err != nil {
			return nil, fmt.Errorf("open embedded reference data: %w", err)
		}
		fsys = sub
	}

	catalog, err := loadCatalog(fsys)
	if err != nil {
		return nil, err
	}

	crops, err := loadCropTable(fsys)
	if err != nil {
		return nil, err
	}

	farm, err := loadFarm(fsys, opts.FarmProfilePath)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		crops:    crops,
		catalog:  catalog,
		farm:     farm,
		source:   source,
		loadedAt: time.Now().UTC(),
	}, nil
}

func loadCatalog(fsys fs.FS) ([]model.FertilizerProduct, error) {
	baseData, err := fs.ReadFile(fsys, baseCatalogFile)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", baseCatalogFile, err)
	}
	topData, err := fs.ReadFile(fsys, topdressCatalogFile)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", topdressCatalogFile, err)
	}
	base, err := ParseCatalog(baseData, model.PhaseBase)
	if err != nil {
		return nil, err
	}
	top, err := ParseCatalog(topData, model.PhaseTopdress)
	if err != nil {
		return nil, err
	}
	return MergeCatalogs(base, top), nil
}

// crop_codes.json is optional: {"name": "code", ...}
func loadCropTable(fsys fs.FS) (*CropTable, error) {
	data, err := fs.ReadFile(fsys, cropCodesFile)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultCropTable(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", cropCodesFile, err)
	}
	var pairs map[string]string
	if err := json.Unmarshal(data, &pairs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", cropCodesFile, err)
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("%s: no crops", cropCodesFile)
	}
	return NewCropTable(pairs, defaultAliases), nil
}

func loadFarm(fsys fs.FS, overridePath string) (model.FarmProfile, error) {
	var (
		data []byte
		err  error
		name = farmProfileFile
	)
	switch {
	case overridePath != "":
		name = filepath.Base(overridePath)
		data, err = os.ReadFile(overridePath)
	default:
		data, err = fs.ReadFile(fsys, farmProfileFile)
		if errors.Is(err, fs.ErrNotExist) {
			data, err = embedded.ReadFile("data/" + farmProfileFile)
		}
	}
	if err != nil {
		return model.FarmProfile{}, fmt.Errorf("read %s: %w", name, err)
	}
	return ParseFarmProfile(data)
}

// ParseFarmProfile decodes and validates a farm profile.
func ParseFarmProfile(data []byte) (model.FarmProfile, error) {
	var farm model.FarmProfile
	if err := json.Unmarshal(data, &farm); err != nil {
		return model.FarmProfile{}, fmt.Errorf("decode farm profile: %w", err)
	}
	if farm.AreaM2 <= 0 {
		return model.FarmProfile{}, fmt.Errorf("farm profile %q: area_m2 must be positive", farm.ID)
	}
	if err := farm.Soil.Validate(); err != nil {
		return model.FarmProfile{}, fmt.Errorf("farm profile %q: soil %w", farm.ID, err)
	}
	return farm, nil
}

// Store publishes the current snapshot. Readers take the pointer without
// locking; Reload builds a complete new snapshot before swapping it in.
type Store struct {
	current atomic.Pointer[Snapshot]
	opts    Options
	mu      sync.Mutex // serializes reloads
}

// NewStore loads the initial snapshot.
func NewStore(opts Options) (*Store, error) {
	snap, err := Load(opts)
	if err != nil {
		return nil, err
	}
	s := &Store{opts: opts}
	s.current.Store(snap)
	return s, nil
}

// NewStoreFromSnapshot wraps an existing snapshot, mostly for tests.
func NewStoreFromSnapshot(snap *Snapshot) *Store {
	s := &Store{}
	s.current.Store(snap)
	return s
}

// Snapshot returns the current generation.
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// Reload re-reads the configured sources. On error the current snapshot is
// left in place.
func (s *Store) Reload() (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := Load(s.opts)
	if err != nil {
		return nil, err
	}
	s.current.Store(snap)
	return snap, nil
}

// Swap publishes next and returns the previous snapshot.
func (s *Store) Swap(next *Snapshot) *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Swap(next)
}

// Reloadable reports whether the store reads from disk.
func (s *Store) Reloadable() bool {
	return s.opts.CatalogDir != "" || s.opts.FarmProfilePath != ""
}

func cloneProduct(p model.FertilizerProduct) model.FertilizerProduct {
	p.Phases = append([]model.Phase(nil), p.Phases...)
	return p
}

func cloneCatalog(in []model.FertilizerProduct) []model.FertilizerProduct {
	out := make([]model.FertilizerProduct, len(in))
	for i, p := range in {
		out[i] = cloneProduct(p)
	}
	return out
}

func cloneFarm(f model.FarmProfile) model.FarmProfile {
	f.Crops = append([]model.PlantedCrop(nil), f.Crops...)
	return f
}
