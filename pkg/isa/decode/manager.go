package decode

import (
	"errors"
	"path/filepath"
	"sort"

	"github.com/Manu343726/isaview/pkg/utils"
)

// Architecture enumerates the GPU architectures with known isa specs.
type Architecture int

const (
	Architecture_Unknown Architecture = iota
	Architecture_RDNA1
	Architecture_RDNA2
	Architecture_RDNA3
	Architecture_RDNA35
	Architecture_RDNA4
	Architecture_CDNA1
	Architecture_CDNA2
	Architecture_CDNA3
)

var architectureNames = map[Architecture]string{
	Architecture_Unknown: "unknown",
	Architecture_RDNA1:   "rdna1",
	Architecture_RDNA2:   "rdna2",
	Architecture_RDNA3:   "rdna3",
	Architecture_RDNA35:  "rdna3.5",
	Architecture_RDNA4:   "rdna4",
	Architecture_CDNA1:   "cdna1",
	Architecture_CDNA2:   "cdna2",
	Architecture_CDNA3:   "cdna3",
}

// specFileNames maps architectures to their individual isa spec file names.
var specFileNames = map[Architecture]string{
	Architecture_RDNA1:  "isa_rdna1.yaml",
	Architecture_RDNA2:  "isa_rdna2.yaml",
	Architecture_RDNA3:  "isa_rdna3.yaml",
	Architecture_RDNA35: "isa_rdna3_5.yaml",
	Architecture_RDNA4:  "isa_rdna4.yaml",
	Architecture_CDNA1:  "isa_mi100.yaml",
	Architecture_CDNA2:  "isa_mi200.yaml",
	Architecture_CDNA3:  "isa_mi300.yaml",
}

func (a Architecture) String() string {
	if name, ok := architectureNames[a]; ok {
		return name
	}

	panic("unreachable")
}

var ErrUnknownArchitecture = errors.New("unknown architecture")

// ParseArchitecture maps an architecture name to its enumerator.
func ParseArchitecture(name string) (Architecture, error) {
	for architecture, architectureName := range architectureNames {
		if architectureName == name {
			return architecture, nil
		}
	}

	return Architecture_Unknown, utils.MakeError(ErrUnknownArchitecture, "%q", name)
}

// ArchitectureNames returns the names of every architecture with an isa
// spec.
func ArchitectureNames() []string {
	names := utils.Map(utils.Keys(specFileNames), func(architecture Architecture) string {
		return architectureNames[architecture]
	})
	sort.Strings(names)

	return names
}

// Manager owns one decoder per architecture, loading isa specs on demand
// from a spec directory.
//
// A manager is an explicit handle: whichever component constructs a model
// owns one and injects the decoder it hands out. There is no shared global
// decoder state.
type Manager struct {
	specDir  string
	decoders map[Architecture]Decoder
}

// NewManager creates a manager that loads isa specs from specDir.
func NewManager(specDir string) *Manager {
	return &Manager{
		specDir:  specDir,
		decoders: make(map[Architecture]Decoder),
	}
}

// Register installs a decoder for an architecture, replacing any spec-backed
// one.
func (m *Manager) Register(architecture Architecture, decoder Decoder) {
	m.decoders[architecture] = decoder
}

// Decoder returns the decoder for an architecture, loading its isa spec on
// first use.
func (m *Manager) Decoder(architecture Architecture) (Decoder, error) {
	if decoder, ok := m.decoders[architecture]; ok {
		return decoder, nil
	}

	specName, ok := specFileNames[architecture]
	if !ok {
		return nil, utils.MakeError(ErrUnknownArchitecture, "no isa spec for %v", architecture)
	}

	decoder, err := LoadSpec(filepath.Join(m.specDir, specName))
	if err != nil {
		return nil, err
	}

	m.decoders[architecture] = decoder

	return decoder, nil
}
