package decode

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSpec = `architecture: rdna3
instructions:
  - name: S_ENDPGM
    description: End of program; terminate wavefront.
    group: Program flow
    encoding: SOPP
    mask: "0xFFFF0000"
    match: "0xBFB00000"
  - name: S_MOV_B32
    description: Move scalar input into a scalar register.
    group: SALU
    encoding: SOP1
    mask: "0xFFFF8000"
    match: "0xBE800000"
`

func writeSpec(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "isa_rdna3.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	return path
}

func TestLoadSpec(t *testing.T) {
	decoder, err := LoadSpec(writeSpec(t, testSpec))
	require.NoError(t, err)

	assert.Equal(t, "rdna3", decoder.Architecture())
}

func TestLoadSpec_MissingFile(t *testing.T) {
	_, err := LoadSpec(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadSpec_RejectsMalformedSpecs(t *testing.T) {
	t.Run("bad yaml", func(t *testing.T) {
		_, err := LoadSpec(writeSpec(t, "architecture: [unclosed"))
		assert.Error(t, err)
	})

	t.Run("bad mask", func(t *testing.T) {
		_, err := LoadSpec(writeSpec(t, `architecture: rdna3
instructions:
  - name: S_ENDPGM
    mask: "not hex"
    match: "0xBFB00000"
`))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrBadEncoding)
	})
}

func TestSpecDecoder_Decode(t *testing.T) {
	decoder, err := LoadSpec(writeSpec(t, testSpec))
	require.NoError(t, err)

	info, err := decoder.Decode("BFB00000")
	require.NoError(t, err)
	assert.Equal(t, "S_ENDPGM", info.Name)
	assert.Equal(t, "Program flow", info.FunctionalGroup)
	assert.Equal(t, "SOPP", info.Encoding)

	// Bits outside the mask do not matter.
	info, err = decoder.Decode("BE800081")
	require.NoError(t, err)
	assert.Equal(t, "S_MOV_B32", info.Name)
}

func TestSpecDecoder_DecodeAcceptsListingEncodingSpellings(t *testing.T) {
	decoder, err := LoadSpec(writeSpec(t, testSpec))
	require.NoError(t, err)

	// Listings write encodings with an optional 0x prefix and spaced dwords.
	info, err := decoder.Decode("0xBFB00000")
	require.NoError(t, err)
	assert.Equal(t, "S_ENDPGM", info.Name)

	info, err = decoder.Decode("BFB0 0000")
	require.NoError(t, err)
	assert.Equal(t, "S_ENDPGM", info.Name)
}

func TestSpecDecoder_DecodeErrors(t *testing.T) {
	decoder, err := LoadSpec(writeSpec(t, testSpec))
	require.NoError(t, err)

	_, err = decoder.Decode("12345678")
	assert.ErrorIs(t, err, ErrUnknownInstruction)

	_, err = decoder.Decode("not hex")
	assert.ErrorIs(t, err, ErrBadEncoding)

	_, err = decoder.Decode("")
	assert.ErrorIs(t, err, ErrBadEncoding)
}

func TestParseArchitecture(t *testing.T) {
	architecture, err := ParseArchitecture("rdna3")
	require.NoError(t, err)
	assert.Equal(t, Architecture_RDNA3, architecture)

	_, err = ParseArchitecture("pentium")
	assert.ErrorIs(t, err, ErrUnknownArchitecture)
}

func TestArchitectureNames(t *testing.T) {
	names := ArchitectureNames()

	assert.Len(t, names, 8)
	assert.Contains(t, names, "rdna3")
	assert.Contains(t, names, "cdna3")
	assert.NotContains(t, names, "unknown")

	// Stable order for CLI help text.
	assert.True(t, sort.StringsAreSorted(names))
}

func TestManager_LoadsSpecsOnDemand(t *testing.T) {
	specDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(specDir, "isa_rdna3.yaml"), []byte(testSpec), 0o644))

	manager := NewManager(specDir)

	decoder, err := manager.Decoder(Architecture_RDNA3)
	require.NoError(t, err)

	info, err := decoder.Decode("BFB00000")
	require.NoError(t, err)
	assert.Equal(t, "S_ENDPGM", info.Name)

	// The spec is compiled once; later lookups reuse the decoder.
	again, err := manager.Decoder(Architecture_RDNA3)
	require.NoError(t, err)
	assert.Same(t, decoder.(*SpecDecoder), again.(*SpecDecoder))
}

func TestManager_MissingSpecFile(t *testing.T) {
	manager := NewManager(t.TempDir())

	_, err := manager.Decoder(Architecture_RDNA2)
	assert.Error(t, err)
}

func TestManager_UnknownArchitecture(t *testing.T) {
	manager := NewManager(t.TempDir())

	_, err := manager.Decoder(Architecture_Unknown)
	assert.ErrorIs(t, err, ErrUnknownArchitecture)
}

type fixedDecoder struct {
	info InstructionInfo
}

func (d *fixedDecoder) Decode(string) (InstructionInfo, error) {
	return d.info, nil
}

func TestManager_RegisterOverridesSpecLoading(t *testing.T) {
	manager := NewManager(t.TempDir())

	registered := &fixedDecoder{info: InstructionInfo{Name: "CUSTOM"}}
	manager.Register(Architecture_RDNA1, registered)

	decoder, err := manager.Decoder(Architecture_RDNA1)
	require.NoError(t, err)

	info, err := decoder.Decode("whatever")
	require.NoError(t, err)
	assert.Equal(t, "CUSTOM", info.Name)
}
