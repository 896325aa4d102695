package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultScenarioValidates(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadOverlaysOntoDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte("num_onu: 4\ngrant_policy: fixed\n"), 0o644))

	scn, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 4, scn.NumONU)
	require.Equal(t, "fixed", scn.GrantPolicy)
	require.Equal(t, Default().MaxSlot, scn.MaxSlot, "fields absent from the file must keep their default value")
}

func TestLoadRejectsMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("num_onu: [this is not an int"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsInvalidScenario(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(path, []byte("num_onu: 999\nnum_llid: 4\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestValidateRejectsUnknownTrafficType(t *testing.T) {
	scn := Default()
	scn.TrafficType = "bogus"
	require.Error(t, scn.Validate())
}

func TestValidateRejectsUnknownGrantPolicy(t *testing.T) {
	scn := Default()
	scn.GrantPolicy = "bogus"
	require.Error(t, scn.Validate())
}

func TestValidateRejectsLoadOutOfRange(t *testing.T) {
	scn := Default()
	scn.MinLoad = 0
	require.Error(t, scn.Validate())

	scn = Default()
	scn.MaxLoad = 1.5
	require.Error(t, scn.Validate())

	scn = Default()
	scn.MinLoad, scn.MaxLoad = 0.5, 0.4
	require.Error(t, scn.Validate())
}

func TestValidateRejectsNumONUAboveNumLLID(t *testing.T) {
	scn := Default()
	scn.NumONU = scn.NumLLID + 1
	require.Error(t, scn.Validate())
}
